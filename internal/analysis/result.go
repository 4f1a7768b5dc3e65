package analysis

// Field is one extracted value plus a hand-assigned confidence weight in
// [0,1]. The weight is not a calibrated probability: higher values mean an
// exact field-label match, lower values a heuristic fallback. Confidence is
// 0.0 exactly when Value is the field's "not found" sentinel.
type Field struct {
	Value      string
	Confidence float32
}

// Result aggregates the four extracted fields for one document, plus a
// generated label combining state code, document type, and a short random
// identifier. It lives only for the duration of one request.
type Result struct {
	Provider   Field
	State      Field
	DocType    Field
	Expiration Field

	DocumentName string
}

// Sentinel values returned when a field's pattern set finds nothing.
const (
	UnknownState     = "UNKNOWN"
	DateNotFound     = "Date not found"
	OtherCertificate = "Other Certificate"
)
