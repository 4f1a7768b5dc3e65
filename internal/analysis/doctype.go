package analysis

import "regexp"

type typePattern struct {
	re   *regexp.Regexp
	conf float32
}

type documentCategory struct {
	label    string
	patterns []typePattern
}

// documentCategories is checked in order; within a category, patterns are
// checked in order and the first hit wins. Category order matters: a text
// mentioning both a medical license and board certification classifies as
// the license.
var documentCategories = []documentCategory{
	{"State Medical License", []typePattern{
		{regexp.MustCompile(`(?i)medical\s+license\b`), 0.95},
		{regexp.MustCompile(`(?i)physician\s+license\b`), 0.95},
		{regexp.MustCompile(`(?i)license\s+to\s+practice\s+medicine`), 0.95},
		{regexp.MustCompile(`(?i)state\s+(?:medical|physician)\s+board`), 0.90},
		{regexp.MustCompile(`(?i)composite\s+medical\s+board`), 0.90},
	}},
	{"Board Certification", []typePattern{
		{regexp.MustCompile(`(?i)board\s+certi(?:fied|fication)\b`), 0.95},
		{regexp.MustCompile(`(?i)specialty\s+board\s+certification`), 0.95},
		{regexp.MustCompile(`(?i)american\s+board\s+of`), 0.90},
		{regexp.MustCompile(`(?i)ABOS`), 0.90},
	}},
	{"DEA License", []typePattern{
		{regexp.MustCompile(`(?i)DEA\s+registration`), 0.95},
		{regexp.MustCompile(`(?i)drug\s+enforcement\s+administration`), 0.95},
		{regexp.MustCompile(`(?i)controlled\s+substance\s+registration`), 0.95},
	}},
}

// classifyDocumentType returns the first matching category, or the
// "Other Certificate" catch-all at 0.60. The catch-all is a deliberate
// non-zero default: it is a classification, not a miss.
func (a *Analyzer) classifyDocumentType(doc *document) Field {
	for _, cat := range documentCategories {
		for _, p := range cat.patterns {
			if p.re.MatchString(doc.text) {
				a.logger.Info("document classified", "type", cat.label)
				return Field{Value: cat.label, Confidence: p.conf}
			}
		}
	}
	a.logger.Info("document classified", "type", OtherCertificate)
	return Field{Value: OtherCertificate, Confidence: 0.60}
}
