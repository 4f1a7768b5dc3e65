package constants

import "strings"

// Document formats the extraction pipeline dispatches on.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	DOCX  = "DOCX"
)

// AllowedExtensions holds the upload extensions accepted by the service.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a (possibly dotted, mixed-case) extension is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat maps a file extension to its document format.
// Returns "" for extensions the pipeline cannot process.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	case "docx":
		return DOCX
	default:
		return ""
	}
}
