package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)
)

// Normalize collapses noisy whitespace and strips ruled-line artifacts from
// raw engine output before it reaches the field extractors. This is the only
// post-processing applied to recognized text, and it is whitespace-only: line
// breaks survive and digit or letter tokens are never rewritten, so any token
// a field pattern could match in the raw output it can still match here.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	// collapse too many blank lines
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	// trim trailing spaces on lines
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
