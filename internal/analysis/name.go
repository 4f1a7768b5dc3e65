package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// Labeled-field patterns for provider names, most specific first. The first
// pattern's capture is cut off before known trailing tokens (designation,
// license-number markers, credential abbreviations) or end of line.
var namePatterns = []struct {
	re   *regexp.Regexp
	conf float32
}{
	{regexp.MustCompile(`(?im)Name:\s*([^:\n]+?)\s*(?:Designation|Lic #|MD|DO|$)`), 0.95},
	{regexp.MustCompile(`(?im)Name on License:\s*([^:\n]+)`), 0.95},
	{regexp.MustCompile(`(?im)Licensee Name:\s*([^:\n]+)`), 0.95},
	{regexp.MustCompile(`(?im)Profile for\s+([^:\n]+?)\s*$`), 0.90},
}

var (
	reHonorific = regexp.MustCompile(`(?i)^(?:dr\.?|doctor|prof\.?|professor)\s+`)

	// credential or location suffix after a separator; the separator
	// requirement keeps "Donald" from losing its "Do".
	reCredSuffix = regexp.MustCompile(`(?i)[,\s]\s*(?:m\.?d\.?|d\.?o\.?|phd|mph|ms|country|state)(?:[\s,.].*)?$`)
)

// Substrings that mark a candidate as portal chrome rather than a person.
var nameBlocklist = []string{
	"licensee", "search", "details", "profile", "license",
	"verification", "portal", "system", "database",
}

// extractProviderName tries labeled-field patterns, then a label:value scan
// of the first 10 lines, then the person entities from the NER pass. Every
// candidate goes through cleaning and validation; the first survivor wins.
func (a *Analyzer) extractProviderName(doc *document) Field {
	for _, p := range namePatterns {
		m := p.re.FindStringSubmatch(doc.text)
		if m == nil {
			continue
		}
		if name := cleanProviderName(m[1]); name != "" {
			a.logger.Info("provider name from labeled field", "name", name)
			return Field{Value: name, Confidence: p.conf}
		}
	}

	limit := len(doc.lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range doc.lines[:limit] {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(line[:i]))
		if !strings.Contains(label, "name") || strings.Contains(label, "file") {
			continue
		}
		if name := cleanProviderName(line[i+1:]); name != "" {
			a.logger.Info("provider name from line scan", "name", name)
			return Field{Value: name, Confidence: 0.90}
		}
	}

	for _, ent := range doc.persons {
		if name := cleanProviderName(ent); name != "" {
			a.logger.Info("provider name from entity tagger", "name", name)
			return Field{Value: name, Confidence: 0.85}
		}
	}

	a.logger.Warn("no valid provider name found")
	return Field{}
}

// cleanProviderName strips honorifics and credential suffixes, reorders
// "Last, First" to "First Last", collapses whitespace, and title-cases
// all-caps candidates. Returns "" when the cleaned name fails validation.
func cleanProviderName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = reHonorific.ReplaceAllString(name, "")
	name = reCredSuffix.ReplaceAllString(name, "")

	if i := strings.IndexByte(name, ','); i >= 0 {
		last := strings.TrimSpace(name[:i])
		first := strings.TrimSpace(name[i+1:])
		name = first + " " + last
	}

	name = strings.Join(strings.Fields(name), " ")

	if name != "" && name == strings.ToUpper(name) {
		name = titleCase(name)
	}

	if !validProviderName(name) {
		return ""
	}
	return name
}

func validProviderName(name string) bool {
	if name == "" {
		return false
	}

	lower := strings.ToLower(name)
	for _, term := range nameBlocklist {
		if strings.Contains(lower, term) {
			return false
		}
	}

	parts := strings.Fields(name)
	if len(parts) < 2 || len(parts) > 5 {
		return false
	}
	hasLong := false
	for _, p := range parts {
		if len(p) > 1 {
			hasLong = true
			break
		}
	}
	if !hasLong {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

// titleCase uppercases the first letter of every word, like "JOHN SMITH-DOE"
// to "John Smith-Doe".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) && !prevLetter {
			r = unicode.ToUpper(r)
		}
		prevLetter = unicode.IsLetter(r)
		b.WriteRune(r)
	}
	return b.String()
}
