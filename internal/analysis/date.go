package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const numericDate = `\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`

// Expiration date patterns: exact labeled fields first, then looser
// keyword-anchored numeric forms, then written-month forms.
var datePatterns = []struct {
	re   *regexp.Regexp
	conf float32
}{
	{regexp.MustCompile(`(?im)License Expiration Date:?\s*(` + numericDate + `)`), 0.95},
	{regexp.MustCompile(`(?im)Expires:?\s*(` + numericDate + `)`), 0.95},
	{regexp.MustCompile(`(?im)Expiration:?\s*(` + numericDate + `)`), 0.95},
	{regexp.MustCompile(`(?im)Date of Expiration:?\s*(` + numericDate + `)`), 0.95},
	{regexp.MustCompile(`(?im)License Cancellation Date:?\s*(` + numericDate + `)`), 0.95},
	{regexp.MustCompile(`(?im)Valid Through:?\s*(` + numericDate + `)`), 0.95},
	{regexp.MustCompile(`(?i)(?:expires|expiration|valid through|valid until)[:\s]*(` + numericDate + `)`), 0.90},
	{regexp.MustCompile(`(?i)(?:expires|expiration|valid through|valid until)[:\s]*([A-Za-z]+\s+\d{1,2},?\s*\d{4})`), 0.90},
}

var reNumericDate = regexp.MustCompile(numericDate)

var expirationKeywords = []string{"expir", "valid through", "valid until"}

// extractExpirationDate walks the pattern tiers, normalizing every captured
// candidate. A candidate that fails normalization (month 13, day 32) is
// treated as no match and extraction continues; as a last resort every line
// containing an expiration keyword is scanned for numeric date substrings.
func (a *Analyzer) extractExpirationDate(doc *document) Field {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(doc.text)
		if m == nil {
			continue
		}
		if d := standardizeDate(m[1]); d != "" {
			a.logger.Info("expiration date found", "date", d, "raw", m[1])
			return Field{Value: d, Confidence: p.conf}
		}
	}

	for _, line := range doc.lines {
		lower := strings.ToLower(line)
		hit := false
		for _, kw := range expirationKeywords {
			if strings.Contains(lower, kw) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, raw := range reNumericDate.FindAllString(line, -1) {
			if d := standardizeDate(raw); d != "" {
				a.logger.Info("expiration date found in keyword line", "date", d, "raw", raw)
				return Field{Value: d, Confidence: 0.85}
			}
		}
	}

	a.logger.Warn("no expiration date found")
	return Field{Value: DateNotFound}
}

// standardizeDate normalizes a captured date string to MM-DD-YYYY. Written
// months are parsed with month-name layouts; numeric forms are split on "/"
// or "-", two-digit years are expanded (<50 into the 2000s, otherwise the
// 1900s), and month/day ranges are validated. Returns "" for anything that
// does not survive, which the caller treats as "no match", not an error.
func standardizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if unicode.IsLetter(rune(s[0])) {
		for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("01-02-2006")
			}
		}
	}

	var sep string
	switch {
	case strings.Contains(s, "/"):
		sep = "/"
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return ""
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return ""
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ""
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], nums[2]
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%02d-%02d-%d", month, day, year)
}
