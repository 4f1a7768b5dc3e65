package analysis

import (
	"regexp"
	"strings"
)

var (
	// issuing-authority header, e.g. "Department of Health of California"
	reStateHeader = regexp.MustCompile(`(?i)(?:Department of Health|Medical Board|DHHS|DOH)\s+(?:of\s+)?([A-Za-z\s]+)`)

	// trailing address line, e.g. "SACRAMENTO, CA 95814"
	reStateAddress = regexp.MustCompile(`[A-Z\s]+,\s*([A-Z]{2})\s*\d{5}`)
)

// extractStateCode resolves the issuing state: authority header in the first
// five lines, then any state full name anywhere in the text, then a
// two-letter code in an address line. First successful tier wins; within a
// tier, the earliest match in document order wins.
func (a *Analyzer) extractStateCode(doc *document) Field {
	limit := len(doc.lines)
	if limit > 5 {
		limit = 5
	}
	header := strings.Join(doc.lines[:limit], " ")
	if m := reStateHeader.FindStringSubmatch(header); m != nil {
		name := strings.ToUpper(strings.TrimSpace(m[1]))
		if code, ok := a.states.CodeForName(name); ok {
			a.logger.Info("state from authority header", "code", code)
			return Field{Value: code, Confidence: 1.0}
		}
	}

	if code, ok := a.states.FirstMention(doc.text); ok {
		a.logger.Info("state from explicit mention", "code", code)
		return Field{Value: code, Confidence: 1.0}
	}

	if m := reStateAddress.FindStringSubmatch(doc.text); m != nil {
		if a.states.IsCode(m[1]) {
			a.logger.Info("state from address line", "code", m[1])
			return Field{Value: m[1], Confidence: 0.95}
		}
	}

	a.logger.Warn("no state code found")
	return Field{Value: UnknownState}
}
