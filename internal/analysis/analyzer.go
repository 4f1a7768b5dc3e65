// Package analysis infers credential fields from raw extracted document text.
//
// Four independent extraction routines cover provider name, issuing state,
// document type, and expiration date. Each is an ordered sequence of
// (pattern, confidence) tiers evaluated first-match-wins; a miss never
// escalates to an error, it degrades to the field's sentinel value at
// confidence 0. All routines are pure functions of the stored text, so
// repeated analysis of identical text yields identical results.
package analysis

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type Analyzer struct {
	states *StateTable
	tagger EntityTagger
	logger *slog.Logger
}

// NewAnalyzer wires the read-only dependencies. states and tagger are built
// once at startup and shared across requests; tagger may be nil, which
// disables the NER tier of name extraction.
func NewAnalyzer(states *StateTable, tagger EntityTagger, logger *slog.Logger) *Analyzer {
	if states == nil {
		states = NewStateTable()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{states: states, tagger: tagger, logger: logger}
}

// document is the per-request read-only view of the extracted text: the
// source string, its non-empty trimmed lines, and the person entities the
// tagger found in it.
type document struct {
	text    string
	lines   []string
	persons []string
}

func (a *Analyzer) parse(text string) *document {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	var persons []string
	if a.tagger != nil {
		persons = a.tagger.Persons(text)
	}
	a.logger.Debug("document parsed", "bytes", len(text), "lines", len(lines), "persons", len(persons))
	return &document{text: text, lines: lines, persons: persons}
}

// Analyze runs all four extraction routines over the text and assembles the
// aggregate result, including the generated document label.
func (a *Analyzer) Analyze(text string) Result {
	doc := a.parse(text)

	provider := a.extractProviderName(doc)
	state := a.extractStateCode(doc)
	docType := a.classifyDocumentType(doc)
	expiration := a.extractExpirationDate(doc)

	return Result{
		Provider:     provider,
		State:        state,
		DocType:      docType,
		Expiration:   expiration,
		DocumentName: fmt.Sprintf("%s - %s (%s)", state.Value, docType.Value, shortID()),
	}
}

// shortID produces the random 8-character suffix for document labels.
func shortID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}
