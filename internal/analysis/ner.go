package analysis

import (
	prose "github.com/jdkato/prose/v2"
)

// EntityTagger tags person names in free text. It backs the last-resort tier
// of provider-name extraction and is injected so the analyzer can be tested
// without the NLP model.
type EntityTagger interface {
	Persons(text string) []string
}

// ProseTagger implements EntityTagger on the prose NLP library. The model
// data is embedded in the library and loaded once per process; the tagger is
// safe for concurrent use.
type ProseTagger struct{}

func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Persons returns every span tagged PERSON, in document order.
func (*ProseTagger) Persons(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil
	}
	var out []string
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			out = append(out, ent.Text)
		}
	}
	return out
}
