package analysis

import (
	"regexp"
	"strings"

	"github.com/medverify/credscan/constants"
)

// StateTable maps US state full names to two-letter codes. Constructed once
// at process start, read-only thereafter, shared by all requests.
type StateTable struct {
	entries  []constants.StateEntry
	byName   map[string]string
	codes    map[string]struct{}
	mentions []*regexp.Regexp // whole-word, case-insensitive, one per state
}

// NewStateTable builds the lookup table from the 50-state list.
func NewStateTable() *StateTable {
	t := &StateTable{
		entries:  constants.USStates,
		byName:   make(map[string]string, len(constants.USStates)),
		codes:    make(map[string]struct{}, len(constants.USStates)),
		mentions: make([]*regexp.Regexp, len(constants.USStates)),
	}
	for i, e := range constants.USStates {
		t.byName[e.Name] = e.Code
		t.codes[e.Code] = struct{}{}
		t.mentions[i] = regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(e.Name, " ", `\s`) + `\b`)
	}
	return t
}

// CodeForName resolves an uppercase full state name to its code.
func (t *StateTable) CodeForName(name string) (string, bool) {
	code, ok := t.byName[name]
	return code, ok
}

// IsCode reports whether code is a known two-letter state code.
func (t *StateTable) IsCode(code string) bool {
	_, ok := t.codes[code]
	return ok
}

// FirstMention scans text for any state full name as a whole word,
// case-insensitively, and returns the code of the earliest mention in
// document order. Ties go to the alphabetically first state.
func (t *StateTable) FirstMention(text string) (string, bool) {
	best := -1
	code := ""
	for i, re := range t.mentions {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			code = t.entries[i].Code
		}
	}
	return code, best >= 0
}
