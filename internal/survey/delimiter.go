package survey

import (
	"fmt"
	"strings"
)

// Delimiter is the batch-wide separator state for multi-valued answers.
// It starts Undecided and locks on the first non-empty value; once locked it
// never changes for the rest of the batch.
type Delimiter int

const (
	DelimiterUndecided Delimiter = iota
	DelimiterSemicolon
	DelimiterComma
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterSemicolon:
		return ";"
	case DelimiterComma:
		return ","
	default:
		return "undecided"
	}
}

// Separator returns the character used to split values. An undecided state
// splits on the preferred semicolon.
func (d Delimiter) Separator() string {
	if d == DelimiterComma {
		return ","
	}
	return ";"
}

// Locked reports whether the batch delimiter has been chosen.
func (d Delimiter) Locked() bool {
	return d != DelimiterUndecided
}

// Observe returns the state after seeing value. Blank values leave the state
// untouched. An undecided state locks to semicolon when the value contains
// one and to comma otherwise.
//
// A semicolon lock is contradicted by a value that carries a comma but no
// semicolon: it can only be read as comma-separated. A comma lock reads a
// semicolon-only value as a single token, which is not a contradiction.
func (d Delimiter) Observe(value string) (Delimiter, error) {
	if strings.TrimSpace(value) == "" {
		return d, nil
	}
	hasSemicolon := strings.Contains(value, ";")
	hasComma := strings.Contains(value, ",")
	switch d {
	case DelimiterUndecided:
		if hasSemicolon {
			return DelimiterSemicolon, nil
		}
		return DelimiterComma, nil
	case DelimiterSemicolon:
		if hasComma && !hasSemicolon {
			return d, fmt.Errorf("delimiter discrepancy: batch locked to %q but %q is comma-separated", d.String(), value)
		}
	}
	return d, nil
}

// Split cuts value with the state's separator and trims every token. Empty
// tokens are dropped, so an empty value yields an empty list.
func (d Delimiter) Split(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, d.Separator())
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
