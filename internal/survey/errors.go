package survey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema marks input that does not match the expected shape: missing
	// columns or fields, delimiter contradictions, unresolvable timestamps.
	ErrSchema = errors.New("schema violation")
	// ErrConsistency marks inputs that disagree about a fact that should have a
	// single source of truth.
	ErrConsistency = errors.New("consistency violation")
)

// Wrap tags err with marker and prefixes the subject (usually a person name)
// and message. Either subject or err may be empty.
func Wrap(marker error, subject, message string, err error) error {
	detail := buildDetail(subject, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(subject, message string) string {
	parts := make([]string, 0, 2)
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, "["+subject+"]")
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "survey failure"
	}
	return strings.Join(parts, " ")
}
