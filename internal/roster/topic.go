package roster

import (
	"fmt"
	"strconv"
	"strings"

	"pcsurvey/internal/survey"
)

// Topic is a roster flag column decoded into the survey's labels.
type Topic struct {
	Column   string
	Category string
	Subtopic string
}

// ParseTopic decodes a column such as "topic: 3. Microarchitecture: Caches".
// The prefix is stripped, the text after the first ". " is split on the first
// ":" into category and subtopic, and both are rewritten through the remap
// tables.
func ParseTopic(column, prefix string, categoryRemap, subtopicRemap map[string]string) (Topic, error) {
	rest, ok := strings.CutPrefix(column, prefix)
	if !ok {
		return Topic{}, fmt.Errorf("topic column %q lacks prefix %q", column, prefix)
	}
	_, rest, ok = strings.Cut(rest, ". ")
	if !ok {
		return Topic{}, fmt.Errorf("topic column %q has no numbered label", column)
	}
	category, subtopic, ok := strings.Cut(rest, ":")
	if !ok {
		return Topic{}, fmt.Errorf("topic column %q has no category:subtopic label", column)
	}
	category = strings.TrimSpace(category)
	subtopic = strings.TrimSpace(subtopic)
	if mapped, ok := categoryRemap[category]; ok {
		category = mapped
	}
	if mapped, ok := subtopicRemap[subtopic]; ok {
		subtopic = mapped
	}
	return Topic{Column: column, Category: category, Subtopic: subtopic}, nil
}

// TopicColumns returns the columns of e that start with prefix.
func TopicColumns(e *Entry, prefix string) []string {
	var out []string
	for _, column := range e.columns {
		if strings.HasPrefix(column, prefix) {
			out = append(out, column)
		}
	}
	return out
}

// parseFlag reads a topic flag. Blank flags count as zero.
func parseFlag(name, column, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, survey.Wrap(survey.ErrSchema, name, fmt.Sprintf("topic %q flag %q is not an integer", column, raw), nil)
	}
	return n, nil
}

func normalizeFlag(n int) string {
	if n > 0 {
		return "1"
	}
	return "0"
}
