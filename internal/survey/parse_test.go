package survey_test

import (
	"errors"
	"strings"
	"testing"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/survey"
)

func testSchema() survey.Schema {
	return survey.Schema{
		TimestampColumn: "Timestamp",
		NameColumn:      "Name (First Last)",
		Scalars: []survey.Column{
			{Field: "dblp", Column: "Your DBLP URL"},
			{Field: "meeting_country", Column: "Country", Optional: true},
		},
		MultiValued: []survey.Column{
			{Field: "Topics", Column: "Topics"},
			{Field: "Microarchitecture", Column: "Microarchitecture"},
		},
		Replacements: []survey.Replacement{
			{From: "FPGA, CGRA, Reconfigurable Systems", To: "FPGA/CGRA/Reconfigurable Systems"},
		},
	}
}

func row(ts, name, dblp, topics, micro string) map[string]string {
	return map[string]string{
		"Timestamp":         ts,
		"Name (First Last)": name,
		"Your DBLP URL":     dblp,
		"Topics":            topics,
		"Microarchitecture": micro,
	}
}

func newParser(t *testing.T) *survey.Parser {
	t.Helper()
	parser, err := survey.NewParser(testSchema(), nil, logging.NewNop())
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return parser
}

func items(t *testing.T, resp survey.Response, field string) []string {
	t.Helper()
	v, ok := resp.Get(field)
	if !ok {
		t.Fatalf("response %q missing field %q", resp.Name, field)
	}
	if !v.Multi {
		t.Fatalf("field %q is not multi-valued", field)
	}
	return v.Items
}

func TestParseSemicolonBatch(t *testing.T) {
	result, err := newParser(t).Parse([]map[string]string{
		row("2021/04/01 10:00:00 AM EST", "  Jane Doe ", "https://dblp.org/jd", "Caches; Prefetching", ""),
		row("2021/04/02 10:00:00 AM PDT", "John Roe", "", "GPUs", "Branch prediction;"),
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Delimiter != survey.DelimiterSemicolon {
		t.Fatalf("expected semicolon lock, got %s", result.Delimiter)
	}
	first := result.Responses[0]
	if first.Name != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", first.Name)
	}
	if got := strings.Join(items(t, first, "Topics"), "|"); got != "Caches|Prefetching" {
		t.Fatalf("unexpected topics %q", got)
	}
	if got := items(t, first, "Microarchitecture"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list for empty source, got %#v", got)
	}
	if first.SubmittedAt.UTC().Hour() != 15 {
		t.Fatalf("expected EST resolved to 15:00 UTC, got %s", first.SubmittedAt.UTC())
	}
	if _, ok := first.Get("meeting_country"); ok {
		t.Fatal("expected absent optional column to be omitted")
	}
	second := result.Responses[1]
	if got := strings.Join(items(t, second, "Microarchitecture"), "|"); got != "Branch prediction" {
		t.Fatalf("unexpected microarchitecture %q", got)
	}
	want := []string{"Branch prediction", "Caches", "GPUs", "Prefetching"}
	if strings.Join(result.Tokens, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected tokens %v", result.Tokens)
	}
}

func TestParseCommaFallbackLocksBatch(t *testing.T) {
	result, err := newParser(t).Parse([]map[string]string{
		row("2021/04/01 10:00:00 AM EST", "Jane Doe", "", "", "GPUs, accelerators"),
		row("2021/04/02 10:00:00 AM EST", "John Roe", "", "Caches; Prefetching", ""),
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Delimiter != survey.DelimiterComma {
		t.Fatalf("expected comma lock, got %s", result.Delimiter)
	}
	if got := strings.Join(items(t, result.Responses[0], "Microarchitecture"), "|"); got != "GPUs|accelerators" {
		t.Fatalf("unexpected split %q", got)
	}
	got := items(t, result.Responses[1], "Topics")
	if len(got) != 1 || got[0] != "Caches; Prefetching" {
		t.Fatalf("expected semicolon value kept as one token under comma lock, got %#v", got)
	}
}

func TestParseDelimiterContradictionAbortsBatch(t *testing.T) {
	_, err := newParser(t).Parse([]map[string]string{
		row("2021/04/01 10:00:00 AM EST", "Jane Doe", "", "Caches; Prefetching", ""),
		row("2021/04/02 10:00:00 AM EST", "John Roe", "", "Caches", ""),
		row("2021/04/03 10:00:00 AM EST", "Ann Poe", "", "", "GPUs, accelerators"),
	})
	if err == nil {
		t.Fatal("expected delimiter discrepancy error")
	}
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "Ann Poe") || !strings.Contains(err.Error(), "delimiter discrepancy") {
		t.Fatalf("expected error to name person and cause, got %v", err)
	}
}

func TestParseReplacementRepairsCommaLabels(t *testing.T) {
	result, err := newParser(t).Parse([]map[string]string{
		row("2021/04/01 10:00:00 AM EST", "Jane Doe", "", "FPGA, CGRA, Reconfigurable Systems, Caches", ""),
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := strings.Join(items(t, result.Responses[0], "Topics"), "|")
	if got != "FPGA/CGRA/Reconfigurable Systems|Caches" {
		t.Fatalf("unexpected topics %q", got)
	}
}

func TestParseSchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		want   string
	}{
		{
			name:   "missing multi-valued column",
			mutate: func(r map[string]string) { delete(r, "Topics") },
			want:   `missing column "Topics"`,
		},
		{
			name:   "missing required scalar",
			mutate: func(r map[string]string) { delete(r, "Your DBLP URL") },
			want:   `missing column "Your DBLP URL"`,
		},
		{
			name:   "unknown timezone",
			mutate: func(r map[string]string) { r["Timestamp"] = "2021/04/01 10:00:00 AM XYZT" },
			want:   "resolve timestamp",
		},
		{
			name:   "blank name",
			mutate: func(r map[string]string) { r["Name (First Last)"] = "   " },
			want:   "empty respondent name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := row("2021/04/01 10:00:00 AM EST", "Jane Doe", "", "Caches", "")
			tt.mutate(r)
			_, err := newParser(t).Parse([]map[string]string{r})
			if !errors.Is(err, survey.ErrSchema) {
				t.Fatalf("expected ErrSchema, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	schema := testSchema()
	schema.MultiValued = append(schema.MultiValued, survey.Column{Field: "dblp", Column: "Other"})
	if _, err := survey.NewParser(schema, nil, nil); err == nil {
		t.Fatal("expected duplicate field error")
	}
	schema = testSchema()
	schema.NameColumn = ""
	if _, err := survey.NewParser(schema, nil, nil); err == nil {
		t.Fatal("expected missing name column error")
	}
}

func TestDelimiterObserve(t *testing.T) {
	tests := []struct {
		name    string
		state   survey.Delimiter
		value   string
		want    survey.Delimiter
		wantErr bool
	}{
		{"blank keeps undecided", survey.DelimiterUndecided, "  ", survey.DelimiterUndecided, false},
		{"semicolon locks", survey.DelimiterUndecided, "a; b", survey.DelimiterSemicolon, false},
		{"single token locks comma", survey.DelimiterUndecided, "a", survey.DelimiterComma, false},
		{"mixed locks semicolon", survey.DelimiterUndecided, "a, b; c", survey.DelimiterSemicolon, false},
		{"comma under semicolon", survey.DelimiterSemicolon, "a, b", survey.DelimiterSemicolon, true},
		{"mixed under semicolon", survey.DelimiterSemicolon, "a, b; c", survey.DelimiterSemicolon, false},
		{"semicolon under comma", survey.DelimiterComma, "a; b", survey.DelimiterComma, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.state.Observe(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Observe error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Observe = %s, want %s", got, tt.want)
			}
		})
	}
}
