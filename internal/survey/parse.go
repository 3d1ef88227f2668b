package survey

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/timezone"
)

// Column maps a response field to an export column.
type Column struct {
	Field  string
	Column string
	// Optional columns may be absent from the export; the field is then
	// omitted from every response instead of failing the parse.
	Optional bool
}

// Replacement is a verbatim substring rewrite applied to raw multi-valued
// answers before they are split.
type Replacement struct {
	From string
	To   string
}

// Schema describes how export columns become response fields.
type Schema struct {
	TimestampColumn string
	NameColumn      string
	Scalars         []Column
	MultiValued     []Column
	Replacements    []Replacement
}

// Validate checks that the schema names every required column once.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.TimestampColumn) == "" {
		return errors.New("survey schema: timestamp column must be set")
	}
	if strings.TrimSpace(s.NameColumn) == "" {
		return errors.New("survey schema: name column must be set")
	}
	seen := map[string]struct{}{FieldTimestamp: {}, FieldName: {}}
	for _, col := range append(append([]Column{}, s.Scalars...), s.MultiValued...) {
		if strings.TrimSpace(col.Field) == "" || strings.TrimSpace(col.Column) == "" {
			return fmt.Errorf("survey schema: field %q needs both a field name and a column", col.Field)
		}
		if _, dup := seen[col.Field]; dup {
			return fmt.Errorf("survey schema: field %q defined more than once", col.Field)
		}
		seen[col.Field] = struct{}{}
	}
	for _, rep := range s.Replacements {
		if rep.From == "" {
			return errors.New("survey schema: replacement source must not be empty")
		}
	}
	return nil
}

// ParseResult holds the outcome of parsing one export.
type ParseResult struct {
	Responses []Response
	// Tokens lists every distinct multi-valued token, sorted.
	Tokens []string
	// Delimiter is the state the batch ended in.
	Delimiter Delimiter
}

// Parser converts export rows into responses.
type Parser struct {
	schema Schema
	zones  *timezone.Table
	logger *slog.Logger
}

// NewParser validates schema and returns a parser. A nil zones table uses the
// built-in one.
func NewParser(schema Schema, zones *timezone.Table, logger *slog.Logger) (*Parser, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if zones == nil {
		zones = timezone.Default()
	}
	return &Parser{
		schema: schema,
		zones:  zones,
		logger: logging.NewComponentLogger(logger, "survey-parse"),
	}, nil
}

// Parse converts rows into responses. Any schema violation, including a
// delimiter contradiction, aborts the whole batch.
func (p *Parser) Parse(rows []map[string]string) (*ParseResult, error) {
	state := DelimiterUndecided
	tokens := make(map[string]struct{})
	responses := make([]Response, 0, len(rows))

	for i, row := range rows {
		rowLabel := fmt.Sprintf("row %d", i+1)
		resp, next, err := p.parseRow(row, rowLabel, state, tokens)
		if err != nil {
			return nil, err
		}
		if next != state {
			p.logger.Debug("multi-valued delimiter locked",
				logging.String("delimiter", next.String()),
				logging.String("row", rowLabel),
			)
		}
		state = next
		responses = append(responses, resp)
	}

	sorted := make([]string, 0, len(tokens))
	for token := range tokens {
		sorted = append(sorted, token)
	}
	sort.Strings(sorted)

	p.logger.Info("parsed survey export",
		logging.Int("responses", len(responses)),
		logging.Int("distinct_tokens", len(sorted)),
		logging.String("delimiter", state.String()),
	)
	return &ParseResult{Responses: responses, Tokens: sorted, Delimiter: state}, nil
}

func (p *Parser) parseRow(row map[string]string, rowLabel string, state Delimiter, tokens map[string]struct{}) (Response, Delimiter, error) {
	var resp Response

	rawTS, ok := row[p.schema.TimestampColumn]
	if !ok {
		return resp, state, Wrap(ErrSchema, rowLabel, fmt.Sprintf("missing column %q", p.schema.TimestampColumn), nil)
	}
	submittedAt, err := p.zones.ParseTimestamp(rawTS)
	if err != nil {
		return resp, state, Wrap(ErrSchema, rowLabel, "resolve timestamp", err)
	}
	resp.Timestamp = rawTS
	resp.SubmittedAt = submittedAt

	rawName, ok := row[p.schema.NameColumn]
	if !ok {
		return resp, state, Wrap(ErrSchema, rowLabel, fmt.Sprintf("missing column %q", p.schema.NameColumn), nil)
	}
	resp.Name = strings.TrimSpace(rawName)
	if resp.Name == "" {
		return resp, state, Wrap(ErrSchema, rowLabel, "empty respondent name", nil)
	}

	for _, col := range p.schema.Scalars {
		value, ok := row[col.Column]
		if !ok {
			if col.Optional {
				continue
			}
			return resp, state, Wrap(ErrSchema, resp.Name, fmt.Sprintf("%s: missing column %q", rowLabel, col.Column), nil)
		}
		resp.Fields.Set(col.Field, Scalar(value))
	}

	for _, col := range p.schema.MultiValued {
		raw, ok := row[col.Column]
		if !ok {
			return resp, state, Wrap(ErrSchema, resp.Name, fmt.Sprintf("%s: missing column %q", rowLabel, col.Column), nil)
		}
		raw = p.applyReplacements(raw, resp.Name, col.Field)
		next, err := state.Observe(raw)
		if err != nil {
			return resp, state, Wrap(ErrSchema, resp.Name, fmt.Sprintf("%s field %q", rowLabel, col.Field), err)
		}
		state = next
		items := state.Split(raw)
		for _, item := range items {
			tokens[item] = struct{}{}
		}
		resp.Fields.Set(col.Field, List(items...))
	}
	return resp, state, nil
}

func (p *Parser) applyReplacements(raw, name, field string) string {
	for _, rep := range p.schema.Replacements {
		if !strings.Contains(raw, rep.From) {
			continue
		}
		replaced := strings.ReplaceAll(raw, rep.From, rep.To)
		p.logger.Debug("applied value replacement",
			logging.String(logging.FieldPerson, name),
			logging.String(logging.FieldField, field),
			logging.String("before", raw),
			logging.String("after", replaced),
		)
		raw = replaced
	}
	return raw
}
