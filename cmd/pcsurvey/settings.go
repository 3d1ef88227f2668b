package main

import (
	"fmt"
	"sort"
	"strings"

	"pcsurvey/internal/config"
	"pcsurvey/internal/roster"
	"pcsurvey/internal/survey"
)

func surveySchema(cfg *config.Config) survey.Schema {
	schema := survey.Schema{
		TimestampColumn: cfg.Survey.TimestampColumn,
		NameColumn:      cfg.Survey.NameColumn,
	}
	for _, field := range cfg.Survey.Fields {
		schema.Scalars = append(schema.Scalars, survey.Column{
			Field:    field.Name,
			Column:   field.Column,
			Optional: field.Optional,
		})
	}
	for _, column := range cfg.Survey.MultiValuedColumns {
		schema.MultiValued = append(schema.MultiValued, survey.Column{Field: column, Column: column})
	}
	from := make([]string, 0, len(cfg.Survey.Replacements))
	for key := range cfg.Survey.Replacements {
		from = append(from, key)
	}
	// Longer sources apply first.
	sort.Slice(from, func(i, j int) bool {
		if len(from[i]) != len(from[j]) {
			return len(from[i]) > len(from[j])
		}
		return from[i] < from[j]
	})
	for _, key := range from {
		schema.Replacements = append(schema.Replacements, survey.Replacement{From: key, To: cfg.Survey.Replacements[key]})
	}
	return schema
}

// policyOptions merges command-line strategy names with the configured lists.
func policyOptions(cfg *config.Config, union, latest, earliest []string) (survey.PolicyOptions, error) {
	opts := survey.PolicyOptions{
		Union:           append(append([]string{}, cfg.Reconcile.Union...), union...),
		Latest:          append(append([]string{}, cfg.Reconcile.Latest...), latest...),
		Earliest:        append(append([]string{}, cfg.Reconcile.Earliest...), earliest...),
		UnionableFields: cfg.UnionableFields(),
		CountryField:    cfg.Reconcile.CountryField,
	}
	if err := config.CheckDisjoint(map[string][]string{
		"--union":    opts.Union,
		"--latest":   opts.Latest,
		"--earliest": opts.Earliest,
	}); err != nil {
		return survey.PolicyOptions{}, fmt.Errorf("strategy names: %w", err)
	}
	return opts, nil
}

func rosterOptions(cfg *config.Config) roster.Options {
	return roster.Options{
		TopicPrefix:   cfg.Roster.TopicPrefix,
		CategoryRemap: cfg.Roster.CategoryRemap,
		SubtopicRemap: cfg.Roster.SubtopicRemap,
		NewFields:     cfg.Roster.NewFields,
		MeetingField:  cfg.Roster.MeetingField,
		NotResponded:  cfg.Roster.NotResponded,
	}
}

// parsePairs splits KEY=VALUE flag values. Both sides are trimmed.
func parsePairs(flag string, values []string) (map[string]string, [][]string, error) {
	out := make(map[string]string, len(values))
	ordered := make([][]string, 0, len(values))
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("%s %q: expected KEY=VALUE", flag, raw)
		}
		out[key] = value
		ordered = append(ordered, []string{key, value})
	}
	return out, ordered, nil
}
