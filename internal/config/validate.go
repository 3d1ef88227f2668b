package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSurvey(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	if err := c.validateRoster(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateStore()
}

func (c *Config) validateSurvey() error {
	if c.Survey.TimestampColumn == "" {
		return errors.New("survey.timestamp_column must be set")
	}
	if c.Survey.NameColumn == "" {
		return errors.New("survey.name_column must be set")
	}
	seen := map[string]string{"timestamp": "reserved", "name": "reserved"}
	for i, field := range c.Survey.Fields {
		if field.Name == "" || field.Column == "" {
			return fmt.Errorf("survey.fields[%d] needs both name and column", i)
		}
		if owner, dup := seen[field.Name]; dup {
			return fmt.Errorf("survey.fields[%d]: field %q already used (%s)", i, field.Name, owner)
		}
		seen[field.Name] = "survey.fields"
	}
	for _, column := range c.Survey.MultiValuedColumns {
		if owner, dup := seen[column]; dup {
			return fmt.Errorf("survey.multi_valued_columns: field %q already used (%s)", column, owner)
		}
		seen[column] = "survey.multi_valued_columns"
	}
	for from := range c.Survey.Replacements {
		if from == "" {
			return errors.New("survey.replacements: source text must not be empty")
		}
	}
	return nil
}

func (c *Config) validateReconcile() error {
	multi := make(map[string]struct{}, len(c.Survey.MultiValuedColumns))
	for _, column := range c.Survey.MultiValuedColumns {
		multi[column] = struct{}{}
	}
	for _, field := range c.Reconcile.UnionableFields {
		if _, ok := multi[field]; !ok {
			return fmt.Errorf("reconcile.unionable_fields: %q is not a multi-valued column", field)
		}
		if field == c.Reconcile.CountryField {
			return fmt.Errorf("reconcile.unionable_fields: country field %q always takes the latest value", field)
		}
	}
	return CheckDisjoint(map[string][]string{
		"reconcile.union":    c.Reconcile.Union,
		"reconcile.latest":   c.Reconcile.Latest,
		"reconcile.earliest": c.Reconcile.Earliest,
	})
}

func (c *Config) validateRoster() error {
	if strings.TrimSpace(c.Roster.TopicPrefix) == "" {
		return errors.New("roster.topic_prefix must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MinRatio < 0 || c.Matching.MinRatio > 100 {
		return errors.New("matching.min_ratio must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case "sqlite":
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn must be set when store.driver is postgres (or set PCSURVEY_STORE_DSN)")
		}
	default:
		return fmt.Errorf("store.driver: unsupported value %q (use sqlite or postgres)", c.Store.Driver)
	}
	return nil
}

// CheckDisjoint returns an error naming the first value that appears in more
// than one of the named lists. Lists are checked in key order.
func CheckDisjoint(lists map[string][]string) error {
	keys := make([]string, 0, len(lists))
	for key := range lists {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	owner := make(map[string]string)
	for _, key := range keys {
		for _, value := range lists[key] {
			value = strings.TrimSpace(value)
			if prev, ok := owner[value]; ok && prev != key {
				return fmt.Errorf("%q appears in both %s and %s", value, prev, key)
			}
			owner[value] = key
		}
	}
	return nil
}
