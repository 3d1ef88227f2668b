package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeSurvey()
	c.normalizeReconcile()
	c.normalizeRoster()
	c.normalizeMatching()
	return c.normalizeStore()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("PCSURVEY_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeSurvey() {
	c.Survey.TimestampColumn = strings.TrimSpace(c.Survey.TimestampColumn)
	c.Survey.NameColumn = strings.TrimSpace(c.Survey.NameColumn)
	for i := range c.Survey.Fields {
		c.Survey.Fields[i].Name = strings.TrimSpace(c.Survey.Fields[i].Name)
		c.Survey.Fields[i].Column = strings.TrimSpace(c.Survey.Fields[i].Column)
	}
	c.Survey.MultiValuedColumns = uniqueTrimmed(c.Survey.MultiValuedColumns)
}

func (c *Config) normalizeReconcile() {
	c.Reconcile.CountryField = strings.TrimSpace(c.Reconcile.CountryField)
	c.Reconcile.UnionableFields = uniqueTrimmed(c.Reconcile.UnionableFields)
	c.Reconcile.Union = uniqueTrimmed(c.Reconcile.Union)
	c.Reconcile.Latest = uniqueTrimmed(c.Reconcile.Latest)
	c.Reconcile.Earliest = uniqueTrimmed(c.Reconcile.Earliest)
}

func (c *Config) normalizeRoster() {
	if c.Roster.TopicPrefix == "" {
		c.Roster.TopicPrefix = defaultTopicPrefix
	}
	c.Roster.NewFields = uniqueTrimmed(c.Roster.NewFields)
	c.Roster.MeetingField = strings.TrimSpace(c.Roster.MeetingField)
	if c.Roster.NotResponded == "" {
		c.Roster.NotResponded = defaultNotResponded
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.Candidates <= 0 {
		c.Matching.Candidates = defaultMatchCandidates
	}
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = defaultStoreDriver
	}
	var err error
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	c.Store.DSN = strings.TrimSpace(c.Store.DSN)
	if c.Store.DSN == "" {
		if value, ok := os.LookupEnv("PCSURVEY_STORE_DSN"); ok {
			c.Store.DSN = strings.TrimSpace(value)
		}
	}
	c.Store.Collection = strings.TrimSpace(c.Store.Collection)
	if c.Store.Collection == "" {
		c.Store.Collection = defaultStoreCollection
	}
	return nil
}

func uniqueTrimmed(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
