package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir  string `toml:"log_dir"`
	DataDir string `toml:"data_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File tees every record as JSON to <log_dir>/pcsurvey.log.
	File bool `toml:"file"`
}

// SurveyField maps one scalar response field to its export column.
type SurveyField struct {
	Name     string `toml:"name"`
	Column   string `toml:"column"`
	Optional bool   `toml:"optional"`
}

// Survey describes the raw survey export layout.
type Survey struct {
	TimestampColumn    string            `toml:"timestamp_column"`
	NameColumn         string            `toml:"name_column"`
	Fields             []SurveyField     `toml:"fields"`
	MultiValuedColumns []string          `toml:"multi_valued_columns"`
	Replacements       map[string]string `toml:"replacements"`
}

// Reconcile contains duplicate-resolution settings.
type Reconcile struct {
	CountryField string `toml:"country_field"`
	// UnionableFields defaults to every multi-valued column.
	UnionableFields []string `toml:"unionable_fields"`
	Union           []string `toml:"union"`
	Latest          []string `toml:"latest"`
	Earliest        []string `toml:"earliest"`
}

// Roster contains committee roster cross-validation settings.
type Roster struct {
	TopicPrefix   string            `toml:"topic_prefix"`
	NewFields     []string          `toml:"new_fields"`
	MeetingField  string            `toml:"meeting_field"`
	NotResponded  string            `toml:"not_responded"`
	CategoryRemap map[string]string `toml:"category_remap"`
	SubtopicRemap map[string]string `toml:"subtopic_remap"`
}

// Matching contains fuzzy name matching settings.
type Matching struct {
	Candidates int `toml:"candidates"`
	MinRatio   int `toml:"min_ratio"`
}

// Store contains document store settings.
type Store struct {
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	DSN        string `toml:"dsn"`
	Collection string `toml:"collection"`
}

// Config encapsulates all configuration values for pcsurvey.
//
// Configuration sections by subsystem:
//   - Paths: log and data directories
//   - Logging: log format, level, and file output
//   - Survey: export column layout and value repairs
//   - Reconcile: duplicate-resolution strategies
//   - Roster: topic flag validation and merged fields
//   - Matching: fuzzy name candidate limits
//   - Store: document store backend
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Survey    Survey    `toml:"survey"`
	Reconcile Reconcile `toml:"reconcile"`
	Roster    Roster    `toml:"roster"`
	Matching  Matching  `toml:"matching"`
	Store     Store     `toml:"store"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pcsurvey/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Array tables decode into existing elements, so the defaults are
		// only restored when the file declares no fields.
		defaultFields := cfg.Survey.Fields
		cfg.Survey.Fields = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if cfg.Survey.Fields == nil {
			cfg.Survey.Fields = defaultFields
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pcsurvey.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and data directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.DataDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the SQLite database file, defaulting to the data directory.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.Paths.DataDir, defaultStoreFile)
}

// UnionableFields returns the configured unionable fields, defaulting to
// every multi-valued column.
func (c *Config) UnionableFields() []string {
	if len(c.Reconcile.UnionableFields) > 0 {
		return append([]string(nil), c.Reconcile.UnionableFields...)
	}
	return append([]string(nil), c.Survey.MultiValuedColumns...)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
