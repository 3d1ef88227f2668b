package testsupport

import (
	"path/filepath"
	"testing"

	"pcsurvey/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return builder.cfg
}

// WithStorePath points the SQLite store at a file under the test directory.
func WithStorePath(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Path = filepath.Join(b.baseDir, name)
	}
}

// WithStrategies sets the configured reconcile name lists.
func WithStrategies(union, latest, earliest []string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reconcile.Union = union
		b.cfg.Reconcile.Latest = latest
		b.cfg.Reconcile.Earliest = earliest
	}
}

// WithLogFile enables the JSON log file tee.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = true
	}
}
