package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pcsurvey/internal/config"
	"pcsurvey/internal/logging"
)

func TestConsoleLoggerFormatsComponentAndPerson(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "survey-reconcile")
	logger.Info("duplicate responses",
		logging.String(logging.FieldPerson, "Ada Lovelace"),
		logging.Int("count", 2),
	)

	out := buf.String()
	if !strings.Contains(out, "survey-reconcile: [Ada Lovelace] duplicate responses") {
		t.Fatalf("unexpected console line: %q", out)
	}
	if !strings.Contains(out, "count=2") {
		t.Fatalf("expected count attribute, got %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("tokens", logging.String("fields", "Topics, Memory/Storage"))
	if !strings.Contains(buf.String(), `fields="Topics, Memory/Storage"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "nested", "run.log")
	logger, err := logging.New(logging.Options{Level: "info", Console: &console, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.With(logging.String(logging.FieldRunID, "abc")).Warn("roster flag without survey", logging.String(logging.FieldPerson, "Grace Hopper"))

	if !strings.Contains(console.String(), "roster flag without survey") {
		t.Fatalf("console output missing: %q", console.String())
	}
	if strings.Contains(console.String(), "run_id") {
		t.Fatalf("console should hide run_id: %q", console.String())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if record["level"] != "warn" || record["person"] != "Grace Hopper" || record["run_id"] != "abc" {
		t.Fatalf("unexpected JSON record: %#v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", record)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.File = true
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Error("boom")
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, logging.LogFileName)); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "respondent missing from roster", "roster_unknown_respondent",
		logging.String(logging.FieldImpact, "email left empty"),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "roster_unknown_respondent" {
		t.Fatalf("event_type missing: %#v", record)
	}
	if record[logging.FieldImpact] != "email left empty" {
		t.Fatalf("explicit impact overwritten: %#v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("error_hint not injected: %#v", record)
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("discarded")
	if logging.NewComponentLogger(nil, "x") == nil {
		t.Fatal("expected component logger from nil base")
	}
}
