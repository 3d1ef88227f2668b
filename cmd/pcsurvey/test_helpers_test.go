package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"pcsurvey/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	storePath  string
}

const testConfigTemplate = `[paths]
log_dir = %q
data_dir = %q

[logging]
level = "error"

[survey]
timestamp_column = "Timestamp"
name_column = "Name"
multi_valued_columns = ["Memory/Storage", "Topics"]

[[survey.fields]]
name = "dblp"
column = "DBLP"

[[survey.fields]]
name = "meeting_country"
column = "Country"
optional = true

[reconcile]
country_field = "meeting_country"

[roster]
topic_prefix = "topic: "
new_fields = ["timestamp", "dblp", "meeting_country"]
meeting_field = "meeting_country"

[store]
path = %q
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("PCSURVEY_LOG_LEVEL", "")
	t.Setenv("PCSURVEY_STORE_DSN", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		storePath:  filepath.Join(base, "data", "pcsurvey.db"),
	}
	testsupport.WriteFile(t, env.configPath, fmt.Sprintf(testConfigTemplate,
		filepath.Join(base, "logs"), filepath.Join(base, "data"), env.storePath))
	return env
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.baseDir, name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

var exportHeader = []string{"Timestamp", "Name", "DBLP", "Country", "Topics", "Memory/Storage"}

// writeExport writes a survey export with two submissions from Jane Doe.
func writeExport(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	return testsupport.WriteTSV(t, env.path("export.tsv"), exportHeader,
		[]string{"2021/04/01 10:00:00 AM EST", "Jane Doe", "https://dblp.org/jd", "France", "GPUs", "Caches;DRAM"},
		[]string{"2021/04/01 11:00:00 AM PST", "Bob Roe", "https://dblp.org/br", "", "", "DRAM"},
		[]string{"2021/04/02 09:00:00 AM EST", "Jane Doe", "https://dblp.org/jd2", "Germany", "GPUs;FPGA", "Caches"},
	)
}

func writeRoster(t *testing.T, env *cliTestEnv, rows ...string) string {
	t.Helper()
	content := "first,last,email,topic: 1. Memory/Storage: Caches,topic: 2. Topics: GPUs\n" + strings.Join(rows, "\n") + "\n"
	return testsupport.WriteFile(t, env.path("roster.csv"), content)
}
