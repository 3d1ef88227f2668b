package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"pcsurvey/internal/config"
	"pcsurvey/internal/survey"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration for a survey export",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config path: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			defaults := config.Default()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Match [survey] to the export header: timestamp %q, name %q, %d fields, %d multi-valued columns.\n",
				defaults.Survey.TimestampColumn, defaults.Survey.NameColumn,
				len(defaults.Survey.Fields), len(defaults.Survey.MultiValuedColumns))
			fmt.Fprintln(out, "Then run `pcsurvey config validate` to check the strategy lists and roster fields.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func initTarget(flag string) (string, error) {
	if target := strings.TrimSpace(flag); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the survey layout, strategies, and roster fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts, err := policyOptions(cfg, nil, nil, nil)
			if err != nil {
				return err
			}
			if _, err := survey.NewPolicy(opts); err != nil {
				return err
			}
			if err := surveySchema(cfg).Validate(); err != nil {
				return err
			}

			printTable(cmd.ErrOrStderr(), "Survey columns", []string{"Field", "Column", "Kind"}, surveyColumnRows(cfg))

			status := newStatusPrinter(cmd.OutOrStdout())
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found, defaults used)"
			}
			status.line("Config", statusInfo, "%s", source)
			status.line("Strategies", statusOK, "union %d, latest %d, earliest %d (disjoint)",
				len(opts.Union), len(opts.Latest), len(opts.Earliest))
			status.line("Unionable", statusInfo, "%s", strings.Join(opts.UnionableFields, ", "))
			for _, warning := range rosterFieldWarnings(cfg) {
				status.line("Roster", statusWarn, "%s", warning)
			}
			status.line("Store", statusInfo, "%s, collection %s", cfg.Store.Driver, cfg.Store.Collection)
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

func surveyColumnRows(cfg *config.Config) [][]string {
	rows := [][]string{
		{survey.FieldTimestamp, cfg.Survey.TimestampColumn, "timestamp"},
		{survey.FieldName, cfg.Survey.NameColumn, "name"},
	}
	for _, field := range cfg.Survey.Fields {
		kind := "scalar"
		if field.Optional {
			kind = "scalar, optional"
		}
		rows = append(rows, []string{field.Name, field.Column, kind})
	}
	for _, column := range cfg.Survey.MultiValuedColumns {
		rows = append(rows, []string{column, column, "multi-valued"})
	}
	return rows
}

// rosterFieldWarnings reports roster new fields a response may not carry.
// gen-csv fails for a responder missing any of them.
func rosterFieldWarnings(cfg *config.Config) []string {
	var warnings []string
	for _, name := range cfg.Roster.NewFields {
		if name == survey.FieldTimestamp || name == survey.FieldName {
			continue
		}
		if slices.Contains(cfg.Survey.MultiValuedColumns, name) {
			continue
		}
		idx := slices.IndexFunc(cfg.Survey.Fields, func(f config.SurveyField) bool { return f.Name == name })
		switch {
		case idx < 0:
			warnings = append(warnings, fmt.Sprintf("new field %q is not a survey field", name))
		case cfg.Survey.Fields[idx].Optional:
			warnings = append(warnings, fmt.Sprintf("new field %q comes from optional column %q", name, cfg.Survey.Fields[idx].Column))
		}
	}
	return warnings
}
