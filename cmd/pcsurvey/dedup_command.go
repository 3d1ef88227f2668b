package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/survey"
)

func newDedupCommand(ctx *commandContext) *cobra.Command {
	var (
		union    []string
		latest   []string
		earliest []string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "dedup SURVEY.json",
		Short: "Reconcile duplicate responses into one record per person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			opts, err := policyOptions(cfg, union, latest, earliest)
			if err != nil {
				return err
			}
			policy, err := survey.NewPolicy(opts)
			if err != nil {
				return err
			}

			responses, err := survey.LoadResponses(args[0])
			if err != nil {
				return err
			}
			result, err := survey.NewReconciler(policy, nil, logger).Reconcile(responses)
			if err != nil {
				return err
			}
			for _, cmp := range result.Comparisons {
				printComparison(cmd.ErrOrStderr(), cmp)
			}

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Responses", statusInfo, "%d read", len(responses))
			status.line("Duplicates", statusInfo, "%d names", result.Duplicates)
			defaulted := 0
			for _, cmp := range result.Comparisons {
				if cmp.Defaulted {
					defaulted++
				}
			}
			kind := statusOK
			if defaulted > 0 {
				kind = statusWarn
			}
			status.line("Inconsistent", kind, "%d names (%d defaulted to latest)", len(result.Comparisons), defaulted)

			if outPath == "" {
				return nil
			}
			if err := survey.SaveResponses(outPath, result.Records); err != nil {
				return err
			}
			logger.Info("saved dedup records",
				logging.String(logging.FieldPath, outPath),
				logging.Int("records", len(result.Records)),
			)
			status.line("Output", statusOK, "%d records to %s", len(result.Records), outPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&union, "union", "u", nil, "Resolve this person with the union strategy (repeatable)")
	cmd.Flags().StringArrayVarP(&latest, "latest", "l", nil, "Resolve this person with the latest response (repeatable)")
	cmd.Flags().StringArrayVarP(&earliest, "earliest", "e", nil, "Resolve this person with the earliest response (repeatable)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write canonical records to this JSON file")
	return cmd
}

func printComparison(w io.Writer, cmp survey.Comparison) {
	headers := append([]string{"Type", "Response Time"}, cmp.Fields...)
	rows := make([][]string, 0, len(cmp.Originals)+1)
	for _, resp := range cmp.Originals {
		rows = append(rows, comparisonRow("Original Response", resp, cmp.Fields))
	}
	label := fmt.Sprintf("Dedup (%s)", cmp.Strategy)
	if cmp.Defaulted {
		label = fmt.Sprintf("Dedup (%s, default)", cmp.Strategy)
	}
	rows = append(rows, comparisonRow(label, cmp.Canonical, cmp.Fields))
	printTable(w, cmp.Name, headers, rows)
}

func comparisonRow(label string, resp survey.Response, fields []string) []string {
	row := []string{label, resp.Timestamp}
	for _, field := range fields {
		value, ok := resp.Get(field)
		if !ok {
			row = append(row, "-")
			continue
		}
		row = append(row, value.String())
	}
	return row
}
