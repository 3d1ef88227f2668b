package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pcsurvey/internal/fileutil"
	"pcsurvey/internal/logging"
	"pcsurvey/internal/survey"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse IN.tsv OUT.json",
		Short: "Convert a raw survey export into JSON responses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]

			logger.Info("reading survey export", logging.String(logging.FieldPath, in))
			table, err := fileutil.ReadDelimited(in, '\t')
			if err != nil {
				return err
			}
			parser, err := survey.NewParser(surveySchema(cfg), nil, logger)
			if err != nil {
				return err
			}
			result, err := parser.Parse(table.Records())
			if err != nil {
				return fmt.Errorf("parse %s: %w", in, err)
			}
			if err := survey.SaveResponses(out, result.Responses); err != nil {
				return err
			}
			logger.Info("saved responses", logging.String(logging.FieldPath, out))

			rows := make([][]string, 0, len(result.Tokens))
			for i, token := range result.Tokens {
				rows = append(rows, []string{strconv.Itoa(i), token})
			}
			printTable(cmd.ErrOrStderr(), "All topic values", []string{"#", "Value"}, rows, alignRight, alignLeft)

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Responses", statusOK, "%d parsed", len(result.Responses))
			status.line("Delimiter", statusInfo, "%s", result.Delimiter)
			status.line("Output", statusOK, "%s", out)
			return nil
		},
	}
}
