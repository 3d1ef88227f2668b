package main

import (
	"github.com/spf13/cobra"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/survey"
)

func newFixNameCommand(ctx *commandContext) *cobra.Command {
	var (
		pairs   []string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "fix-name FILE.json",
		Short: "Rename respondents after manual review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			renames, ordered, err := parsePairs("--name", pairs)
			if err != nil {
				return err
			}
			printTable(cmd.ErrOrStderr(), "Name Fixes", []string{"origin", "fixed"}, ordered)

			responses, err := survey.LoadResponses(args[0])
			if err != nil {
				return err
			}
			for _, resp := range responses {
				if to, ok := renames[resp.Name]; ok && to != resp.Name {
					logger.Info("renaming respondent",
						logging.String(logging.FieldPerson, resp.Name),
						logging.String("to", to),
					)
				}
			}
			changed := survey.Rename(responses, renames)

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Renamed", statusInfo, "%d responses", changed)
			if outPath == "" {
				return nil
			}
			if err := survey.SaveResponses(outPath, responses); err != nil {
				return err
			}
			status.line("Output", statusOK, "%s", outPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "name", "n", nil, "Rename OLD=NEW (repeatable)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write renamed responses to this JSON file")
	return cmd
}
