package main

import (
	"errors"

	"github.com/spf13/cobra"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/roster"
	"pcsurvey/internal/survey"
)

func newGenCSVCommand(ctx *commandContext) *cobra.Command {
	var responseFiles []string

	cmd := &cobra.Command{
		Use:   "gen-csv ROSTER.csv OUT.csv",
		Short: "Cross-validate the roster against responses and write the enriched roster",
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
			if len(responseFiles) == 0 {
				return errors.New("at least one --responses file is required")
			}

			var responses []survey.Response
			for _, path := range responseFiles {
				loaded, err := survey.LoadResponses(path)
				if err != nil {
					return err
				}
				logger.Info("loaded responses",
					logging.String(logging.FieldPath, path),
					logging.Int("responses", len(loaded)),
				)
				responses = append(responses, loaded...)
			}
			members, err := roster.Read(args[0])
			if err != nil {
				return err
			}

			missing, err := roster.NewValidator(rosterOptions(cfg), logger).MergeAll(members, responses)
			if err != nil {
				return err
			}
			if err := roster.Write(args[1], members.Entries); err != nil {
				return err
			}

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Members", statusOK, "%d validated", len(members.Entries))
			kind := statusOK
			if missing > 0 {
				kind = statusWarn
			}
			status.line("Not responded", kind, "%d members", missing)
			status.line("Output", statusOK, "%s", args[1])
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&responseFiles, "responses", "r", nil, "Reconciled responses JSON (repeatable)")
	return cmd
}
