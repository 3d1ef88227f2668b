package main

import (
	"github.com/spf13/cobra"

	"pcsurvey/internal/roster"
	"pcsurvey/internal/survey"
)

func newAddEmailCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "add-email SURVEY.json ROSTER.csv",
		Short: "Copy roster emails onto survey responses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := survey.LoadResponses(args[0])
			if err != nil {
				return err
			}
			members, err := roster.Read(args[1])
			if err != nil {
				return err
			}
			if !members.HasEmail() {
				return survey.Wrap(survey.ErrSchema, "", "roster has no email column", nil)
			}
			if err := roster.AddEmail(responses, members); err != nil {
				return err
			}

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Emails", statusOK, "%d responses", len(responses))
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

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write responses with emails to this JSON file")
	return cmd
}
