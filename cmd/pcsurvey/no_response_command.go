package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/namematch"
	"pcsurvey/internal/roster"
	"pcsurvey/internal/survey"
)

func newNoResponseCommand(ctx *commandContext) *cobra.Command {
	var (
		candidates int
		minRatio   int
	)

	cmd := &cobra.Command{
		Use:   "no-response SURVEY.json ROSTER.csv",
		Short: "List roster members without a survey response",
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
			if !cmd.Flags().Changed("candidates") {
				candidates = cfg.Matching.Candidates
			}
			if !cmd.Flags().Changed("ratio") {
				minRatio = cfg.Matching.MinRatio
			}

			responses, err := survey.LoadResponses(args[0])
			if err != nil {
				return err
			}
			members, err := roster.Read(args[1])
			if err != nil {
				return err
			}

			report := namematch.Build(survey.DistinctNames(responses), members.Names(), candidates, minRatio)
			emails := members.Emails()
			stderr := cmd.ErrOrStderr()
			printNoResponse(stderr, report.Partition.NoResponse, emails, members.HasEmail())

			status := newStatusPrinter(cmd.OutOrStdout())
			p := report.Partition
			status.line("Responses", statusInfo, "%d names", p.Respondents)
			status.line("Members", statusInfo, "%d names", p.Members)
			status.line("No response", statusInfo, "%d members", len(p.NoResponse))
			if p.Clean() {
				status.line("Names", statusOK, "responses and roster partition cleanly")
				return nil
			}

			logging.WarnWithContext(logger, "respondent and roster names do not partition", "name_partition_mismatch",
				logging.Int("responses", p.Respondents),
				logging.Int("members", p.Members),
				logging.Int("no_response", len(p.NoResponse)),
				logging.Int("error", p.Mismatch()),
				logging.String(logging.FieldErrorHint, "review fuzzy candidates and apply fixes with fix-name"),
				logging.String(logging.FieldImpact, "misspelled respondents are reported as not responded"),
			)
			printMatches(stderr, "Members not responded yet", "Member Name", "Resp candidate", report.Members, candidates, emails, members.HasEmail())
			printMatches(stderr, "Members responded but name not found", "Responded Member Name", "Member candidate", report.Responses, candidates, nil, false)
			status.line("Names", statusWarn, "%d unmatched respondents (error %d)", len(p.Unknown), p.Mismatch())
			return nil
		},
	}

	cmd.Flags().IntVarP(&candidates, "candidates", "k", 3, "Fuzzy candidates to show per name")
	cmd.Flags().IntVarP(&minRatio, "ratio", "r", 0, "Only show candidates scoring above this ratio (0-100)")
	return cmd
}

func printNoResponse(w io.Writer, names []string, emails map[string]string, withEmail bool) {
	headers := []string{"name"}
	if withEmail {
		headers = append(headers, "email")
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		row := []string{name}
		if withEmail {
			row = append(row, emails[name])
		}
		rows = append(rows, row)
	}
	printTable(w, "Members not responded yet", headers, rows)
}

func printMatches(w io.Writer, title, nameHeader, candidateHeader string, matches []namematch.Match, k int, emails map[string]string, withEmail bool) {
	headers := []string{nameHeader}
	if withEmail {
		headers = append(headers, "Email")
	}
	for i := 0; i < k; i++ {
		headers = append(headers, fmt.Sprintf("%s %d", candidateHeader, i))
	}
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		row := []string{m.Name}
		if withEmail {
			row = append(row, emails[m.Name])
		}
		for _, c := range m.Candidates {
			row = append(row, c.String())
		}
		rows = append(rows, row)
	}
	printTable(w, title, headers, rows)
}
