package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pcsurvey/internal/config"
	"pcsurvey/internal/logging"
	"pcsurvey/internal/roster"
	"pcsurvey/internal/store"
	"pcsurvey/internal/survey"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Keep reconciled responses in a document store",
	}

	storeCmd.AddCommand(newStoreImportCommand(ctx))
	storeCmd.AddCommand(newStoreFindCommand(ctx))
	storeCmd.AddCommand(newStoreDistinctCommand(ctx))

	return storeCmd
}

func openStore(cmd *cobra.Command, ctx *commandContext) (*store.Store, *config.Config, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func collectionName(cfg *config.Config, flag string) string {
	if name := strings.TrimSpace(flag); name != "" {
		return name
	}
	return cfg.Store.Collection
}

// responseDocument converts a response into its stored shape. Documents are
// keyed by email when present so renamed respondents keep their identity.
func responseDocument(resp survey.Response) (string, store.Document, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return "", nil, fmt.Errorf("encode response of %q: %w", resp.Name, err)
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("decode response of %q: %w", resp.Name, err)
	}
	id := resp.Name
	if email, ok := resp.Fields.Get(roster.ColumnEmail); ok && strings.TrimSpace(email.String()) != "" {
		id = strings.TrimSpace(email.String())
	}
	return id, doc, nil
}

func newStoreImportCommand(ctx *commandContext) *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "import FILE.json",
		Short: "Upsert responses into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			responses, err := survey.LoadResponses(args[0])
			if err != nil {
				return err
			}
			s, cfg, err := openStore(cmd, ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			coll := collectionName(cfg, collection)
			for _, resp := range responses {
				id, doc, err := responseDocument(resp)
				if err != nil {
					return err
				}
				if err := s.Upsert(cmd.Context(), coll, id, doc); err != nil {
					return err
				}
				logger.Debug("stored response",
					logging.String(logging.FieldPerson, resp.Name),
					logging.String("collection", coll),
				)
			}

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Imported", statusOK, "%d responses into %s", len(responses), coll)
			status.line("Store", statusInfo, "%s", s.Driver())
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection name (defaults to store.collection)")
	return cmd
}

func newStoreFindCommand(ctx *commandContext) *cobra.Command {
	var (
		collection string
		filters    []string
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print stored documents matching every filter as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _, err := parsePairs("--filter", filters)
			if err != nil {
				return err
			}
			s, cfg, err := openStore(cmd, ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			docs, err := s.Find(cmd.Context(), collectionName(cfg, collection), filter)
			if err != nil {
				return err
			}
			if docs == nil {
				docs = []store.Document{}
			}
			return writeJSON(cmd, docs)
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection name (defaults to store.collection)")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Match FIELD=VALUE (repeatable)")
	return cmd
}

func newStoreDistinctCommand(ctx *commandContext) *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "distinct FIELD",
		Short: "Print the distinct values of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openStore(cmd, ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			values, err := s.Distinct(cmd.Context(), collectionName(cfg, collection), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range values {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection name (defaults to store.collection)")
	return cmd
}
