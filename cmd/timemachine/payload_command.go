package main

import (
	"github.com/spf13/cobra"

	"timemachine/internal/notion"
)

func newPayloadCommand(ctx *commandContext) *cobra.Command {
	var databaseID string

	cmd := &cobra.Command{
		Use:   "payload [file]",
		Short: "Print the Notion page payloads built from a GEDCOM file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			records, _, err := ctx.buildRecords(cmd.Context(), args)
			if err != nil {
				return err
			}
			if databaseID == "" {
				databaseID = cfg.Notion.DatabaseID
			}
			payloads := make([]notion.PageRequest, 0, len(records))
			for _, rec := range records {
				payloads = append(payloads, rec.Payload(databaseID))
			}
			return writeJSON(cmd, payloads)
		},
	}

	cmd.Flags().StringVar(&databaseID, "database", "", "Parent database id (defaults to notion.database_id)")
	return cmd
}
