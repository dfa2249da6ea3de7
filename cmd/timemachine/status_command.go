package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"timemachine/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories, the source file, and Notion access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var finder preflight.DatabaseFinder
			if cfg.RequireNotion() == nil {
				client, err := ctx.notionClient()
				if err != nil {
					return err
				}
				finder = client
			}
			results := preflight.RunAll(cmd.Context(), cfg, finder)
			if jsonOutput {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Status", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if failed, ok := preflight.FirstFailure(results); ok {
				return fmt.Errorf("%s check failed", failed.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
