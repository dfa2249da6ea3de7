package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"timemachine/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past push runs, or the events of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				if len(args) == 1 {
					return showRun(cmd, store, args[0], jsonOutput)
				}
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					mode := run.Mode
					if run.DryRun {
						mode += " (dry)"
					}
					rows = append(rows, []string{
						shortID(run.ID),
						formatTime(run.StartedAt),
						colorText(runStatusKind(string(run.Status)), string(run.Status), colorize),
						mode,
						filepath.Base(run.SourcePath),
						strconv.Itoa(run.Totals.Built),
						strconv.Itoa(run.Totals.Created),
						strconv.Itoa(run.Totals.Updated),
						strconv.Itoa(run.Totals.Failed),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Status", "Mode", "Source", "Built", "Created", "Updated", "Failed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func showRun(cmd *cobra.Command, store *ledger.Store, id string, jsonOutput bool) error {
	run, err := store.Run(cmd.Context(), id)
	if err != nil {
		return err
	}
	events, err := store.Events(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd, map[string]any{"run": run, "events": events})
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(string(run.Status)), string(run.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Source", statusInfo, run.SourcePath, colorize))
	if run.DatabaseID != "" {
		fmt.Fprintln(out, renderStatusLine("Database", statusInfo, run.DatabaseID, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, run.Mode, colorize))
	fmt.Fprintln(out, renderStatusLine("Dry run", statusInfo, yesNo(run.DryRun), colorize))
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, formatTime(run.StartedAt), colorize))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintln(out, renderStatusLine("Finished", statusInfo, formatTime(run.FinishedAt), colorize))
	}
	if run.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "No events recorded")
		return nil
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		detail := ev.PageID
		if ev.Message != "" {
			detail = ev.Message
		}
		rows = append(rows, []string{
			ev.GedcomRef,
			colorText(runStatusKind(string(ev.Action)), string(ev.Action), colorize),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Ref", "Action", "Detail"}, rows, nil))
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
