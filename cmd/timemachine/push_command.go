package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"timemachine/internal/ledger"
	"timemachine/internal/notion"
	"timemachine/internal/preflight"
	"timemachine/internal/publish"
)

func newPushCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun      bool
		update      bool
		onError     string
		databaseID  string
		concurrency int
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Publish every person in a GEDCOM file to Notion",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			source, err := ctx.sourcePath(args)
			if err != nil {
				return err
			}
			s, err := ctx.schema()
			if err != nil {
				return err
			}

			opts := publish.Options{
				SourcePath:  source,
				DatabaseID:  cfg.Notion.DatabaseID,
				Mode:        publish.Mode(cfg.Publish.Mode),
				DryRun:      dryRun,
				OnError:     publish.ErrorPolicy(cfg.Publish.OnError),
				Concurrency: cfg.Notion.Concurrency,
			}
			if databaseID != "" {
				opts.DatabaseID = databaseID
			}
			if update {
				opts.Mode = publish.ModeUpdate
			}
			if onError != "" {
				opts.OnError = publish.ErrorPolicy(onError)
			}
			if concurrency > 0 {
				opts.Concurrency = concurrency
			}

			var client publish.Client
			if !dryRun {
				c, err := notion.NewFromConfig(cfg, logger)
				if err != nil {
					return err
				}
				client = c
			}

			if failed, ok := preflight.FirstFailure(preflight.Filesystem(cfg)); ok {
				return fmt.Errorf("%s: %s", failed.Name, failed.Detail)
			}

			lock, err := ledger.AcquirePushLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			var summary publish.Summary
			runErr := ctx.withLedger(func(store *ledger.Store) error {
				var err error
				summary, err = publish.New(client, store, s, logger).Run(cmd.Context(), opts)
				return err
			})
			if summary.RunID == "" && runErr != nil {
				return runErr
			}

			if jsonOutput {
				if err := writeJSON(cmd, pushSummaryJSON(summary)); err != nil {
					return err
				}
			} else {
				printPushSummary(cmd, summary)
			}
			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d record(s) failed; see 'timemachine history %s'", summary.Failed, shortID(summary.RunID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build payloads without calling Notion")
	cmd.Flags().BoolVar(&update, "update", false, "Update pages recorded by earlier runs instead of creating duplicates")
	cmd.Flags().StringVar(&onError, "on-error", "", "Per-record error policy: skip or halt (defaults to publish.on_error)")
	cmd.Flags().StringVar(&databaseID, "database", "", "Target database id (defaults to notion.database_id)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent page writes (defaults to notion.concurrency)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}

type pushSummaryOutput struct {
	RunID      string           `json:"run_id,omitempty"`
	DatabaseID string           `json:"database_id,omitempty"`
	DryRun     bool             `json:"dry_run"`
	Built      int              `json:"built"`
	Created    int              `json:"created"`
	Updated    int              `json:"updated"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Failures   []inspectFailure `json:"failures,omitempty"`
}

func pushSummaryJSON(s publish.Summary) pushSummaryOutput {
	return pushSummaryOutput{
		RunID:      s.RunID,
		DatabaseID: s.DatabaseID,
		DryRun:     s.DryRun,
		Built:      s.Built,
		Created:    s.Created,
		Updated:    s.Updated,
		Skipped:    s.Skipped,
		Failed:     s.Failed,
		Failures:   inspectFailures(s.Failures),
	}
}

func printPushSummary(cmd *cobra.Command, s publish.Summary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	title := "Push summary"
	if s.DryRun {
		title = "Dry run summary"
	}
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	if s.RunID != "" {
		fmt.Fprintln(out, renderStatusLine("Run", statusInfo, shortID(s.RunID), colorize))
	}
	if s.DatabaseID != "" {
		fmt.Fprintln(out, renderStatusLine("Database", statusInfo, s.DatabaseID, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Built", statusInfo, strconv.Itoa(s.Built), colorize))
	if !s.DryRun {
		fmt.Fprintln(out, renderStatusLine("Created", statusOK, strconv.Itoa(s.Created), colorize))
		fmt.Fprintln(out, renderStatusLine("Updated", statusOK, strconv.Itoa(s.Updated), colorize))
	}
	skipKind := statusInfo
	if s.Skipped > 0 {
		skipKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Skipped", skipKind, strconv.Itoa(s.Skipped), colorize))
	failKind := statusOK
	if s.Failed > 0 {
		failKind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Failed", failKind, strconv.Itoa(s.Failed), colorize))
	for _, f := range s.Failures {
		fmt.Fprintf(out, "    - %s (%s): %v\n", f.GedcomRef, f.Stage, f.Err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
