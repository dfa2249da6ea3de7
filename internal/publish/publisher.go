package publish

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"timemachine/internal/gedcom"
	"timemachine/internal/ledger"
	"timemachine/internal/logging"
	"timemachine/internal/notion"
	"timemachine/internal/person"
	"timemachine/internal/schema"
	"timemachine/internal/services"
)

var _ person.Individual = (*gedcom.Individual)(nil)

// Client is the part of the Notion API a run needs.
type Client interface {
	FirstDatabase(ctx context.Context) (string, error)
	CreatePage(ctx context.Context, req notion.PageRequest) (notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, req notion.PageRequest) (notion.Page, error)
}

// Publisher runs pushes. Client may be nil for dry runs and ledger may be nil
// when no history should be kept.
type Publisher struct {
	client Client
	ledger *ledger.Store
	schema *schema.Schema
	logger *slog.Logger
}

// New constructs a publisher.
func New(client Client, store *ledger.Store, s *schema.Schema, logger *slog.Logger) *Publisher {
	if s == nil {
		s = schema.Default()
	}
	return &Publisher{
		client: client,
		ledger: store,
		schema: s,
		logger: logging.NewComponentLogger(logger, "publish"),
	}
}

// Build parses the file and builds records without touching Notion or the
// ledger. Relations resolve through resolver when it is non-nil.
func (p *Publisher) Build(path string, resolver person.Resolver) ([]person.Record, []Failure, error) {
	doc, err := gedcom.Open(path)
	if err != nil {
		return nil, nil, err
	}
	records, failures := p.build(doc, p.schema, resolver)
	return records, failures, nil
}

func (p *Publisher) build(doc *gedcom.Document, s *schema.Schema, resolver person.Resolver) ([]person.Record, []Failure) {
	individuals := doc.Individuals()
	source := make([]person.Individual, len(individuals))
	for i, ind := range individuals {
		source[i] = ind
	}
	records, buildFailures := person.NewBuilder(s, resolver).BuildAll(source)
	failures := make([]Failure, 0, len(buildFailures))
	for _, f := range buildFailures {
		failures = append(failures, Failure{GedcomRef: f.GedcomRef, Stage: StageBuild, Err: f.Err})
	}
	return records, failures
}

// Run executes one push. The returned error is non-nil when the run could not
// start, or when the halt policy stopped it; per-record failures under the
// skip policy are only reported in the summary.
func (p *Publisher) Run(ctx context.Context, opts Options) (Summary, error) {
	opts, err := opts.normalized()
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{DryRun: opts.DryRun}

	doc, err := gedcom.Open(opts.SourcePath)
	if err != nil {
		return summary, err
	}

	databaseID := opts.DatabaseID
	if databaseID == "" && !opts.DryRun {
		if p.client == nil {
			return summary, services.Wrap(services.ErrConfiguration, "publish", "resolve database", "no Notion client configured", nil)
		}
		databaseID, err = p.client.FirstDatabase(ctx)
		if err != nil {
			return summary, services.Wrap(services.ErrConfiguration, "publish", "resolve database",
				"no database_id configured and none could be discovered", err)
		}
		p.logger.Info("using first shared database", logging.DatabaseID(databaseID))
	}
	if !opts.DryRun && p.client == nil {
		return summary, services.Wrap(services.ErrConfiguration, "publish", "run", "no Notion client configured", nil)
	}
	summary.DatabaseID = databaseID

	resolver := ledger.NewResolver(databaseID, nil)
	if p.ledger != nil && databaseID != "" {
		if resolver, err = p.ledger.Resolver(ctx, databaseID); err != nil {
			return summary, err
		}
	}

	logger := p.logger
	if p.ledger != nil {
		run, err := p.ledger.StartRun(ctx, ledger.RunSpec{
			SourcePath: opts.SourcePath,
			DatabaseID: databaseID,
			Mode:       string(opts.Mode),
			DryRun:     opts.DryRun,
		})
		if err != nil {
			return summary, err
		}
		summary.RunID = run.ID
		logger = logging.TeeLogger(logger, ledger.NewWarningHandler(p.ledger, run.ID))
		ctx = services.WithRunID(ctx, run.ID)
	}
	logger = logging.WithRunID(logger, summary.RunID)

	runErr := p.execute(ctx, opts, doc, databaseID, resolver, logger, &summary)
	p.finish(ctx, summary, runErr, logger)
	return summary, runErr
}

func (p *Publisher) execute(
	ctx context.Context,
	opts Options,
	doc *gedcom.Document,
	databaseID string,
	resolver *ledger.Resolver,
	logger *slog.Logger,
	summary *Summary,
) error {
	records, failures := p.build(doc, p.schema.WithLogger(logger), resolver)
	summary.Built = len(records)
	for _, f := range failures {
		p.recordFailure(ctx, summary, f, logger)
	}
	if len(failures) > 0 && opts.OnError == OnErrorHalt {
		summary.Skipped = len(records)
		summary.Records = records
		return services.Wrap(services.ErrValidation, "publish", "build",
			"halting on first invalid record", failures[0])
	}

	if opts.DryRun {
		summary.Records = records
		logger.Info("dry run built records",
			logging.Int("built", summary.Built),
			logging.Int("failed", summary.Failed),
		)
		return nil
	}

	var (
		mu       sync.Mutex
		haltErr  error
		done     int
		finished = make([]person.Record, len(records))
		sampler  = logging.NewProgressSampler(10)
	)
	copy(finished, records)
	progress := func() {
		done++
		if pct, ok := sampler.Observe(done, len(records)); ok {
			logger.Info("push progress",
				logging.Int("done", done),
				logging.Int("total", len(records)),
				logging.Int("percent", int(pct)),
			)
		}
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)
	for i, rec := range records {
		if gctx.Err() != nil {
			mu.Lock()
			summary.Skipped += len(records) - i
			mu.Unlock()
			break
		}
		group.Go(func() error {
			if gctx.Err() != nil {
				mu.Lock()
				summary.Skipped++
				mu.Unlock()
				return nil
			}
			recCtx := services.WithGedcomRef(services.WithStage(gctx, string(StagePush)), rec.GedcomRef)
			pushed, action, err := p.push(recCtx, opts.Mode, databaseID, rec, resolver)

			mu.Lock()
			defer mu.Unlock()
			defer progress()
			if err != nil {
				if errors.Is(err, context.Canceled) && haltErr != nil {
					summary.Skipped++
					return nil
				}
				p.recordFailure(ctx, summary, Failure{GedcomRef: rec.GedcomRef, Stage: StagePush, Err: err}, logger)
				if opts.OnError == OnErrorHalt {
					if haltErr == nil {
						haltErr = err
					}
					return err
				}
				return nil
			}
			finished[i] = pushed
			switch action {
			case ledger.ActionUpdated:
				summary.Updated++
			default:
				summary.Created++
			}
			if p.ledger != nil {
				if err := p.ledger.RecordPage(ctx, summary.RunID, databaseID, rec.GedcomRef, pushed.PageID, action); err != nil {
					logging.WarnWithContext(logger, "failed to record page in ledger", "ledger_write_failed",
						logging.GedcomRef(rec.GedcomRef),
						logging.Error(err),
						logging.String(logging.FieldImpact, "a later update run will create this page again"),
					)
				}
			}
			logger.Debug("page written",
				logging.GedcomRef(rec.GedcomRef),
				logging.PageID(pushed.PageID),
				logging.String("action", string(action)),
			)
			return nil
		})
	}
	_ = group.Wait()
	summary.Records = finished

	if haltErr != nil {
		return services.Wrap(services.ErrExternal, "publish", "push", "halting after failed record", haltErr)
	}
	return ctx.Err()
}

func (p *Publisher) push(ctx context.Context, mode Mode, databaseID string, rec person.Record, resolver *ledger.Resolver) (person.Record, ledger.Action, error) {
	action := ledger.ActionCreated
	var (
		page notion.Page
		err  error
	)
	existing, known := resolver.PageID(rec.GedcomRef)
	if mode == ModeUpdate && known {
		action = ledger.ActionUpdated
		page, err = p.client.UpdatePage(ctx, existing, rec.UpdatePayload())
	} else {
		page, err = p.client.CreatePage(ctx, rec.Payload(databaseID))
	}
	if err != nil {
		return rec, action, err
	}
	pushed, err := rec.WithPageID(page.ID)
	if err != nil {
		return rec, action, err
	}
	resolver.Remember(rec.GedcomRef, page.ID)
	return pushed, action, nil
}

func (p *Publisher) recordFailure(ctx context.Context, summary *Summary, f Failure, logger *slog.Logger) {
	summary.Failed++
	summary.Failures = append(summary.Failures, f)
	logging.WarnWithContext(logger, "record failed", "record_failed",
		logging.GedcomRef(f.GedcomRef),
		logging.String(logging.FieldStage, string(f.Stage)),
		logging.String("outcome", string(services.FailureOutcome(f.Err))),
		logging.Error(f.Err),
		logging.String(logging.FieldErrorHint, failureHint(f)),
		logging.String(logging.FieldImpact, "record not written to Notion"),
	)
	if p.ledger == nil || summary.RunID == "" {
		return
	}
	if err := p.ledger.RecordFailure(context.WithoutCancel(ctx), summary.RunID, f.GedcomRef, f.Err); err != nil {
		p.logger.Debug("ledger failure write failed", logging.Error(err))
	}
}

func (p *Publisher) finish(ctx context.Context, summary Summary, runErr error, logger *slog.Logger) {
	status := ledger.RunCompleted
	message := ""
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		status = ledger.RunFailed
		message = "interrupted"
	default:
		status = ledger.RunHalted
		message = runErr.Error()
	}
	logger.Info("run finished",
		logging.String("status", string(status)),
		logging.DatabaseID(summary.DatabaseID),
		logging.Bool("dry_run", summary.DryRun),
		logging.Int("built", summary.Built),
		logging.Int("created", summary.Created),
		logging.Int("updated", summary.Updated),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	if p.ledger == nil || summary.RunID == "" {
		return
	}
	totals := ledger.Totals{
		Built:   summary.Built,
		Created: summary.Created,
		Updated: summary.Updated,
		Skipped: summary.Skipped,
		Failed:  summary.Failed,
	}
	if err := p.ledger.FinishRun(context.WithoutCancel(ctx), summary.RunID, status, totals, message); err != nil {
		logging.ErrorWithContext(logger, "failed to finish run in ledger", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the run stays marked running in history; check the state directory"),
		)
	}
}

func failureHint(f Failure) string {
	switch {
	case f.Stage == StageBuild:
		return "fix the record in the GEDCOM file and push again"
	case errors.Is(f.Err, services.ErrConfiguration):
		return "check the Notion API key and that the database is shared with the integration"
	case errors.Is(f.Err, services.ErrValidation):
		return "check property_ids against the database schema"
	default:
		return "retry the push later"
	}
}
