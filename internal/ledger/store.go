package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"timemachine/internal/services"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "ledger", "open", "ledger path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a new run in the running state.
func (s *Store) StartRun(ctx context.Context, spec RunSpec) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		SourcePath: spec.SourcePath,
		DatabaseID: spec.DatabaseID,
		Mode:       spec.Mode,
		DryRun:     spec.DryRun,
		Status:     RunRunning,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_path, database_id, mode, dry_run, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, nullString(run.DatabaseID), run.Mode, boolToInt(run.DryRun),
		run.Status, run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the final status and totals of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, totals Totals, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, built = ?, created = ?, updated = ?,
             skipped = ?, failed = ?, error_message = ?
         WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano),
		totals.Built, totals.Created, totals.Updated, totals.Skipped, totals.Failed,
		nullString(message), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.Wrap(services.ErrNotFound, "ledger", "finish run", "unknown run "+runID, nil)
	}
	return nil
}

// RecordPage remembers the page written for gedcomRef and logs the action.
func (s *Store) RecordPage(ctx context.Context, runID, databaseID, gedcomRef, pageID string, action Action) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pages (database_id, gedcom_ref, page_id, run_id, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(database_id, gedcom_ref) DO UPDATE SET
             page_id = excluded.page_id, run_id = excluded.run_id, updated_at = excluded.updated_at`,
		databaseID, gedcomRef, pageID, runID, now,
	); err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	if err := insertEvent(ctx, tx, runID, gedcomRef, action, pageID, "", now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit page: %w", err)
	}
	return nil
}

// RecordFailure logs a per-record failure. Validation problems are stored as
// rejected, everything else as failed.
func (s *Store) RecordFailure(ctx context.Context, runID, gedcomRef string, cause error) error {
	action := ActionFailed
	if services.FailureOutcome(cause) == services.OutcomeRejected {
		action = ActionRejected
	}
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return insertEvent(ctx, s.db, runID, gedcomRef, action, "", message, now)
}

// RecordWarning logs a non-fatal notice for a record.
func (s *Store) RecordWarning(ctx context.Context, runID, gedcomRef, message string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return insertEvent(ctx, s.db, runID, gedcomRef, ActionWarning, "", message, now)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEvent(ctx context.Context, db execer, runID, gedcomRef string, action Action, pageID, message, at string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO events (run_id, gedcom_ref, action, page_id, message, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, nullString(gedcomRef), action, nullString(pageID), nullString(message), at,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// PageID returns the page last written for xref in databaseID.
func (s *Store) PageID(ctx context.Context, databaseID, xref string) (string, bool, error) {
	var pageID string
	err := s.db.QueryRowContext(ctx,
		"SELECT page_id FROM pages WHERE database_id = ? AND gedcom_ref = ?",
		databaseID, xref,
	).Scan(&pageID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup page: %w", err)
	}
	return pageID, true, nil
}

// Pages returns every recorded page of databaseID keyed by GEDCOM reference.
func (s *Store) Pages(ctx context.Context, databaseID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT gedcom_ref, page_id FROM pages WHERE database_id = ?", databaseID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	pages := make(map[string]string)
	for rows.Next() {
		var ref, pageID string
		if err := rows.Scan(&ref, &pageID); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages[ref] = pageID
	}
	return pages, rows.Err()
}

const runColumns = `id, source_path, database_id, mode, dry_run, status, started_at, finished_at,
    built, created, updated, skipped, failed, error_message`

// Runs lists the most recent runs first. A non-positive limit returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run fetches a run by id or by an unambiguous id prefix.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, services.Wrap(services.ErrValidation, "ledger", "get run", "run id is empty", nil)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2",
		id, stripWildcards(id)+"%")
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if run.ID == id {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(matches) {
	case 0:
		return Run{}, services.Wrap(services.ErrNotFound, "ledger", "get run", "no run matches "+id, nil)
	case 1:
		return matches[0], nil
	default:
		return Run{}, services.Wrap(services.ErrValidation, "ledger", "get run", "run id prefix "+id+" is ambiguous", nil)
	}
}

// Events lists the events of a run in insertion order.
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, gedcom_ref, action, page_id, message, created_at
         FROM events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev                     Event
			ref, pageID, message   sql.NullString
			action, createdAtValue string
		)
		if err := rows.Scan(&ev.ID, &ev.RunID, &ref, &action, &pageID, &message, &createdAtValue); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.GedcomRef = ref.String
		ev.Action = Action(action)
		ev.PageID = pageID.String
		ev.Message = message.String
		ev.CreatedAt = parseTime(createdAtValue)
		events = append(events, ev)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                     Run
		databaseID, finished    sql.NullString
		errorMessage            sql.NullString
		dryRun                  int
		status, startedAtString string
	)
	if err := row.Scan(
		&run.ID, &run.SourcePath, &databaseID, &run.Mode, &dryRun, &status, &startedAtString, &finished,
		&run.Totals.Built, &run.Totals.Created, &run.Totals.Updated, &run.Totals.Skipped, &run.Totals.Failed,
		&errorMessage,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.DatabaseID = databaseID.String
	run.DryRun = dryRun != 0
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(startedAtString)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	run.ErrorMessage = errorMessage.String
	return run, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func stripWildcards(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}
