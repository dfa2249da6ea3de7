package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"timemachine/internal/config"
	"timemachine/internal/ledger"
	"timemachine/internal/notion"
	"timemachine/internal/publish"
	"timemachine/internal/services"
	"timemachine/internal/testsupport"
)

const testDatabaseID = "5d0f9c2e-1a2b-4c3d-8e9f-0a1b2c3d4e5f"

type fakeNotion struct {
	mu       sync.Mutex
	creates  int
	updates  int
	searches int
	bodies   map[string]string
	parents  []string
	failAll  bool
}

func newFakeNotion(t *testing.T) (*fakeNotion, *httptest.Server) {
	t.Helper()
	fake := &fakeNotion{bodies: map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakeNotion) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll && strings.HasPrefix(r.URL.Path, "/pages") {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"object": "error", "status": 400, "code": "validation_error", "message": "bad property",
		})
		return
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/search":
		f.searches++
		writeJSON(w, http.StatusOK, map[string]any{
			"results":  []map[string]any{{"object": "database", "id": testDatabaseID}},
			"has_more": false,
		})
	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		f.creates++
		var req notion.PageRequest
		_ = json.Unmarshal(raw, &req)
		if req.Parent != nil {
			f.parents = append(f.parents, req.Parent.DatabaseID)
		}
		id := uuid.NewString()
		f.bodies[id] = string(raw)
		writeJSON(w, http.StatusOK, map[string]any{"object": "page", "id": id})
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/pages/"):
		f.updates++
		id := strings.TrimPrefix(r.URL.Path, "/pages/")
		f.bodies[id] = string(raw)
		writeJSON(w, http.StatusOK, map[string]any{"object": "page", "id": id})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"object": "error", "status": 404, "code": "object_not_found"})
	}
}

func (f *fakeNotion) counts() (creates, updates, searches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates, f.searches
}

func (f *fakeNotion) body(pageID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[pageID]
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func newPublisher(t *testing.T, cfg *config.Config) (*publish.Publisher, *ledger.Store) {
	t.Helper()
	client, err := notion.NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("notion client: %v", err)
	}
	store := testsupport.MustOpenLedger(t, cfg)
	return publish.New(client, store, nil, nil), store
}

func TestRunCreatesThenUpdatesPages(t *testing.T) {
	fake, server := newFakeNotion(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNotionServer(server.URL))
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", testsupport.FamilyGedcom()...)
	pub, store := newPublisher(t, cfg)
	ctx := context.Background()

	first, err := pub.Run(ctx, publish.Options{SourcePath: source, DatabaseID: testDatabaseID, Concurrency: 2})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Built != 3 || first.Created != 3 || first.Failed != 0 || first.RunID == "" {
		t.Fatalf("unexpected first summary: %+v", first)
	}
	for _, rec := range first.Records {
		if rec.PageID == "" {
			t.Fatalf("record %s has no page id", rec.GedcomRef)
		}
	}

	second, err := pub.Run(ctx, publish.Options{
		SourcePath: source, DatabaseID: testDatabaseID, Mode: publish.ModeUpdate, Concurrency: 2,
	})
	if err != nil {
		t.Fatalf("update run: %v", err)
	}
	if second.Updated != 3 || second.Created != 0 {
		t.Fatalf("unexpected update summary: %+v", second)
	}
	if creates, updates, _ := fake.counts(); creates != 3 || updates != 3 {
		t.Fatalf("expected 3 creates and 3 updates, got %d and %d", creates, updates)
	}

	fatherPage, ok, err := store.PageID(ctx, testDatabaseID, "@I1@")
	if err != nil || !ok {
		t.Fatalf("father page missing: %v", err)
	}
	childPage, _, _ := store.PageID(ctx, testDatabaseID, "@I3@")
	if body := fake.body(childPage); !strings.Contains(body, fatherPage) {
		t.Fatalf("expected child update to link father %s, body %s", fatherPage, body)
	}

	runs, err := store.Runs(ctx, 0)
	if err != nil || len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d (%v)", len(runs), err)
	}
	if runs[0].Status != ledger.RunCompleted || runs[0].Totals.Updated != 3 {
		t.Fatalf("unexpected latest run: %+v", runs[0])
	}
}

func TestRunCreateModeAlwaysCreates(t *testing.T) {
	fake, server := newFakeNotion(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNotionServer(server.URL))
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", testsupport.FamilyGedcom()...)
	pub, _ := newPublisher(t, cfg)

	for range 2 {
		if _, err := pub.Run(context.Background(), publish.Options{SourcePath: source, DatabaseID: testDatabaseID}); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if creates, updates, _ := fake.counts(); creates != 6 || updates != 0 {
		t.Fatalf("expected 6 creates, got %d creates and %d updates", creates, updates)
	}
}

func TestRunSkipsInvalidRecords(t *testing.T) {
	fake, server := newFakeNotion(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNotionServer(server.URL))
	lines := append(testsupport.FamilyGedcom(), "0 @I4@ INDI", "1 NAME Pat /Doe/", "1 SEX X")
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", lines...)
	pub, store := newPublisher(t, cfg)

	summary, err := pub.Run(context.Background(), publish.Options{SourcePath: source, DatabaseID: testDatabaseID})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if creates, _, _ := fake.counts(); summary.Created != 3 || summary.Failed != 1 || creates != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if f := summary.Failures[0]; f.GedcomRef != "@I4@" || f.Stage != publish.StageBuild || !errors.Is(f, services.ErrValidation) {
		t.Fatalf("unexpected failure: %+v", f)
	}

	events, err := store.Events(context.Background(), summary.RunID)
	if err != nil {
		t.Fatal(err)
	}
	var rejected int
	for _, ev := range events {
		if ev.Action == ledger.ActionRejected && ev.GedcomRef == "@I4@" {
			rejected++
		}
	}
	if rejected != 1 {
		t.Fatalf("expected one rejected event, got %+v", events)
	}
}

func TestRunHaltsBeforePushingOnInvalidRecord(t *testing.T) {
	fake, server := newFakeNotion(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNotionServer(server.URL))
	lines := append(testsupport.FamilyGedcom(), "0 @I4@ INDI", "1 SEX X")
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", lines...)
	pub, store := newPublisher(t, cfg)

	summary, err := pub.Run(context.Background(), publish.Options{
		SourcePath: source, DatabaseID: testDatabaseID, OnError: publish.OnErrorHalt,
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if creates, _, _ := fake.counts(); creates != 0 || summary.Skipped != 3 {
		t.Fatalf("expected nothing pushed, got %d creates, summary %+v", creates, summary)
	}
	run, err := store.Run(context.Background(), summary.RunID)
	if err != nil || run.Status != ledger.RunHalted {
		t.Fatalf("expected halted run, got %+v (%v)", run, err)
	}
}

func TestRunHaltsAfterPushFailure(t *testing.T) {
	fake, server := newFakeNotion(t)
	fake.failAll = true
	cfg := testsupport.NewConfig(t, testsupport.WithNotionServer(server.URL))
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", testsupport.FamilyGedcom()...)
	pub, _ := newPublisher(t, cfg)

	summary, err := pub.Run(context.Background(), publish.Options{
		SourcePath: source, DatabaseID: testDatabaseID, OnError: publish.OnErrorHalt, Concurrency: 1,
	})
	if err == nil {
		t.Fatal("expected halt error")
	}
	if summary.Failed != 1 || summary.Skipped != 2 || summary.Created != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunDiscoversDatabaseWhenUnset(t *testing.T) {
	fake, server := newFakeNotion(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNotionServer(server.URL))
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", testsupport.FamilyGedcom()...)
	pub, _ := newPublisher(t, cfg)

	summary, err := pub.Run(context.Background(), publish.Options{SourcePath: source})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, _, searches := fake.counts(); searches != 1 || summary.DatabaseID != testDatabaseID {
		t.Fatalf("expected discovered database, got %q after %d searches", summary.DatabaseID, searches)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for _, parent := range fake.parents {
		if parent != testDatabaseID {
			t.Fatalf("page created under %q", parent)
		}
	}
}

func TestDryRunNeedsNoClient(t *testing.T) {
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", testsupport.FamilyGedcom()...)
	pub := publish.New(nil, nil, nil, nil)

	summary, err := pub.Run(context.Background(), publish.Options{SourcePath: source, DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if summary.Built != 3 || len(summary.Records) != 3 || summary.Created != 0 || summary.RunID != "" {
		t.Fatalf("unexpected dry-run summary: %+v", summary)
	}
}

func TestRunRequiresClientOutsideDryRun(t *testing.T) {
	source := testsupport.WriteGedcom(t, t.TempDir(), "family.ged", testsupport.FamilyGedcom()...)
	_, err := publish.New(nil, nil, nil, nil).Run(context.Background(), publish.Options{
		SourcePath: source, DatabaseID: testDatabaseID,
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := publish.New(nil, nil, nil, nil).Run(context.Background(), publish.Options{
		SourcePath: "/does/not/exist.ged", DryRun: true,
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
