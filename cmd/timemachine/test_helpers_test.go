package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"timemachine/internal/config"
	"timemachine/internal/testsupport"
)

const testDatabaseID = "5d0f9c2e-1a2b-4c3d-8e9f-0a1b2c3d4e5f"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	gedcomPath string
	notion     *fakeNotion
}

type fakeNotion struct {
	mu      sync.Mutex
	creates int
}

func (f *fakeNotion) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

func (f *fakeNotion) serve(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	database := map[string]any{
		"object": "database",
		"id":     testDatabaseID,
		"title":  []map[string]any{{"type": "text", "plain_text": "Family Tree"}},
		"properties": map[string]any{
			"Full Birth Name": map[string]any{"id": "title", "name": "Full Birth Name", "type": "title"},
			"Place of Birth":  map[string]any{"id": "PRs%3C", "name": "Place of Birth", "type": "rich_text"},
		},
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/search":
		writeTestJSON(w, map[string]any{"results": []any{database}, "has_more": false})
	case r.Method == http.MethodGet && r.URL.Path == "/databases/"+testDatabaseID:
		writeTestJSON(w, database)
	case r.Method == http.MethodPost && r.URL.Path == "/databases/"+testDatabaseID+"/query":
		writeTestJSON(w, map[string]any{
			"results": []any{map[string]any{
				"object": "page",
				"id":     "0f5c1e7a-3b2d-4c8e-9a10-1234567890ab",
				"properties": map[string]any{
					"Full Birth Name": map[string]any{"id": "title", "type": "title",
						"title": []map[string]any{{"plain_text": "Reginald Walker"}}},
				},
			}},
			"has_more": false,
		})
	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		f.mu.Lock()
		f.creates++
		f.mu.Unlock()
		writeTestJSON(w, map[string]any{"object": "page", "id": uuid.NewString()})
	default:
		w.WriteHeader(http.StatusNotFound)
		writeTestJSON(w, map[string]any{"object": "error", "status": 404, "code": "object_not_found", "message": "not found"})
	}
}

func writeTestJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NOTION_KEY", "")
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("NOTION_DATABASE_ID", "")
	t.Chdir(base)

	fake := &fakeNotion{}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithNotionServer(server.URL),
		testsupport.WithDatabase(testDatabaseID),
	)
	cfg.Logging.Level = "error"
	gedcomPath := testsupport.WriteGedcom(t, base, "family.ged", testsupport.FamilyGedcom()...)
	cfg.Gedcom.Path = gedcomPath

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, gedcomPath: gedcomPath, notion: fake}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
