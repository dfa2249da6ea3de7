package preflight

import (
	"context"

	"timemachine/internal/config"
	"timemachine/internal/notion"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// DatabaseFinder is the part of the Notion client the checks use.
type DatabaseFinder interface {
	FirstDatabase(ctx context.Context) (string, error)
	GetDatabase(ctx context.Context, id string) (notion.Database, error)
}

// RunAll executes every check. client may be nil when no API key is
// configured; the Notion check then reports the missing key.
func RunAll(ctx context.Context, cfg *config.Config, client DatabaseFinder) []Result {
	if cfg == nil {
		return nil
	}

	results := Filesystem(cfg)
	if cfg.Gedcom.Path != "" {
		results = append(results, CheckGedcom(cfg.Gedcom.Path))
	}
	results = append(results, CheckNotion(ctx, cfg, client))
	return results
}

// Filesystem checks the directories a run writes to.
func Filesystem(cfg *config.Config) []Result {
	return []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
}

// FirstFailure returns the first failed result.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}
