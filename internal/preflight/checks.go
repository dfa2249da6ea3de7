package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"timemachine/internal/config"
	"timemachine/internal/gedcom"
	"timemachine/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckGedcom parses the source file and reports how many individuals it holds.
func CheckGedcom(path string) Result {
	const name = "GEDCOM file"

	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	doc, err := gedcom.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%d individuals, %d families)", path, len(doc.Individuals()), len(doc.Families())),
	}
}

// CheckNotion verifies the API key and that the target database is reachable.
// It uses a 15-second timeout.
func CheckNotion(ctx context.Context, cfg *config.Config, client DatabaseFinder) Result {
	const name = "Notion"

	if strings.TrimSpace(cfg.Notion.APIKey) == "" || client == nil {
		return Result{Name: name, Detail: "API key missing (set NOTION_KEY)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if id := cfg.Notion.DatabaseID; id != "" {
		db, err := client.GetDatabase(checkCtx, id)
		if err != nil {
			return Result{Name: name, Detail: summarizeNotionError(err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("database %q reachable", db.Name())}
	}
	id, err := client.FirstDatabase(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeNotionError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("no database_id set; would use %s", id)}
}

// summarizeNotionError produces a human-readable summary for failed Notion checks.
func summarizeNotionError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "check timed out (Notion API unresponsive)"
	case errors.Is(err, services.ErrConfiguration):
		return "auth failed (invalid API key or database not shared with the integration)"
	case errors.Is(err, services.ErrNotFound):
		return "database not found or not shared with the integration"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (Notion API unreachable)"
	}
	return err.Error()
}
