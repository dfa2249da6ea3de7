package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timemachine/internal/config"
)

// PruneDailyLogs removes the daily log files in dir whose date, read from the
// file name, is more than retentionDays before now. Today's file is never
// removed and files named any other way are left alone. A retentionDays of
// zero or less disables pruning. It returns the number of files removed.
func PruneDailyLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -retentionDays)

	removed := 0
	for _, entry := range entries {
		day, ok := logFileDay(entry, now.Location())
		if !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old log file could not be removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on log_dir"),
				String(FieldImpact, "the file stays on disk until removed by hand"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}

func logFileDay(entry os.DirEntry, loc *time.Location) (time.Time, bool) {
	if entry.IsDir() {
		return time.Time{}, false
	}
	stamp, ok := strings.CutPrefix(entry.Name(), config.LogFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, ".log")
	if !ok {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(config.LogFileDateLayout, stamp, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
