package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPruneDailyLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, time.May, 20, 15, 0, 0, 0, time.Local)
	files := map[string]bool{
		"timemachine-20240520.log": false, // today
		"timemachine-20240420.log": false, // exactly at the cutoff
		"timemachine-20240419.log": true,
		"timemachine-20230101.log": true,
		"timemachine-latest.log":   false,
		"notes-20200101.log":       false,
	}
	past := now.AddDate(-1, 0, 0)
	for name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		// modification time plays no part
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "timemachine-20000101.log"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if got := PruneDailyLogs(NewNop(), dir, 30, now); got != 2 {
		t.Fatalf("expected 2 removals, got %d", got)
	}
	for name, gone := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if gone && !os.IsNotExist(err) {
			t.Errorf("expected %s removed, stat err=%v", name, err)
		}
		if !gone && err != nil {
			t.Errorf("expected %s to remain: %v", name, err)
		}
	}
}

func TestPruneDailyLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "timemachine-19990101.log"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := PruneDailyLogs(nil, dir, 0, time.Now()); got != 0 {
		t.Fatalf("expected no removals, got %d", got)
	}
	if got := PruneDailyLogs(nil, "", 30, time.Now()); got != 0 {
		t.Fatalf("expected no removals without a directory, got %d", got)
	}
}
