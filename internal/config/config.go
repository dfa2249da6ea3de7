package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Gedcom contains configuration for the source GEDCOM file.
type Gedcom struct {
	Path string `toml:"path"`
}

// Notion contains configuration for the Notion API integration.
type Notion struct {
	APIKey            string            `toml:"api_key"`
	BaseURL           string            `toml:"base_url"`
	Version           string            `toml:"version"`
	DatabaseID        string            `toml:"database_id"`
	TimeoutSeconds    int               `toml:"timeout_seconds"`
	MaxRetries        int               `toml:"max_retries"`
	InitialBackoffMS  int               `toml:"initial_backoff_ms"`
	MaxBackoffMS      int               `toml:"max_backoff_ms"`
	RequestsPerSecond float64           `toml:"requests_per_second"`
	Concurrency       int               `toml:"concurrency"`
	PropertyIDs       map[string]string `toml:"property_ids"`
}

// Publish contains defaults for the push command.
type Publish struct {
	// Mode is "create" (always create pages) or "update" (update pages whose
	// id is recorded in the ledger).
	Mode string `toml:"mode"`
	// OnError is "skip" (continue with the next record) or "halt".
	OnError string `toml:"on_error"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for timemachine.
//
// Configuration sections by subsystem:
//   - Paths: ledger/state and log directories
//   - Gedcom: default source file
//   - Notion: API credentials, target database, retry and pacing policy
//   - Publish: push mode and per-record error policy
//   - Logging: log format, level, and retention
type Config struct {
	Paths   Paths   `toml:"paths"`
	Gedcom  Gedcom  `toml:"gedcom"`
	Notion  Notion  `toml:"notion"`
	Publish Publish `toml:"publish"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/timemachine/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("timemachine.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the location of the run-history database.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// LockPath returns the location of the lock file held during pushes.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "push.lock")
}

// Daily log files are named LogFilePrefix + date + ".log", with the date in
// LogFileDateLayout.
const (
	LogFilePrefix     = "timemachine-"
	LogFileDateLayout = "20060102"
)

// LogPath returns today's log file. One file is kept per day so retention
// can prune whole days.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, LogFilePrefix+time.Now().Format(LogFileDateLayout)+".log")
}

// RequireNotion reports whether the Notion credentials needed by network
// commands are present.
func (c *Config) RequireNotion() error {
	if strings.TrimSpace(c.Notion.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/timemachine/config.toml"
	}
	return fmt.Errorf("notion.api_key is required. Set NOTION_KEY env var or edit %s (create with 'timemachine config init')", defaultPath)
}

// NotionTimeout returns the per-request deadline.
func (c *Config) NotionTimeout() time.Duration {
	return time.Duration(c.Notion.TimeoutSeconds) * time.Second
}

// NotionBackoff returns the initial and maximum retry backoff.
func (c *Config) NotionBackoff() (time.Duration, time.Duration) {
	return time.Duration(c.Notion.InitialBackoffMS) * time.Millisecond,
		time.Duration(c.Notion.MaxBackoffMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "timemachine")
	}
	return defaultStateDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
