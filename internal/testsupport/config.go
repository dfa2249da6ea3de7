package testsupport

import (
	"path/filepath"
	"testing"

	"timemachine/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Retries are fast so failure paths do not slow the suite down.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notion.APIKey = "secret_test"
	cfgVal.Notion.InitialBackoffMS = 1
	cfgVal.Notion.MaxBackoffMS = 5
	cfgVal.Notion.MaxRetries = 2
	cfgVal.Notion.RequestsPerSecond = 1000

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithNotionServer points the Notion client at a test server.
func WithNotionServer(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notion.BaseURL = baseURL
	}
}

// WithDatabase sets the target database id.
func WithDatabase(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notion.DatabaseID = id
	}
}

// WithoutAPIKey clears the Notion credentials.
func WithoutAPIKey() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notion.APIKey = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
