package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNotion(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateNotion() error {
	parsed, err := url.Parse(c.Notion.BaseURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("notion.base_url must be an absolute http(s) URL, got %q", c.Notion.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"notion.timeout_seconds":    c.Notion.TimeoutSeconds,
		"notion.initial_backoff_ms": c.Notion.InitialBackoffMS,
		"notion.max_backoff_ms":     c.Notion.MaxBackoffMS,
		"notion.concurrency":        c.Notion.Concurrency,
	}); err != nil {
		return err
	}
	if c.Notion.MaxRetries < 0 || c.Notion.MaxRetries > maxNotionRetries {
		return fmt.Errorf("notion.max_retries must be between 0 and %d", maxNotionRetries)
	}
	if c.Notion.MaxBackoffMS < c.Notion.InitialBackoffMS {
		return errors.New("notion.max_backoff_ms must be greater than or equal to notion.initial_backoff_ms")
	}
	if c.Notion.RequestsPerSecond <= 0 {
		return errors.New("notion.requests_per_second must be positive")
	}
	return nil
}

func (c *Config) validatePublish() error {
	switch c.Publish.Mode {
	case "create", "update":
	default:
		return fmt.Errorf("publish.mode must be \"create\" or \"update\", got %q", c.Publish.Mode)
	}
	switch c.Publish.OnError {
	case "skip", "halt":
	default:
		return fmt.Errorf("publish.on_error must be \"skip\" or \"halt\", got %q", c.Publish.OnError)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
