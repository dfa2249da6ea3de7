package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// notionKeyEnv lists the environment variables consulted for the Notion
// integration token, in priority order.
var notionKeyEnv = []string{"NOTION_KEY", "NOTION_API_KEY"}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeGedcom(); err != nil {
		return err
	}
	if err := c.normalizeNotion(); err != nil {
		return err
	}
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGedcom() error {
	c.Gedcom.Path = strings.TrimSpace(c.Gedcom.Path)
	if c.Gedcom.Path == "" {
		return nil
	}
	var err error
	if c.Gedcom.Path, err = expandPath(c.Gedcom.Path); err != nil {
		return fmt.Errorf("gedcom.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotion() error {
	c.Notion.APIKey = strings.TrimSpace(c.Notion.APIKey)
	if c.Notion.APIKey == "" {
		for _, name := range notionKeyEnv {
			if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
				c.Notion.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	if c.Notion.APIKey == "" {
		dotenv, err := readDotEnv(".env")
		if err != nil {
			return err
		}
		for _, name := range notionKeyEnv {
			if value := strings.TrimSpace(dotenv[name]); value != "" {
				c.Notion.APIKey = value
				break
			}
		}
	}
	c.Notion.BaseURL = strings.TrimRight(strings.TrimSpace(c.Notion.BaseURL), "/")
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = defaultNotionBaseURL
	}
	c.Notion.Version = strings.TrimSpace(c.Notion.Version)
	if c.Notion.Version == "" {
		c.Notion.Version = defaultNotionVersion
	}
	c.Notion.DatabaseID = strings.TrimSpace(c.Notion.DatabaseID)
	if c.Notion.DatabaseID == "" {
		if value, ok := os.LookupEnv("NOTION_DATABASE_ID"); ok {
			c.Notion.DatabaseID = strings.TrimSpace(value)
		}
	}
	if c.Notion.TimeoutSeconds <= 0 {
		c.Notion.TimeoutSeconds = defaultNotionTimeoutSeconds
	}
	if c.Notion.InitialBackoffMS <= 0 {
		c.Notion.InitialBackoffMS = defaultNotionInitialBackoffMS
	}
	if c.Notion.MaxBackoffMS <= 0 {
		c.Notion.MaxBackoffMS = defaultNotionMaxBackoffMS
	}
	if c.Notion.RequestsPerSecond <= 0 {
		c.Notion.RequestsPerSecond = defaultNotionRequestsPerSecond
	}
	if c.Notion.Concurrency <= 0 {
		c.Notion.Concurrency = defaultNotionConcurrency
	}
	if len(c.Notion.PropertyIDs) > 0 {
		ids := make(map[string]string, len(c.Notion.PropertyIDs))
		for field, id := range c.Notion.PropertyIDs {
			field = strings.TrimSpace(field)
			id = strings.TrimSpace(id)
			if field == "" || id == "" {
				continue
			}
			ids[field] = id
		}
		c.Notion.PropertyIDs = ids
	}
	return nil
}

func (c *Config) normalizePublish() {
	c.Publish.Mode = strings.ToLower(strings.TrimSpace(c.Publish.Mode))
	if c.Publish.Mode == "" {
		c.Publish.Mode = defaultPublishMode
	}
	c.Publish.OnError = strings.ToLower(strings.TrimSpace(c.Publish.OnError))
	if c.Publish.OnError == "" {
		c.Publish.OnError = defaultPublishOnError
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}
