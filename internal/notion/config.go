package notion

import (
	"log/slog"

	"timemachine/internal/config"
)

// NewFromConfig builds a client from the [notion] section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.RequireNotion(); err != nil {
		return nil, err
	}
	initial, maxBackoff := cfg.NotionBackoff()
	return New(Config{
		APIKey:            cfg.Notion.APIKey,
		BaseURL:           cfg.Notion.BaseURL,
		Version:           cfg.Notion.Version,
		Timeout:           cfg.NotionTimeout(),
		MaxRetries:        cfg.Notion.MaxRetries,
		InitialBackoff:    initial,
		MaxBackoff:        maxBackoff,
		RequestsPerSecond: cfg.Notion.RequestsPerSecond,
		Logger:            logger,
	})
}
