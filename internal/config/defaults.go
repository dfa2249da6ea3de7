package config

const (
	defaultStateDirFallback        = "~/.local/state/timemachine"
	defaultLogDir                  = "~/.local/state/timemachine/logs"
	defaultNotionBaseURL           = "https://api.notion.com/v1"
	defaultNotionVersion           = "2022-06-28"
	defaultNotionTimeoutSeconds    = 15
	defaultNotionMaxRetries        = 5
	defaultNotionInitialBackoffMS  = 1000
	defaultNotionMaxBackoffMS      = 30000
	defaultNotionRequestsPerSecond = 3.0
	defaultNotionConcurrency       = 2
	defaultPublishMode             = "create"
	defaultPublishOnError          = "skip"
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultLogRetentionDays        = 30
	maxNotionRetries               = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
			LogDir:   defaultLogDir,
		},
		Notion: Notion{
			BaseURL:           defaultNotionBaseURL,
			Version:           defaultNotionVersion,
			TimeoutSeconds:    defaultNotionTimeoutSeconds,
			MaxRetries:        defaultNotionMaxRetries,
			InitialBackoffMS:  defaultNotionInitialBackoffMS,
			MaxBackoffMS:      defaultNotionMaxBackoffMS,
			RequestsPerSecond: defaultNotionRequestsPerSecond,
			Concurrency:       defaultNotionConcurrency,
		},
		Publish: Publish{
			Mode:    defaultPublishMode,
			OnError: defaultPublishOnError,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
