package config

const (
	defaultStashURL          = "http://localhost:9999"
	defaultStashTimeout      = 0
	defaultStateDir          = "~/.local/share/customid"
	defaultMatchingMode      = "prefix"
	defaultJournalEnabled    = true
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultWaitAttempts      = 20
	defaultWaitIntervalMS    = 500
	defaultWaitMaxIntervalMS = 5000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Stash: Stash{
			URL:            defaultStashURL,
			TimeoutSeconds: defaultStashTimeout,
		},
		Matching: Matching{
			Mode: defaultMatchingMode,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Wait: Wait{
			Attempts:      defaultWaitAttempts,
			IntervalMS:    defaultWaitIntervalMS,
			MaxIntervalMS: defaultWaitMaxIntervalMS,
		},
	}
}
