package config

const (
	defaultDataDir            = "~/.local/share/encore"
	defaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	defaultUserAgent          = "encore/1.0 (+https://github.com/encore-notifier/encore)"
	defaultRateLimitMillis    = 1100
	defaultPageSize           = 25
	defaultMaxPages           = 40
	defaultReleaseWindowDays  = 30
	defaultDailyCheckLimit    = 50
	defaultRequestTimeout     = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:           defaultMusicBrainzBaseURL,
			UserAgent:         defaultUserAgent,
			RateLimitMillis:   defaultRateLimitMillis,
			PageSize:          defaultPageSize,
			MaxPages:          defaultMaxPages,
			ReleaseWindowDays: defaultReleaseWindowDays,
			DailyCheckLimit:   defaultDailyCheckLimit,
		},
		Ntfy: Ntfy{
			RequestTimeout: defaultRequestTimeout,
		},
		HealthCheck: HealthCheck{
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
