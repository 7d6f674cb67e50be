package cleaning

// Config holds configuration for the calendar synchronization engine.
type Config struct {
	// FetchTimeoutSeconds bounds a single feed fetch.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"30"`
	// UserAgent is the identifying client signature sent to feed hosts.
	UserAgent string `mapstructure:"user_agent" default:"cleansync/1.0 (+calendar-sync)"`
	// IntervalMinutes is the cadence of the scheduled due-configuration pass.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"15"`
	// PacePerSecond limits how fast sequential batch items hit feed hosts.
	PacePerSecond float64 `mapstructure:"pace_per_second" default:"2"`
	// ArchiveFeeds stores raw feed bodies in object storage after each fetch.
	ArchiveFeeds bool `mapstructure:"archive_feeds" default:"false"`
}
