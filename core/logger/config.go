package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level that will be logged (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding: "json" for production, "console" for development.
	Format string `mapstructure:"format" default:"json"`
}
