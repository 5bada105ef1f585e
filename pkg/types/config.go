package types

import (
	"errors"
	"strings"
)

// DefaultDBPath is the storage file used when no path is configured.
const DefaultDBPath = "data/nexus.db"

// Log levels accepted by Config.LogLevel.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config holds the storage location and runtime options for nexus.
type Config struct {
	DBPath   string `json:"db_path" yaml:"db_path"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Config validation errors.
var (
	ErrDBPathEmpty     = errors.New("db path must not be empty")
	ErrDBPathIsDir     = errors.New("db path must name a file, not a directory")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

var knownLogLevels = map[string]bool{
	LogLevelDebug: true,
	LogLevelInfo:  true,
	LogLevelWarn:  true,
	LogLevelError: true,
}

// DefaultConfig returns a Config pointing at DefaultDBPath with info logging.
func DefaultConfig() Config {
	return Config{
		DBPath:   DefaultDBPath,
		LogLevel: LogLevelInfo,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty LogLevel is accepted and means info.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return ErrDBPathEmpty
	}
	if strings.HasSuffix(c.DBPath, "/") || strings.HasSuffix(c.DBPath, `\`) {
		return ErrDBPathIsDir
	}
	if c.LogLevel != "" && !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrLogLevelUnknown
	}
	return nil
}
