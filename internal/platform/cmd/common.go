package cmd

import (
	"flag"
	"io"

	"github.com/rs/zerolog"

	"github.com/louisbranch/mindvsmachine/internal/platform/logging"
	"github.com/louisbranch/mindvsmachine/internal/storage/backend"
)

// StorageConfig selects where round history lives.
type StorageConfig struct {
	DataDir string `env:"DATA_DIR" envDefault:"data"`
	Backend string `env:"STORAGE" envDefault:"json"`
}

// RegisterFlags binds storage flags, defaulting to the env-derived values.
func (c *StorageConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory holding round history and exports")
	fs.StringVar(&c.Backend, "storage", c.Backend, "storage backend (json or sqlite)")
}

// StoreConfig returns the backend selection for backend.Open.
func (c StorageConfig) StoreConfig() backend.Config {
	return backend.Config{Backend: c.Backend, DataDir: c.DataDir}
}

// LogConfig controls command logging.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// RegisterFlags binds logging flags, defaulting to the env-derived values.
func (c *LogConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Level, "log-level", c.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Format, "log-format", c.Format, "log format (console or json)")
}

// NewLogger builds a logger writing to out.
func (c LogConfig) NewLogger(out io.Writer) (zerolog.Logger, error) {
	return logging.New(logging.Config{Level: c.Level, Format: c.Format, Output: out})
}
