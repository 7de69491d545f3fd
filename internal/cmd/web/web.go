// Package web parses dashboard flags and launches the web service.
package web

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"

	entrypoint "github.com/louisbranch/mindvsmachine/internal/platform/cmd"
	"github.com/louisbranch/mindvsmachine/internal/platform/logging"
	"github.com/louisbranch/mindvsmachine/internal/platform/metrics"
	"github.com/louisbranch/mindvsmachine/internal/platform/otel"
	"github.com/louisbranch/mindvsmachine/internal/services/web"
	"github.com/louisbranch/mindvsmachine/internal/storage/backend"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Config holds the web command configuration.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:"localhost:8501"`
	SpecialNumber int    `env:"SPECIAL_NUMBER" envDefault:"47"`
	SpecialMinute int    `env:"SPECIAL_MINUTE" envDefault:"47"`
	Storage       entrypoint.StorageConfig
	Log           entrypoint.LogConfig
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	cfg.Storage.RegisterFlags(fs)
	cfg.Log.RegisterFlags(fs)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SpecialMinute < 0 || cfg.SpecialMinute > 59 {
		return Config{}, fmt.Errorf("special minute must be between 0 and 59, got %d", cfg.SpecialMinute)
	}
	return cfg, nil
}

// Run starts the dashboard and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return run(ctx, cfg, os.Stdout)
}

func run(ctx context.Context, cfg Config, logOut io.Writer) error {
	logger, err := cfg.Log.NewLogger(logOut)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWeb, entrypoint.RunOptions{
		Logger:  &logger,
		Version: Version,
		Attributes: []attribute.KeyValue{
			otel.StorageBackendKey.String(cfg.Storage.Backend),
			otel.SpecialNumberKey.Int(cfg.SpecialNumber),
			otel.SpecialMinuteKey.Int(cfg.SpecialMinute),
		},
	}, func(ctx context.Context) error {
		store, err := backend.Open(cfg.Storage.StoreConfig())
		if err != nil {
			return fmt.Errorf("open round store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("close round store")
			}
		}()

		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:      cfg.HTTPAddr,
			Store:         store,
			ExportDir:     backend.ExportDir(cfg.Storage.DataDir),
			Logger:        logging.Component(logger, "web"),
			Metrics:       metrics.New(),
			SpecialNumber: cfg.SpecialNumber,
			SpecialMinute: cfg.SpecialMinute,
			Version:       Version,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		logger.Info().
			Str("addr", server.Addr()).
			Str("storage", cfg.Storage.Backend).
			Str("data_dir", cfg.Storage.DataDir).
			Msg("serving dashboard")
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
