// Package export writes the stored round history to CSV from the command line.
package export

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/mindvsmachine/internal/platform/cmd"
	"github.com/louisbranch/mindvsmachine/internal/storage/backend"
	csvexport "github.com/louisbranch/mindvsmachine/internal/storage/export"
)

// Config holds export command configuration.
type Config struct {
	Storage entrypoint.StorageConfig
	Log     entrypoint.LogConfig
	// OutDir overrides the export directory; empty means <data-dir>/exports.
	OutDir string `env:"EXPORT_DIR"`
	// Stdout streams the CSV to stdout instead of writing a file.
	Stdout bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Storage.RegisterFlags(fs)
	cfg.Log.RegisterFlags(fs)
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "directory for the CSV file (default <data-dir>/exports)")
	fs.BoolVar(&cfg.Stdout, "stdout", false, "write CSV to stdout instead of a file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run exports the history and reports where it went on out.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	return run(ctx, cfg, out, errOut, time.Now)
}

func run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer, now func() time.Time) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger, err := cfg.Log.NewLogger(errOut)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceExport, entrypoint.RunOptions{Logger: &logger}, func(ctx context.Context) error {
		store, err := backend.Open(cfg.Storage.StoreConfig())
		if err != nil {
			return fmt.Errorf("open round store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("close round store")
			}
		}()

		rounds, err := store.ListRounds(ctx)
		if err != nil {
			return fmt.Errorf("list rounds: %w", err)
		}
		if cfg.Stdout {
			return csvexport.WriteCSV(out, rounds)
		}
		if len(rounds) == 0 {
			fmt.Fprintln(out, "No rounds to export.")
			return nil
		}

		dir := strings.TrimSpace(cfg.OutDir)
		if dir == "" {
			dir = backend.ExportDir(cfg.Storage.DataDir)
		}
		path, err := csvexport.ExportFile(dir, rounds, now())
		if err != nil {
			return err
		}
		logger.Debug().Str("path", path).Int("rounds", len(rounds)).Msg("history exported")
		fmt.Fprintf(out, "Exported %d rounds to %s\n", len(rounds), path)
		return nil
	})
}

// Main is the process entrypoint shared by cmd/export.
func Main(args []string) int {
	cfg, err := ParseConfig(flag.NewFlagSet("export", flag.ContinueOnError), args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := Run(context.Background(), cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
