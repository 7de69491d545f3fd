// Package seed fills the round history with generated demo rounds.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	entrypoint "github.com/louisbranch/mindvsmachine/internal/platform/cmd"
	"github.com/louisbranch/mindvsmachine/internal/platform/random"
	"github.com/louisbranch/mindvsmachine/internal/storage/backend"
)

// roundSpacing separates consecutive demo rounds in time.
const roundSpacing = time.Minute

// Config holds seed command configuration.
type Config struct {
	Storage     entrypoint.StorageConfig
	Log         entrypoint.LogConfig
	Count       int
	Algorithm   string
	Mode        string
	Min         int
	Max         int
	PredictRate float64
	Seed        int64
	Reset       bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Storage.RegisterFlags(fs)
	cfg.Log.RegisterFlags(fs)
	fs.IntVar(&cfg.Count, "count", 50, "number of rounds to generate")
	fs.StringVar(&cfg.Algorithm, "algorithm", string(rng.AlgorithmStandard), "random algorithm (standard, secrets, time_based)")
	fs.StringVar(&cfg.Mode, "mode", string(round.ModeExactMatch), "game mode (exact_match, range_prediction, high_low)")
	fs.IntVar(&cfg.Min, "min", rng.DefaultMin, "range minimum")
	fs.IntVar(&cfg.Max, "max", rng.DefaultMax, "range maximum")
	fs.Float64Var(&cfg.PredictRate, "predict-rate", 0.8, "fraction of rounds that carry a prediction")
	fs.Int64Var(&cfg.Seed, "seed", 0, "random seed for reproducibility (0 = random)")
	fs.BoolVar(&cfg.Reset, "reset", false, "replace the existing history instead of appending")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() (rng.Algorithm, round.Mode, error) {
	if c.Count <= 0 {
		return "", "", fmt.Errorf("count must be positive, got %d", c.Count)
	}
	if c.PredictRate < 0 || c.PredictRate > 1 {
		return "", "", fmt.Errorf("predict-rate must be between 0 and 1, got %v", c.PredictRate)
	}
	algorithm, err := rng.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return "", "", err
	}
	mode, err := round.ParseMode(c.Mode)
	if err != nil {
		return "", "", err
	}
	if err := rng.ValidateRange(c.Min, c.Max); err != nil {
		return "", "", err
	}
	return algorithm, mode, nil
}

// Run generates the demo rounds and writes them to the configured store.
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
	algorithm, mode, err := cfg.validate()
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger(errOut)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceSeed, entrypoint.RunOptions{Logger: &logger}, func(ctx context.Context) error {
		seed := cfg.Seed
		if seed == 0 {
			if seed, err = random.NewSeed(); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
		rounds, err := generate(cfg, algorithm, mode, seed, now(), logger)
		if err != nil {
			return err
		}

		store, err := backend.Open(cfg.Storage.StoreConfig())
		if err != nil {
			return fmt.Errorf("open round store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("close round store")
			}
		}()

		history := rounds
		if !cfg.Reset {
			existing, err := store.ListRounds(ctx)
			if err != nil {
				return fmt.Errorf("list rounds: %w", err)
			}
			history = append(existing, rounds...)
		}
		if err := store.ReplaceRounds(ctx, history); err != nil {
			return fmt.Errorf("write rounds: %w", err)
		}
		fmt.Fprintf(out, "Seeded %d %s rounds with %s (seed %d); history now has %d rounds.\n",
			len(rounds), mode, algorithm, seed, len(history))
		return nil
	})
}

// generate builds count rounds ending at end, oldest first.
func generate(cfg Config, algorithm rng.Algorithm, mode round.Mode, seed int64, end time.Time, logger zerolog.Logger) ([]round.Round, error) {
	start := end.Add(-time.Duration(cfg.Count-1) * roundSpacing)
	at := start
	engine, err := rng.NewEngine(algorithm,
		rng.WithSeed(seed),
		rng.WithLogger(logger),
		rng.WithClock(func() time.Time { return at }),
	)
	if err != nil {
		return nil, err
	}
	picks := rand.New(rand.NewSource(seed ^ 0x47))

	rounds := make([]round.Round, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		at = start.Add(time.Duration(i) * roundSpacing)
		var prediction *int
		if picks.Float64() < cfg.PredictRate {
			value, err := pickPrediction(picks, mode, cfg.Min, cfg.Max)
			if err != nil {
				return nil, err
			}
			prediction = &value
		}
		generated, err := engine.Generate(cfg.Min, cfg.Max)
		if err != nil {
			return nil, err
		}
		rnd, err := round.New(prediction, generated, mode, cfg.Min, cfg.Max, algorithm, at)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, rnd)
	}
	return rounds, nil
}

func pickPrediction(picks *rand.Rand, mode round.Mode, minVal, maxVal int) (int, error) {
	if mode == round.ModeHighLow {
		choice := round.ChoiceLow
		if picks.Intn(2) == 1 {
			choice = round.ChoiceHigh
		}
		return round.PredictionFromChoice(string(choice), minVal, maxVal)
	}
	return minVal + picks.Intn(maxVal-minVal+1), nil
}

// Main is the process entrypoint shared by cmd/seed.
func Main(args []string) int {
	cfg, err := ParseConfig(flag.NewFlagSet("seed", flag.ContinueOnError), args)
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
