package seed

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	"github.com/louisbranch/mindvsmachine/internal/storage/backend"
)

var seedEnd = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Count != 50 || cfg.Algorithm != "standard" || cfg.Mode != "exact_match" {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Min != 0 || cfg.Max != 99 || cfg.PredictRate != 0.8 {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	t.Parallel()

	base := Config{Count: 5, Algorithm: "standard", Mode: "exact_match", Min: 0, Max: 99, PredictRate: 0.5}
	tests := map[string]func(*Config){
		"count":     func(c *Config) { c.Count = 0 },
		"rate":      func(c *Config) { c.PredictRate = 1.5 },
		"algorithm": func(c *Config) { c.Algorithm = "dice" },
		"mode":      func(c *Config) { c.Mode = "roulette" },
		"range":     func(c *Config) { c.Min, c.Max = 10, 10 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			mutate(&cfg)
			if _, _, err := cfg.validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	t.Parallel()

	cfg := Config{Count: 20, Min: 1, Max: 6, PredictRate: 0.5}
	first, err := generate(cfg, rng.AlgorithmStandard, round.ModeExactMatch, 99, seedEnd, zerolog.Nop())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := generate(cfg, rng.AlgorithmStandard, round.ModeExactMatch, 99, seedEnd, zerolog.Nop())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	ignoreIDs := cmp.FilterPath(func(p cmp.Path) bool { return p.Last().String() == ".ID" }, cmp.Ignore())
	if diff := cmp.Diff(first, second, ignoreIDs); diff != "" {
		t.Fatalf("same seed produced different rounds (-first +second):\n%s", diff)
	}
	for i, r := range first {
		if r.Generated < 1 || r.Generated > 6 {
			t.Fatalf("round %d generated %d out of range", i, r.Generated)
		}
	}
	if !first[len(first)-1].Timestamp.Equal(seedEnd) {
		t.Fatalf("last timestamp = %v, want %v", first[len(first)-1].Timestamp, seedEnd)
	}
	if !first[0].Timestamp.Equal(seedEnd.Add(-19 * time.Minute)) {
		t.Fatalf("first timestamp = %v", first[0].Timestamp)
	}
}

func TestGenerateHighLowUsesBounds(t *testing.T) {
	t.Parallel()

	cfg := Config{Count: 30, Min: 10, Max: 20, PredictRate: 1}
	rounds, err := generate(cfg, rng.AlgorithmSecrets, round.ModeHighLow, 5, seedEnd, zerolog.Nop())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, r := range rounds {
		if r.Prediction == nil {
			t.Fatal("expected every round to carry a prediction")
		}
		if *r.Prediction != 10 && *r.Prediction != 20 {
			t.Fatalf("high/low prediction = %d", *r.Prediction)
		}
	}
}

func TestRunAppendsThenResets(t *testing.T) {
	t.Setenv("MVM_OTEL_ENDPOINT", "")

	dataDir := t.TempDir()
	cfg := Config{Count: 4, Algorithm: "time_based", Mode: "range_prediction", Min: 0, Max: 99, PredictRate: 1, Seed: 3}
	cfg.Storage.DataDir = dataDir
	cfg.Storage.Backend = "json"
	cfg.Log.Format = "json"
	now := func() time.Time { return seedEnd }

	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out, nil, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := run(context.Background(), cfg, &out, nil, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "history now has 8 rounds") {
		t.Fatalf("output = %q", out.String())
	}

	cfg.Reset = true
	out.Reset()
	if err := run(context.Background(), cfg, &out, nil, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "history now has 4 rounds") {
		t.Fatalf("output = %q", out.String())
	}

	store, err := backend.Open(backend.Config{Backend: "json", DataDir: dataDir})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	rounds, err := store.ListRounds(context.Background())
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(rounds) != 4 {
		t.Fatalf("rounds = %d, want 4", len(rounds))
	}
	for _, r := range rounds {
		if r.Mode != round.ModeRangePrediction || r.Algorithm != rng.AlgorithmTimeBased {
			t.Fatalf("round = %+v", r)
		}
	}
}
