package rng

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/mindvsmachine/internal/platform/random"
)

// timeSeedModulus bounds time-based seeds to the microsecond part of the clock.
const timeSeedModulus = 1_000_000

// Engine generates numbers with one algorithm. It is safe for concurrent use.
type Engine struct {
	algorithm Algorithm
	now       func() time.Time
	entropy   io.Reader
	logger    zerolog.Logger

	mu       sync.Mutex
	source   *rand.Rand
	lastSeed int64
	hasSeed  bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the clock used by the time-based algorithm.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSeed seeds the standard source deterministically.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.source = rand.New(rand.NewSource(seed))
	}
}

// WithEntropy replaces the reader used by the secrets algorithm.
func WithEntropy(r io.Reader) Option {
	return func(e *Engine) {
		if r != nil {
			e.entropy = r
		}
	}
}

// WithLogger reports generation fallbacks.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine builds an engine for algorithm.
func NewEngine(algorithm Algorithm, opts ...Option) (*Engine, error) {
	if _, err := ParseAlgorithm(string(algorithm)); err != nil {
		return nil, err
	}
	e := &Engine{
		algorithm: algorithm,
		now:       time.Now,
		entropy:   crand.Reader,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed %s engine: %w", algorithm, err)
		}
		e.source = rand.New(rand.NewSource(seed))
	}
	return e, nil
}

// Algorithm returns the engine's algorithm.
func (e *Engine) Algorithm() Algorithm {
	return e.algorithm
}

// Info describes the engine's algorithm.
func (e *Engine) Info() AlgorithmInfo {
	return Info(e.algorithm)
}

// LastSeed returns the seed used by the most recent time-based draw.
func (e *Engine) LastSeed() (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeed, e.hasSeed
}

// Draw is one generated value plus the seed that produced it, if any.
type Draw struct {
	Value  int
	Seed   int64
	Seeded bool
}

// Generate returns a number in [min, max].
func (e *Engine) Generate(min, max int) (int, error) {
	d, err := e.Draw(min, max)
	if err != nil {
		return 0, err
	}
	return d.Value, nil
}

// Draw is Generate that also reports the time-based seed, so callers sharing
// an engine each see the seed of their own draw.
func (e *Engine) Draw(min, max int) (Draw, error) {
	if min > max {
		return Draw{}, rangeErrorf("min (%d) cannot be greater than max (%d)", min, max)
	}
	span := max - min + 1

	switch e.algorithm {
	case AlgorithmSecrets:
		n, err := crand.Int(e.entropy, big.NewInt(int64(span)))
		if err == nil {
			return Draw{Value: min + int(n.Int64())}, nil
		}
		e.logger.Warn().Err(err).Str("algorithm", string(e.algorithm)).Msg("entropy read failed, using standard source")
	case AlgorithmTimeBased:
		seed := e.now().UnixMicro() % timeSeedModulus
		e.mu.Lock()
		e.lastSeed = seed
		e.hasSeed = true
		e.mu.Unlock()
		return Draw{Value: min + SeededDraw(seed, span), Seed: seed, Seeded: true}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Draw{Value: min + e.source.Intn(span)}, nil
}

// SeededDraw returns the offset in [0, span) that a fresh source seeded with
// seed produces first. Time-based rounds can be replayed with it.
func SeededDraw(seed int64, span int) int {
	if span <= 0 {
		return 0
	}
	return rand.New(rand.NewSource(seed)).Intn(span)
}
