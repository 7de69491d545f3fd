// Package rng generates the machine's numbers.
//
// Three algorithms are offered so players can compare a seeded
// pseudo-random source, the operating system's entropy pool, and a source
// reseeded from the wall clock on every draw.
package rng

import (
	"fmt"
	"strings"
)

// Algorithm identifies a number generation strategy.
type Algorithm string

const (
	// AlgorithmStandard draws from a math/rand source seeded once at startup.
	AlgorithmStandard Algorithm = "standard"
	// AlgorithmSecrets draws from crypto/rand.
	AlgorithmSecrets Algorithm = "secrets"
	// AlgorithmTimeBased reseeds from the clock's microseconds on every draw.
	AlgorithmTimeBased Algorithm = "time_based"
)

// Predictability describes how guessable an algorithm's output is.
type Predictability string

const (
	PredictableYes       Predictability = "Yes"
	PredictableNo        Predictability = "No"
	PredictablePartially Predictability = "Partially"
)

// AlgorithmInfo is the human-facing description of an algorithm.
type AlgorithmInfo struct {
	Algorithm      Algorithm
	Name           string
	Description    string
	Predictability Predictability
}

var catalog = []AlgorithmInfo{
	{
		Algorithm:      AlgorithmStandard,
		Name:           "Standard Random",
		Description:    "Seeded pseudo-random number generator",
		Predictability: PredictableYes,
	},
	{
		Algorithm:      AlgorithmSecrets,
		Name:           "Cryptographic Random",
		Description:    "Cryptographically strong random using OS entropy",
		Predictability: PredictableNo,
	},
	{
		Algorithm:      AlgorithmTimeBased,
		Name:           "Time-Based Seed",
		Description:    "Seeded with microsecond-precision timestamp",
		Predictability: PredictablePartially,
	},
}

// Algorithms returns every algorithm in display order.
func Algorithms() []AlgorithmInfo {
	out := make([]AlgorithmInfo, len(catalog))
	copy(out, catalog)
	return out
}

// ParseAlgorithm resolves an algorithm key.
func ParseAlgorithm(value string) (Algorithm, error) {
	key := Algorithm(strings.ToLower(strings.TrimSpace(value)))
	for _, info := range catalog {
		if info.Algorithm == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown algorithm %q", value)
}

// Info describes algorithm; unknown algorithms report the standard entry.
func Info(algorithm Algorithm) AlgorithmInfo {
	for _, info := range catalog {
		if info.Algorithm == algorithm {
			return info
		}
	}
	return catalog[0]
}

// String returns the algorithm key.
func (a Algorithm) String() string {
	return string(a)
}
