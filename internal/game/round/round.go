// Package round models one prediction attempt against the machine.
package round

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/platform/id"
)

// legacyTimestampLayout matches naive ISO-8601 timestamps without a zone.
const legacyTimestampLayout = "2006-01-02T15:04:05.999999999"

// Round is one recorded attempt. Prediction is nil when the player generated
// without predicting.
type Round struct {
	ID         string
	Prediction *int
	Generated  int
	Timestamp  time.Time
	Mode       Mode
	Min        int
	Max        int
	Algorithm  rng.Algorithm
}

// New stamps a round with a fresh ID and the given time.
func New(prediction *int, generated int, mode Mode, min, max int, algorithm rng.Algorithm, at time.Time) (Round, error) {
	roundID, err := id.NewID()
	if err != nil {
		return Round{}, fmt.Errorf("new round: %w", err)
	}
	return Round{
		ID:         roundID,
		Prediction: prediction,
		Generated:  generated,
		Timestamp:  at,
		Mode:       mode,
		Min:        min,
		Max:        max,
		Algorithm:  algorithm,
	}, nil
}

// Predicted reports whether the round carries a prediction.
func (r Round) Predicted() bool {
	return r.Prediction != nil
}

// IsHit reports whether the prediction matched the generated number exactly.
// Every mode is judged the same way; a High/Low pick hits only on the bound
// it encodes.
func (r Round) IsHit() bool {
	return r.Prediction != nil && *r.Prediction == r.Generated
}

// Distance is the absolute gap between prediction and result.
func (r Round) Distance() (int, bool) {
	if r.Prediction == nil {
		return 0, false
	}
	return abs(*r.Prediction - r.Generated), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type wireRound struct {
	ID         string `json:"id,omitempty"`
	Prediction *int   `json:"prediction"`
	Generated  int    `json:"generated"`
	Timestamp  string `json:"timestamp"`
	Mode       string `json:"game_mode"`
	Min        int    `json:"min_val"`
	Max        int    `json:"max_val"`
	Algorithm  string `json:"algorithm"`
}

// MarshalJSON writes the sessions.json record shape.
func (r Round) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRound{
		ID:         r.ID,
		Prediction: r.Prediction,
		Generated:  r.Generated,
		Timestamp:  FormatTimestamp(r.Timestamp),
		Mode:       string(r.Mode),
		Min:        r.Min,
		Max:        r.Max,
		Algorithm:  string(r.Algorithm),
	})
}

// UnmarshalJSON reads a sessions.json record. Missing mode, range and
// algorithm fields take the defaults older files were written with.
func (r *Round) UnmarshalJSON(data []byte) error {
	wire := wireRound{
		Mode:      string(ModeExactMatch),
		Min:       rng.DefaultMin,
		Max:       rng.DefaultMax,
		Algorithm: string(rng.AlgorithmStandard),
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	ts, err := ParseTimestamp(wire.Timestamp)
	if err != nil {
		return err
	}
	*r = Round{
		ID:         wire.ID,
		Prediction: wire.Prediction,
		Generated:  wire.Generated,
		Timestamp:  ts,
		Mode:       Mode(wire.Mode),
		Min:        wire.Min,
		Max:        wire.Max,
		Algorithm:  rng.Algorithm(wire.Algorithm),
	}
	return nil
}

// FormatTimestamp renders t as RFC 3339 with nanoseconds.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 timestamps; the
// latter are read as local time. Empty input yields the zero time.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyTimestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}
