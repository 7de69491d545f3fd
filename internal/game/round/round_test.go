package round

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
)

func intPtr(v int) *int { return &v }

func TestIsHitByMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		round Round
		want  bool
	}{
		{name: "no prediction", round: Round{Generated: 5, Mode: ModeExactMatch, Max: 99}, want: false},
		{name: "exact hit", round: Round{Prediction: intPtr(5), Generated: 5, Mode: ModeExactMatch, Max: 99}, want: true},
		{name: "exact miss", round: Round{Prediction: intPtr(6), Generated: 5, Mode: ModeExactMatch, Max: 99}, want: false},
		{name: "unknown mode is exact", round: Round{Prediction: intPtr(6), Generated: 5, Mode: "mystery", Max: 99}, want: false},
		{name: "range exact hit", round: Round{Prediction: intPtr(60), Generated: 60, Mode: ModeRangePrediction, Max: 99}, want: true},
		{name: "range near miss", round: Round{Prediction: intPtr(5), Generated: 7, Mode: ModeRangePrediction, Max: 99}, want: false},
		{name: "high on max hits", round: Round{Prediction: intPtr(99), Generated: 99, Mode: ModeHighLow, Max: 99}, want: true},
		{name: "high above midpoint misses", round: Round{Prediction: intPtr(99), Generated: 60, Mode: ModeHighLow, Max: 99}, want: false},
		{name: "low on min hits", round: Round{Prediction: intPtr(0), Generated: 0, Mode: ModeHighLow, Max: 99}, want: true},
		{name: "low below midpoint misses", round: Round{Prediction: intPtr(0), Generated: 10, Mode: ModeHighLow, Max: 99}, want: false},
	}
	for _, tc := range tests {
		if got := tc.round.IsHit(); got != tc.want {
			t.Fatalf("%s: IsHit() = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestDistance(t *testing.T) {
	t.Parallel()

	if _, ok := (Round{Generated: 3}).Distance(); ok {
		t.Fatal("expected no distance without prediction")
	}
	got, ok := Round{Prediction: intPtr(10), Generated: 3}.Distance()
	if !ok || got != 7 {
		t.Fatalf("Distance() = %d, %t; want 7, true", got, ok)
	}
}

func TestNewStampsIDAndTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 18, 9, 47, 0, 0, time.UTC)
	r, err := New(intPtr(47), 12, ModeExactMatch, 0, 99, rng.AlgorithmSecrets, at)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(r.ID) != 26 {
		t.Fatalf("ID = %q, want 26 characters", r.ID)
	}
	if !r.Timestamp.Equal(at) {
		t.Fatalf("Timestamp = %v, want %v", r.Timestamp, at)
	}
}

func TestJSONKeepsNullPrediction(t *testing.T) {
	t.Parallel()

	in := Round{
		Generated: 47,
		Timestamp: time.Date(2026, 10, 18, 9, 47, 1, 500, time.UTC),
		Mode:      ModeHighLow,
		Min:       0,
		Max:       99,
		Algorithm: rng.AlgorithmTimeBased,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"prediction":null`) {
		t.Fatalf("expected null prediction in %s", data)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Fatalf("expected empty id to be omitted in %s", data)
	}

	var out Round
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalLegacyRecord(t *testing.T) {
	t.Parallel()

	legacy := `{"prediction": 12, "generated": 40, "timestamp": "2025-03-01T10:47:05.123456"}`
	var r Round
	if err := json.Unmarshal([]byte(legacy), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := time.Date(2025, 3, 1, 10, 47, 5, 123456000, time.Local)
	if !r.Timestamp.Equal(want) {
		t.Fatalf("Timestamp = %v, want %v", r.Timestamp, want)
	}
	if r.Mode != ModeExactMatch || r.Min != 0 || r.Max != 99 || r.Algorithm != rng.AlgorithmStandard {
		t.Fatalf("expected legacy defaults, got %+v", r)
	}
}

func TestUnmarshalRejectsBadTimestamp(t *testing.T) {
	t.Parallel()

	var r Round
	if err := json.Unmarshal([]byte(`{"generated": 1, "timestamp": "yesterday"}`), &r); err == nil {
		t.Fatal("expected timestamp error")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	got, err := ParseMode(" HIGH_LOW ")
	if err != nil || got != ModeHighLow {
		t.Fatalf("ParseMode() = %q, %v; want high_low", got, err)
	}
	if _, err := ParseMode("roulette"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("ParseMode(roulette) error = %v, want ErrUnknownMode", err)
	}
	if ModeRangePrediction.Label() != "Range Prediction" {
		t.Fatalf("Label() = %q", ModeRangePrediction.Label())
	}
}

func TestPredictionFromChoice(t *testing.T) {
	t.Parallel()

	if got, _ := PredictionFromChoice("High", 10, 20); got != 20 {
		t.Fatalf("high = %d, want 20", got)
	}
	if got, _ := PredictionFromChoice("low", 10, 20); got != 10 {
		t.Fatalf("low = %d, want 10", got)
	}
	if _, err := PredictionFromChoice("middle", 10, 20); err == nil {
		t.Fatal("expected error for unknown choice")
	}
}
