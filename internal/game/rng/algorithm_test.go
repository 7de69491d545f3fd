package rng

import (
	"errors"
	"testing"
	"time"
)

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{in: "standard", want: AlgorithmStandard},
		{in: " Secrets ", want: AlgorithmSecrets},
		{in: "time_based", want: AlgorithmTimeBased},
		{in: "", wantErr: true},
		{in: "lava_lamp", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseAlgorithm(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAlgorithm(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAlgorithm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInfoFallsBackToStandard(t *testing.T) {
	t.Parallel()

	if got := Info("unknown"); got.Algorithm != AlgorithmStandard {
		t.Fatalf("Info(unknown) = %q, want standard", got.Algorithm)
	}
	if got := Info(AlgorithmTimeBased); got.Predictability != PredictablePartially {
		t.Fatalf("time_based predictability = %q, want Partially", got.Predictability)
	}
}

func TestAlgorithmsReturnsCopy(t *testing.T) {
	t.Parallel()

	list := Algorithms()
	list[0].Name = "changed"
	if Algorithms()[0].Name == "changed" {
		t.Fatal("Algorithms() exposed the catalog")
	}
}

func TestValidateRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		min     int
		max     int
		wantMsg string
	}{
		{name: "default", min: 0, max: 99},
		{name: "two numbers", min: 4, max: 5},
		{name: "largest span", min: 0, max: 10000},
		{name: "inverted", min: 10, max: 1, wantMsg: "Minimum (10) cannot be greater than maximum (1)"},
		{name: "single number", min: 7, max: 7, wantMsg: "Range must contain at least 2 numbers"},
		{name: "too large", min: 0, max: 10001, wantMsg: "Range too large (max 10,000 numbers)"},
	}
	for _, tc := range tests {
		err := ValidateRange(tc.min, tc.max)
		if tc.wantMsg == "" {
			if err != nil {
				t.Fatalf("%s: ValidateRange() error = %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%s: error = %v, want ErrInvalidRange", tc.name, err)
		}
		if err.Error() != tc.wantMsg {
			t.Fatalf("%s: message = %q, want %q", tc.name, err.Error(), tc.wantMsg)
		}
	}
}

func TestIsSpecialTime(t *testing.T) {
	t.Parallel()

	if !IsSpecialTime(time.Date(2026, 1, 1, 9, 47, 0, 0, time.UTC), 47) {
		t.Fatal("expected minute 47 to be special")
	}
	if IsSpecialTime(time.Date(2026, 1, 1, 9, 46, 59, 0, time.UTC), 47) {
		t.Fatal("expected minute 46 not to be special")
	}
}
