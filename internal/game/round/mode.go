package round

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is how a prediction is judged against the generated number.
type Mode string

const (
	ModeExactMatch      Mode = "exact_match"
	ModeRangePrediction Mode = "range_prediction"
	ModeHighLow         Mode = "high_low"
)

// ErrUnknownMode reports a mode key outside the catalog.
var ErrUnknownMode = errors.New("unknown game mode")

// ModeInfo labels a mode for display.
type ModeInfo struct {
	Mode  Mode
	Label string
}

var modes = []ModeInfo{
	{Mode: ModeExactMatch, Label: "Exact Match"},
	{Mode: ModeRangePrediction, Label: "Range Prediction"},
	{Mode: ModeHighLow, Label: "High/Low"},
}

// Modes returns every mode in display order.
func Modes() []ModeInfo {
	out := make([]ModeInfo, len(modes))
	copy(out, modes)
	return out
}

// ParseMode resolves a mode key.
func ParseMode(value string) (Mode, error) {
	key := Mode(strings.ToLower(strings.TrimSpace(value)))
	for _, info := range modes {
		if info.Mode == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

// Label returns the display name, or the raw key when unknown.
func (m Mode) Label() string {
	for _, info := range modes {
		if info.Mode == m {
			return info.Label
		}
	}
	return string(m)
}

// Choice is a High/Low pick.
type Choice string

const (
	ChoiceHigh Choice = "high"
	ChoiceLow  Choice = "low"
)

// PredictionFromChoice encodes a High/Low pick as the range bound it points
// at: High is max, Low is min.
func PredictionFromChoice(choice string, min, max int) (int, error) {
	switch Choice(strings.ToLower(strings.TrimSpace(choice))) {
	case ChoiceHigh:
		return max, nil
	case ChoiceLow:
		return min, nil
	default:
		return 0, fmt.Errorf("unknown high/low choice %q", choice)
	}
}
