package rng

import (
	"errors"
	"fmt"
	"time"
)

// Bounds accepted for range inputs.
const (
	MinInput = 0
	MaxInput = 10000
	// MaxSpan is the largest allowed max-min difference.
	MaxSpan = 10000
)

// Defaults for a new player.
const (
	DefaultMin = 0
	DefaultMax = 99
)

// ErrInvalidRange reports an unusable min/max pair.
var ErrInvalidRange = errors.New("invalid range")

// RangeError carries a user-facing reason and matches ErrInvalidRange.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string {
	return e.Reason
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

func rangeErrorf(format string, args ...any) error {
	return &RangeError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateRange checks that [min, max] is a playable range.
func ValidateRange(min, max int) error {
	if min > max {
		return rangeErrorf("Minimum (%d) cannot be greater than maximum (%d)", min, max)
	}
	if max-min < 1 {
		return rangeErrorf("Range must contain at least 2 numbers")
	}
	if max-min > MaxSpan {
		return rangeErrorf("Range too large (max 10,000 numbers)")
	}
	return nil
}

// IsSpecialTime reports whether now falls on the special minute of the hour.
func IsSpecialTime(now time.Time, minute int) bool {
	return now.Minute() == minute
}
