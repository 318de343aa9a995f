package srt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidTimestamp is returned for negative, NaN or infinite timestamps.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// TimestampError carries the offending value of an invalid timestamp.
type TimestampError struct {
	Value  float64
	Reason string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s %v: %s", ErrInvalidTimestamp, e.Value, e.Reason)
}

func (e *TimestampError) Unwrap() error { return ErrInvalidTimestamp }

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// FormatTimestamp renders seconds as H:MM:SS,mmm.
//
// The value is rounded to the nearest millisecond with ties rounding away
// from zero. Hours are not padded and have no upper bound.
func FormatTimestamp(seconds float64) (string, error) {
	switch {
	case math.IsNaN(seconds):
		return "", &TimestampError{Value: seconds, Reason: "not a number"}
	case math.IsInf(seconds, 0):
		return "", &TimestampError{Value: seconds, Reason: "infinite"}
	case seconds < 0:
		return "", &TimestampError{Value: seconds, Reason: "negative"}
	}

	millis := math.Round(seconds * msPerSecond)
	if math.IsInf(millis, 0) {
		return "", &TimestampError{Value: seconds, Reason: "out of range"}
	}

	// math.Mod is exact, so hours stays correct past the int64 range.
	rem := math.Mod(millis, msPerHour)
	hours := (millis - rem) / msPerHour

	ms := int(rem)
	minutes := ms / msPerMinute
	ms -= minutes * msPerMinute
	secs := ms / msPerSecond
	ms -= secs * msPerSecond

	return strconv.FormatFloat(hours, 'f', 0, 64) + fmt.Sprintf(":%02d:%02d,%03d", minutes, secs, ms), nil
}
