package domain

import (
	"fmt"
	"math"
)

// Segment represents a timed segment of transcribed text
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate checks that the segment times are finite, non-negative and
// ordered. It is applied where model output enters the domain.
func (s Segment) Validate() error {
	for _, v := range []float64{s.Start, s.End} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: time %v out of range", ErrInvalidSegment, v)
		}
	}
	if s.End < s.Start {
		return fmt.Errorf("%w: end %.3f before start %.3f", ErrInvalidSegment, s.End, s.Start)
	}
	return nil
}

// Duration returns the length of the segment in seconds
func (s Segment) Duration() float64 {
	return s.End - s.Start
}
