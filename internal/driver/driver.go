// Package driver supplies the daily physiological increment (for example
// thermal time) that the phenology engine consumes. Sources are read-only
// and pure: the value for a day depends only on the day number.
package driver

import (
	"errors"
	"fmt"
)

// ErrExhausted indicates a non-cycling series has no value for the day.
var ErrExhausted = errors.New("driver series exhausted")

// Source returns the driver value for a one-based simulation day.
type Source interface {
	Value(day int) (float64, error)
}

// Constant supplies the same value every day.
type Constant float64

// Value returns c for every day.
func (c Constant) Value(int) (float64, error) {
	return float64(c), nil
}

// Series supplies one value per day from a fixed list.
type Series struct {
	values []float64
	cycle  bool
}

// NewSeries copies values into a Series. With cycle set the series wraps
// around instead of running out.
func NewSeries(values []float64, cycle bool) *Series {
	out := make([]float64, len(values))
	copy(out, values)
	return &Series{values: out, cycle: cycle}
}

// Len returns the number of values in one pass of the series.
func (s *Series) Len() int { return len(s.values) }

// Value returns the value for day, or ErrExhausted past the end.
func (s *Series) Value(day int) (float64, error) {
	if day < 1 {
		return 0, fmt.Errorf("driver: day %d: days are one-based", day)
	}
	if len(s.values) == 0 {
		return 0, fmt.Errorf("driver: day %d: %w", day, ErrExhausted)
	}
	i := day - 1
	if i >= len(s.values) {
		if !s.cycle {
			return 0, fmt.Errorf("driver: day %d of %d: %w", day, len(s.values), ErrExhausted)
		}
		i %= len(s.values)
	}
	return s.values[i], nil
}

// Func adapts a plain function to Source.
type Func func(day int) (float64, error)

// Value calls f.
func (f Func) Value(day int) (float64, error) { return f(day) }
