package analysis

import "math"

type Stats struct {
	N           int
	Min, Max    float64
	Mean, Std   float64
	First, Last float64
}

// Describe returns zero Stats for an empty series.
func Describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	s := Stats{N: len(xs), Min: xs[0], Max: xs[0], First: xs[0], Last: xs[len(xs)-1]}
	sum := 0.0
	for _, x := range xs {
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
		sum += x
	}
	s.Mean = sum / float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		d := x - s.Mean
		ss += d * d
	}
	s.Std = math.Sqrt(ss / float64(len(xs)))
	return s
}

// RelativeChange is (last-first)/|first|, or the absolute change when the
// series starts at zero.
func (s Stats) RelativeChange() float64 {
	if s.First == 0 {
		return s.Last
	}
	return (s.Last - s.First) / math.Abs(s.First)
}
