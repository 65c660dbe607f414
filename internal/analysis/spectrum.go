package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins of
// xs after removing its mean. Bin k corresponds to k/(len(xs)*dt).
func PowerSpectrum(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	mean := Describe(xs).Mean
	centered := make([]float64, len(xs))
	for i, x := range xs {
		centered[i] = x - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// Dominant returns the frequency and period of the strongest non-zero
// bin of the spectrum of xs, sampled dt apart. Both are zero for a constant
// series.
func Dominant(xs []float64, dt float64) (freq, period float64) {
	ps := PowerSpectrum(xs)
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 || dt <= 0 {
		return 0, 0
	}
	freq = float64(best) / (float64(len(xs)) * dt)
	return freq, 1 / freq
}
