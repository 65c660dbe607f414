// Package analysis summarizes the frame series of a stored run.
//
//   - [Series]: one named quantity per frame
//   - [Describe]: min, max, mean and spread of a series
//   - [PowerSpectrum]: magnitude spectrum of a series around its mean
//
// A collapsing cloud oscillates about virial equilibrium; the dominant
// spectral peak of its energy or tree depth gives that period:
//
//	xs, _ := analysis.Series(frames, "depth")
//	freq, period := analysis.Dominant(xs, dt)
package analysis
