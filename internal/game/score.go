// Package game implements the pitch sampler, at-bat resolver, base-running
// and scoring engine, and inning/game orchestrator.
package game

import "math"

// Score is a fixed-point decimal with one fractional digit, stored as
// tenths of a run, so repeated ×0.9, ×1.5 and Sun2/Black Hole subtraction
// never drift the way repeated binary-float multiplication would.
type Score int64

// OneRun is the default value of a single run crossing home.
const OneRun Score = 10

// FromRuns converts a float run count into a Score, rounding to the
// nearest tenth.
func FromRuns(runs float64) Score {
	return Score(int64(math.Round(runs * 10)))
}

// Runs returns the float view of a Score for display/output purposes.
func (s Score) Runs() float64 {
	return float64(s) / 10.0
}

// MulTenths scales s by a factor expressed as tenths (e.g. 15 for ×1.5,
// 9 for ×0.9), keeping everything in exact integer arithmetic.
func (s Score) MulTenths(factorTenths int64) Score {
	return Score(int64(s) * factorTenths / 10)
}

// crossesTen reports whether adding delta to before would push the total
// at or past 10.0, returning the resulting total and whether a rollover
// should fire.
func crossesTen(before, delta Score) (after Score, crossed bool) {
	after = before + delta
	crossed = before < 100 && after >= 100
	return
}
