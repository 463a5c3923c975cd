// Package classifier holds the black-box probability models and
// the cumulative-probability sampler that turns a probability vector into
// a drawn outcome index. Models are opaque: this package defines only the
// runtime predict_proba-style contract, never their training.
package classifier

import (
	"github.com/baseball-sim/sim-core/internal/rng"
	"github.com/baseball-sim/sim-core/internal/simerr"
)

// Kind identifies one of the seven (plus legacy IS_HIT) black-box models.
type Kind int

const (
	Pitch Kind = iota
	HitType
	OutType
	IsHitLegacy
	RunnerAdvHit
	RunnerAdvOut
	SBAttempt
	SBSuccess
)

// expectedLength is the fixed output-vector length each Kind contracts for.
var expectedLength = map[Kind]int{
	Pitch:        6, // ball, strike_swinging, foul, in_play_hit, in_play_out, strike_looking
	HitType:      4, // single, double, triple, home_run
	OutType:      2, // flyout, groundout
	IsHitLegacy:  3, // flyout, groundout, hit
	RunnerAdvHit: 2, // hold, advance
	RunnerAdvOut: 2, // hold, advance
	SBAttempt:    2, // no attempt, attempt
	SBSuccess:    2, // caught, success
}

// Pitch outcome indices within the six-way PITCH vector.
const (
	PitchBall = iota
	PitchStrikeSwinging
	PitchFoul
	PitchInPlayHit
	PitchInPlayOut
	PitchStrikeLooking
)

// HitType outcome indices within the four-way HIT_TYPE vector.
const (
	HitSingle = iota
	HitDouble
	HitTriple
	HitHomeRun
)

// OutType outcome indices within the two-way OUT_TYPE vector.
const (
	OutFlyout = iota
	OutGroundout
)

// Model is the opaque black-box probability producer contract: given a
// feature vector it returns a probability vector of the Kind's fixed
// length, nonnegative entries summing to 1.
type Model interface {
	PredictProba(features []float64) ([]float64, error)
}

// ModelFunc adapts a plain function to the Model interface, the shape most
// loaded classifier blobs present after deserialization.
type ModelFunc func(features []float64) ([]float64, error)

func (f ModelFunc) PredictProba(features []float64) ([]float64, error) {
	return f(features)
}

// Registry holds the seven (plus legacy) models, immutable after
// construction and safe for concurrent read-only use across every worker
// in the iteration driver.
type Registry struct {
	models map[Kind]Model
}

// NewRegistry builds a registry requiring at least PITCH, HIT_TYPE,
// RUNNER_ADV_HIT, RUNNER_ADV_OUT, SB_ATTEMPT and SB_SUCCESS be present;
// at least one of OUT_TYPE and IS_HIT_LEGACY must also be present,
// depending on which pitch model lineage (six-way vs four-way) the caller
// targets.
func NewRegistry(models map[Kind]Model) (*Registry, error) {
	required := []Kind{Pitch, HitType, RunnerAdvHit, RunnerAdvOut, SBAttempt, SBSuccess}
	for _, k := range required {
		if _, ok := models[k]; !ok {
			return nil, simerr.NewConfigError("classifier registry missing required model %d", k)
		}
	}
	if _, ok := models[OutType]; !ok {
		if _, ok := models[IsHitLegacy]; !ok {
			return nil, simerr.NewConfigError("classifier registry must supply either OUT_TYPE or the legacy IS_HIT model")
		}
	}
	return &Registry{models: models}, nil
}

// Predict returns the raw probability vector for the given model kind,
// validating the contract: fixed length, fails with ConfigError if the
// model is missing, DomainError if the vector comes back empty.
func (r *Registry) Predict(kind Kind, features []float64) ([]float64, error) {
	m, ok := r.models[kind]
	if !ok {
		return nil, simerr.NewConfigError("classifier registry: model %d not configured", kind)
	}
	probs, err := m.PredictProba(features)
	if err != nil {
		return nil, simerr.WrapDomainError(err, "model %d predict_proba failed", kind)
	}
	if len(probs) == 0 {
		return nil, simerr.NewDomainError("model %d returned an empty probability vector", kind)
	}
	if want, ok := expectedLength[kind]; ok && len(probs) != want {
		return nil, simerr.NewDomainError("model %d returned %d-length vector, want %d", kind, len(probs), want)
	}
	return probs, nil
}

// Sample draws a pseudo-random index from the probability vector returned
// by kind's model: draws u in [0,1) uniformly and returns the smallest
// index i such that the cumulative sum through i exceeds u.
func (r *Registry) Sample(kind Kind, features []float64, source *rng.Source) (int, error) {
	probs, err := r.Predict(kind, features)
	if err != nil {
		return 0, err
	}
	roll := source.Float64()
	total := 0.0
	for i, p := range probs {
		total += p
		if roll < total {
			return i, nil
		}
	}
	// Floating point rounding of the cumulative sum can leave a
	// residual below 1.0; a roll landing in that residual resolves to
	// the last outcome rather than being treated as undefined.
	return len(probs) - 1, nil
}
