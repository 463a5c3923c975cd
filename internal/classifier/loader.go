package classifier

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/baseball-sim/sim-core/internal/simerr"
)

// blobFileNames maps each Kind to the classifier blob file expected under
// the configured classifier directory. IS_HIT_LEGACY and OUT_TYPE are each optional depending on
// which pitch-model lineage the deployment targets.
var blobFileNames = map[Kind]string{
	Pitch:        "pitch.json",
	HitType:      "hit_type.json",
	OutType:      "out_type.json",
	IsHitLegacy:  "is_hit.json",
	RunnerAdvHit: "runner_adv_hit.json",
	RunnerAdvOut: "runner_adv_out.json",
	SBAttempt:    "sb_attempt.json",
	SBSuccess:    "sb_success.json",
}

// LinearModel is the plain-JSON serialization this module targets for a
// trained classifier blob: one row of weights and one bias per output
// class, scored as softmax(W*x + b). A features vector goes in, a
// probability vector of the Kind's fixed length comes out, preserving
// predict_proba's I/O contract exactly regardless of serialization.
type LinearModel struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// PredictProba scores features against the linear model and returns a
// softmax-normalized probability vector, computed via gonum/mat for the
// matrix-vector product and gonum/floats for the normalization sum —
// consistent with this module's gonum-first stance on anything
// statistics-shaped (internal/rng, internal/season/aggregate.go).
func (m LinearModel) PredictProba(features []float64) ([]float64, error) {
	if len(m.Weights) == 0 {
		return nil, simerr.NewConfigError("linear model has no output rows")
	}
	rows := len(m.Weights)
	cols := len(m.Weights[0])
	if cols != len(features) {
		return nil, simerr.NewDomainError("linear model expects %d features, got %d", cols, len(features))
	}

	flat := make([]float64, 0, rows*cols)
	for _, row := range m.Weights {
		if len(row) != cols {
			return nil, simerr.NewConfigError("linear model has a ragged weight matrix")
		}
		flat = append(flat, row...)
	}

	w := mat.NewDense(rows, cols, flat)
	x := mat.NewVecDense(cols, features)
	var logits mat.VecDense
	logits.MulVec(w, x)

	out := make([]float64, rows)
	maxLogit := logits.AtVec(0)
	for i := 0; i < rows; i++ {
		v := logits.AtVec(i)
		if i < len(m.Bias) {
			v += m.Bias[i]
		}
		out[i] = v
		if v > maxLogit {
			maxLogit = v
		}
	}

	for i, v := range out {
		out[i] = expClamped(v - maxLogit)
	}
	total := floats.Sum(out)
	if total <= 0 {
		return nil, simerr.NewDomainError("linear model produced a degenerate (zero-sum) distribution")
	}
	floats.Scale(1/total, out)
	return out, nil
}

// expClamped avoids math.Inf/NaN propagation on pathological weight blobs;
// every logit passed in has already been shifted by the row max so the
// exponent is always <= 0.
func expClamped(v float64) float64 {
	const minExp = -745 // math.Exp underflows to 0 below this
	if v < minExp {
		return 0
	}
	return math.Exp(v)
}

// LoadFromDir reads every classifier blob present under dir and builds a
// Registry. A missing required blob surfaces as the ConfigError
// NewRegistry already raises; a blob present but malformed surfaces here.
func LoadFromDir(dir string) (*Registry, error) {
	models := make(map[Kind]Model, len(blobFileNames))
	for kind, filename := range blobFileNames {
		path := filepath.Join(dir, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, simerr.WrapConfigError(err, "read classifier blob %s", path)
		}
		var lm LinearModel
		if err := json.Unmarshal(data, &lm); err != nil {
			return nil, simerr.WrapConfigError(err, "decode classifier blob %s", path)
		}
		models[kind] = lm
	}
	return NewRegistry(models)
}
