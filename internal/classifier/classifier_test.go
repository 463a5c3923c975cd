package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-core/internal/rng"
)

func uniformModel(probs []float64) ModelFunc {
	return func(features []float64) ([]float64, error) {
		return probs, nil
	}
}

func requiredModels() map[Kind]Model {
	return map[Kind]Model{
		Pitch:        uniformModel([]float64{0.1, 0.1, 0.1, 0.3, 0.3, 0.1}),
		HitType:      uniformModel([]float64{0.4, 0.3, 0.1, 0.2}),
		OutType:      uniformModel([]float64{0.5, 0.5}),
		RunnerAdvHit: uniformModel([]float64{0.5, 0.5}),
		RunnerAdvOut: uniformModel([]float64{0.5, 0.5}),
		SBAttempt:    uniformModel([]float64{0.9, 0.1}),
		SBSuccess:    uniformModel([]float64{0.3, 0.7}),
	}
}

func TestNewRegistryRequiresCoreModels(t *testing.T) {
	_, err := NewRegistry(map[Kind]Model{})
	require.Error(t, err)
}

func TestNewRegistryAcceptsLegacyInPlaceOfOutType(t *testing.T) {
	models := requiredModels()
	delete(models, OutType)
	models[IsHitLegacy] = uniformModel([]float64{0.4, 0.3, 0.3})

	_, err := NewRegistry(models)
	assert.NoError(t, err)
}

func TestNewRegistryRejectsMissingBothOutTypeLineages(t *testing.T) {
	models := requiredModels()
	delete(models, OutType)

	_, err := NewRegistry(models)
	assert.Error(t, err)
}

func TestPredictValidatesVectorLength(t *testing.T) {
	models := requiredModels()
	models[Pitch] = uniformModel([]float64{0.5, 0.5}) // wrong length for Pitch
	reg, err := NewRegistry(models)
	require.NoError(t, err)

	_, err = reg.Predict(Pitch, nil)
	assert.Error(t, err)
}

func TestPredictRejectsEmptyVector(t *testing.T) {
	models := requiredModels()
	models[HitType] = uniformModel(nil)
	reg, err := NewRegistry(models)
	require.NoError(t, err)

	_, err = reg.Predict(HitType, nil)
	assert.Error(t, err)
}

func TestSampleAlwaysReturnsAnIndexWithinRange(t *testing.T) {
	reg, err := NewRegistry(requiredModels())
	require.NoError(t, err)

	source := rng.New(42)
	for i := 0; i < 1000; i++ {
		idx, err := reg.Sample(HitType, nil, source)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
	}
}

func TestSampleAlwaysDrawsACertainOutcome(t *testing.T) {
	models := requiredModels()
	models[SBAttempt] = uniformModel([]float64{0.0, 1.0})
	reg, err := NewRegistry(models)
	require.NoError(t, err)

	source := rng.New(7)
	for i := 0; i < 100; i++ {
		idx, err := reg.Sample(SBAttempt, nil, source)
		require.NoError(t, err)
		assert.Equal(t, 1, idx, "a probability-1 outcome should always be drawn")
	}
}

func TestLinearModelPredictProbaSumsToOne(t *testing.T) {
	lm := LinearModel{
		Weights: [][]float64{{1, 0}, {0, 1}, {0.5, 0.5}},
		Bias:    []float64{0, 0, 0},
	}
	probs, err := lm.PredictProba([]float64{1.0, 2.0})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	sum := 0.0
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestLinearModelRejectsFeatureLengthMismatch(t *testing.T) {
	lm := LinearModel{Weights: [][]float64{{1, 2, 3}}, Bias: []float64{0}}
	_, err := lm.PredictProba([]float64{1, 2})
	assert.Error(t, err)
}

func TestLinearModelRejectsRaggedWeights(t *testing.T) {
	lm := LinearModel{Weights: [][]float64{{1, 2}, {1}}, Bias: []float64{0, 0}}
	_, err := lm.PredictProba([]float64{1, 2})
	assert.Error(t, err)
}

func TestLinearModelHandlesExtremeLogitsWithoutNaN(t *testing.T) {
	lm := LinearModel{
		Weights: [][]float64{{1000}, {-1000}},
		Bias:    []float64{0, 0},
	}
	probs, err := lm.PredictProba([]float64{1.0})
	require.NoError(t, err)
	for _, p := range probs {
		assert.False(t, isNaN(p))
	}
}

func isNaN(f float64) bool { return f != f }
