package iteration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/game"
	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/rng"
	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/team"
)

func constModel(probs []float64) classifier.ModelFunc {
	return func(features []float64) ([]float64, error) { return probs, nil }
}

// testRegistry always strikes the batter out and never attempts a stolen
// base. Both sides draw from the same model, so every inning is scoreless
// and symmetric: the matchup never produces a winner and reliably runs out
// the safety inning cap, a deterministic way to exercise the worker pool
// without depending on any particular random draw.
func testRegistry(t *testing.T) *classifier.Registry {
	models := map[classifier.Kind]classifier.Model{
		classifier.Pitch:        constModel([]float64{0, 1, 0, 0, 0, 0}), // always strike-swinging
		classifier.HitType:      constModel([]float64{1, 0, 0, 0}),
		classifier.OutType:      constModel([]float64{1, 0}),
		classifier.RunnerAdvHit: constModel([]float64{1, 0}),
		classifier.RunnerAdvOut: constModel([]float64{1, 0}),
		classifier.SBAttempt:    constModel([]float64{1, 0}), // never attempts
		classifier.SBSuccess:    constModel([]float64{1, 0}),
	}
	reg, err := classifier.NewRegistry(models)
	require.NoError(t, err)
	return reg
}

func buildTeamTemplate(id string) *team.State {
	s := team.New(id, id)
	s.Lineup = []string{id + "_b1", id + "_b2", id + "_b3"}
	s.Rotation = []string{id + "_p1"}
	for _, pid := range append(append([]string{}, s.Lineup...), s.Rotation...) {
		s.Stlats[pid] = pak.PAK{}
		s.Buffs[pid] = buff.NewStack()
	}
	return s
}

func TestRunProducesOneResultPerWorkerAndSurfacesTheCapDomainError(t *testing.T) {
	reg := testRegistry(t)
	homeTemplate := buildTeamTemplate("H")
	awayTemplate := buildTeamTemplate("A")

	newState := func(seed int64) (*game.State, error) {
		home := homeTemplate.Clone()
		away := awayTemplate.Clone()
		source := rng.New(seed)
		return game.New("g1", 1, 1, home, away, reg, source), nil
	}

	d := New(3)
	results, err := d.Run(context.Background(), 10, 1, newState)
	require.NoError(t, err, "Run itself only fails on pool setup/submission errors, never on a worker's simulate error")
	require.Len(t, results, 3, "one WorkerResult per configured worker, regardless of how iterations split")

	for _, r := range results {
		assert.Error(t, r.Err, "a perfectly symmetric, always-scoreless matchup must exhaust the safety inning cap")
		assert.True(t, simerr.IsDomainError(r.Err))
	}
	assert.NotNil(t, FirstDomainError(results))
}

func TestRunHandlesZeroIterations(t *testing.T) {
	reg := testRegistry(t)
	homeTemplate := buildTeamTemplate("H")
	awayTemplate := buildTeamTemplate("A")
	newState := func(seed int64) (*game.State, error) {
		return game.New("g1", 1, 1, homeTemplate.Clone(), awayTemplate.Clone(), reg, rng.New(seed)), nil
	}

	d := New(4)
	results, err := d.Run(context.Background(), 0, 1, newState)
	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestNewClampsWorkerCountToAtLeastOne(t *testing.T) {
	d := New(0)
	assert.Equal(t, 1, d.Workers)
	d = New(-5)
	assert.Equal(t, 1, d.Workers)
}

func TestFirstDomainErrorFindsOnlyDomainErrors(t *testing.T) {
	results := []WorkerResult{
		{WorkerID: 0},
		{WorkerID: 1, Err: simerr.NewConfigError("not a domain error")},
		{WorkerID: 2, Err: simerr.NewDomainError("boom")},
	}
	err := FirstDomainError(results)
	require.Error(t, err)
}
