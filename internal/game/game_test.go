package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/team"
)

func newTestState(t *testing.T) *State {
	home := team.New("HOM", "Home")
	away := team.New("AWY", "Away")
	for _, side := range []*team.State{home, away} {
		side.Lineup = []string{"b1", "b2", "b3"}
		side.Rotation = []string{"p1"}
		for _, id := range append(append([]string{}, side.Lineup...), side.Rotation...) {
			side.Stlats[id] = pak.PAK{}
			side.Buffs[id] = buff.NewStack()
		}
	}
	g := &State{GameID: "g1", Home: home, Away: away}
	home.Season, home.Day, home.IsHome = 1, 1, true
	away.Season, away.Day, away.IsHome = 1, 1, false
	require.NoError(t, g.ResetGameState(true))
	return g
}

func TestInningCapDefaultsWhenUnset(t *testing.T) {
	g := newTestState(t)
	assert.Equal(t, SafetyInningCap, g.inningCap())
}

func TestInningCapOverride(t *testing.T) {
	g := newTestState(t)
	g.InningCap = 12
	assert.Equal(t, 12, g.inningCap())
}

func TestAttemptToAdvanceInningRotatesHalvesBeforeNinth(t *testing.T) {
	g := newTestState(t)
	g.Outs = 3
	require.NoError(t, g.attemptToAdvanceInning())

	assert.Equal(t, Bottom, g.Half)
	assert.Equal(t, 1, g.Inning)
	assert.Equal(t, 0, g.Outs)
	assert.False(t, g.IsGameOver)
}

func TestAttemptToAdvanceInningDoesNothingBeforeThirdOut(t *testing.T) {
	g := newTestState(t)
	g.Outs = 2
	require.NoError(t, g.attemptToAdvanceInning())
	assert.Equal(t, Top, g.Half, "the half-inning only turns over once three outs are recorded")
}

func TestWalkoffEndsGameInBottomNinth(t *testing.T) {
	g := newTestState(t)
	g.Inning = 9
	g.Half = Bottom
	g.Outs = 3
	g.HomeScore = 50
	g.AwayScore = 30

	require.NoError(t, g.attemptToAdvanceInning())
	assert.True(t, g.IsGameOver, "home team leading after the bottom of the 9th ends the game")
}

func TestTiedBottomNinthContinuesToExtras(t *testing.T) {
	g := newTestState(t)
	g.Inning = 9
	g.Half = Bottom
	g.Outs = 3
	g.HomeScore = 30
	g.AwayScore = 30

	require.NoError(t, g.attemptToAdvanceInning())
	assert.False(t, g.IsGameOver, "a tie going to the bottom of the 9th continues into extra innings")
	assert.Equal(t, 10, g.Inning)
}

func TestTopNinthEndsGameIfHomeAlreadyAhead(t *testing.T) {
	g := newTestState(t)
	g.Inning = 9
	g.Half = Top
	g.Outs = 3
	g.HomeScore = 50
	g.AwayScore = 10

	require.NoError(t, g.attemptToAdvanceInning())
	assert.True(t, g.IsGameOver, "a home team already ahead need not bat in the bottom of the 9th")
}

func TestResetGameStateZeroesCounters(t *testing.T) {
	g := newTestState(t)
	g.Outs, g.Strikes, g.Balls = 2, 1, 3
	g.HomeScore, g.AwayScore = 40, 10
	g.BaseRunners[1] = "b1"

	require.NoError(t, g.ResetGameState(true))
	assert.Equal(t, 0, g.Outs)
	assert.Equal(t, Score(0), g.HomeScore)
	assert.Empty(t, g.BaseRunners)
	assert.Equal(t, Top, g.Half)
	assert.Equal(t, 1, g.Inning)
}
