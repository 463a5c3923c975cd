package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/pak"
)

func newTestTeam() *State {
	s := New("BOS", "Boston")
	s.Lineup = []string{"b1", "b2", "b3"}
	s.Rotation = []string{"p1", "p2"}
	for _, id := range append(append([]string{}, s.Lineup...), s.Rotation...) {
		s.Stlats[id] = pak.PAK{Thwackability: 0.5, Unthwackability: 0.5}
		s.Buffs[id] = buff.NewStack()
	}
	return s
}

func TestResetIsIdempotent(t *testing.T) {
	s := newTestTeam()
	s.CurBatterPos = 2
	s.CurPitcherPos = 1

	require.NoError(t, s.Reset(true))
	first := s.CurBatterPos
	require.NoError(t, s.Reset(true))
	second := s.CurBatterPos

	assert.Equal(t, 0, first)
	assert.Equal(t, first, second, "resetting twice in a row must land in the same state")
}

func TestResetSkipsShelledPitcherOnRevalidate(t *testing.T) {
	s := newTestTeam()
	s.Buffs["p1"].Grant(buff.Shelled)

	require.NoError(t, s.Reset(true))
	assert.Equal(t, "p2", s.CurPitcher(), "a SHELLED starting pitcher must be skipped on reset")
}

func TestUpdateStartingPitcherExhaustsRotation(t *testing.T) {
	s := newTestTeam()
	for _, id := range s.Rotation {
		s.Buffs[id].Grant(buff.Shelled)
	}

	err := s.UpdateStartingPitcher()
	assert.Error(t, err, "a rotation where every pitcher is unavailable must fail after MaxRotationRetries")
}

func TestUpdateStartingPitcherRejectsEmptyRotation(t *testing.T) {
	s := New("BOS", "Boston")
	err := s.UpdateStartingPitcher()
	assert.Error(t, err)
}

func TestNextBatterSkipsUnavailableBatters(t *testing.T) {
	s := newTestTeam()
	s.Buffs["b2"].Grant(buff.Elsewhere)

	s.CurBatterPos = 0
	s.NextBatter()
	assert.Equal(t, "b3", s.CurBatter(), "NextBatter must skip an ELSEWHERE batter")
}

func TestCloneSharesNoMutableState(t *testing.T) {
	s := newTestTeam()
	s.Buffs["b1"].Grant(buff.Homebody)
	s.Buffs["b1"].Preload(buff.Context{IsHome: true})

	clone := s.Clone()
	clone.Stlats["b1"] = pak.PAK{Thwackability: 0.99}
	clone.Buffs["b1"].Levels[buff.Homebody] = buff.LevelInactive
	clone.Lineup[0] = "mutated"

	assert.Equal(t, 0.5, s.Stlats["b1"].Thwackability, "cloning must not let mutations leak back into the template")
	assert.Equal(t, buff.LevelActive, s.Buffs["b1"].Levels[buff.Homebody])
	assert.Equal(t, "b1", s.Lineup[0])
}

func TestCloneResetsStatsToFreshSink(t *testing.T) {
	s := newTestTeam()
	s.UpdateStat("b1", 0, 5)

	clone := s.Clone()
	assert.Empty(t, clone.Stats.Game, "a cloned team starts with no accumulated stats")
}

func TestApplySeasonalRulesAppliesFourthStrike(t *testing.T) {
	s := newTestTeam()
	s.SeasonalRules = []buff.SeasonalRule{buff.FourthStrike}
	s.ApplySeasonalRules()
	assert.Equal(t, 4, s.StrikesForOut)
	assert.Equal(t, 4, s.BallsForWalk)
}

func TestUnderOverFlipsOffExactlyOnceAtTheThreshold(t *testing.T) {
	s := newTestTeam()
	s.Buffs["b1"].Grant(buff.UnderOver)
	require.NoError(t, s.Reset(true))

	pre := s.Buffs["b1"].Multiplier(pak.AxisBatting)
	require.InDelta(t, 1.2, pre, 1e-12, "UNDER_OVER is on at preload while the score is under 5")

	s.ReevaluateBuffs(4.9)
	assert.Equal(t, pre, s.Buffs["b1"].Multiplier(pak.AxisBatting))

	s.ReevaluateBuffs(5.0)
	post := s.Buffs["b1"].Multiplier(pak.AxisBatting)
	assert.InEpsilon(t, 1/1.2, post/pre, 1e-9, "crossing 5.0 divides the multiplier by its factor exactly once")

	s.ReevaluateBuffs(5.1)
	assert.Equal(t, post, s.Buffs["b1"].Multiplier(pak.AxisBatting), "further re-evaluations above the threshold change nothing")
}

func TestBatterFeatureVectorLength(t *testing.T) {
	s := newTestTeam()
	require.NoError(t, s.Reset(true))
	vec := s.BatterFeatureVector("b1", false)
	assert.Len(t, vec, 8+5+1)
}

func TestPitcherFeatureVectorLength(t *testing.T) {
	s := newTestTeam()
	require.NoError(t, s.Reset(true))
	vec := s.PitcherFeatureVector("p1")
	assert.Len(t, vec, 6+1)
}

func TestDefenseFeatureVectorHasEightEntries(t *testing.T) {
	s := newTestTeam()
	require.NoError(t, s.Reset(true))
	vec := s.DefenseFeatureVector()
	assert.Len(t, vec, 8)
}

func TestDefenseFeatureVectorEmptyLineup(t *testing.T) {
	s := New("BOS", "Boston")
	vec := s.DefenseFeatureVector()
	assert.Len(t, vec, 8)
	for _, v := range vec {
		assert.Equal(t, 0.0, v)
	}
}
