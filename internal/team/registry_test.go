package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/pak"
)

func TestResolveTagAcceptsWireIDAndName(t *testing.T) {
	byID, ok := ResolveTag("f02aeae2-5e6a-4098-9842-02d2273f25c7")
	require.True(t, ok)
	assert.Equal(t, Sunbeams, byID)

	byName, ok := ResolveTag("SUNBEAMS")
	require.True(t, ok)
	assert.Equal(t, Sunbeams, byName)

	_, ok = ResolveTag("no-such-team")
	assert.False(t, ok)
}

func TestApplyTraitsAttachesSunbeamsBaseInstincts(t *testing.T) {
	s := New("f02aeae2-5e6a-4098-9842-02d2273f25c7", "Sunbeams")
	s.Season = 9
	s.ApplyTraits(Sunbeams)

	require.NotNil(t, s.PitchEvent)
	assert.Equal(t, buff.BaseInstincts, s.PitchEvent.Kind)
	assert.Equal(t, pak.BloodBase, s.PitchEvent.RequiredBlood)
	assert.True(t, s.PitchEvent.ValidForSeason(9))
	assert.False(t, s.PitchEvent.ValidForSeason(8))
}

func TestApplyTraitsGatesAdditiveOnStartSeason(t *testing.T) {
	early := New("x", "Crabs")
	early.Season = 12
	early.ApplyTraits(Crabs)
	assert.False(t, early.Additives[buff.Growth])

	late := New("x", "Crabs")
	late.Season = 13
	late.ApplyTraits(Crabs)
	assert.True(t, late.Additives[buff.Growth])
}

func TestApplyTraitsSeasonalRulesAreExactSeason(t *testing.T) {
	in := New("x", "Wild Wings")
	in.Season = 12
	in.ApplyTraits(WildWings)
	assert.Contains(t, in.SeasonalRules, buff.FourthStrike)

	out := New("x", "Wild Wings")
	out.Season = 11
	out.ApplyTraits(WildWings)
	assert.Empty(t, out.SeasonalRules)
}

func TestApplyTraitsPeakWindowGatesOnSeasonAndDay(t *testing.T) {
	inside := New("x", "Tacos")
	inside.Season, inside.Day = 13, 40
	inside.ApplyTraits(Tacos)
	assert.True(t, inside.InPeakWindow)
	assert.True(t, inside.Additives[buff.PeakSeason])

	outside := New("x", "Tacos")
	outside.Season, outside.Day = 13, 10
	outside.ApplyTraits(Tacos)
	assert.False(t, outside.InPeakWindow)
}

func TestEnsureAvailableBatterSkipsFromCurrentPosition(t *testing.T) {
	s := New("BOS", "Boston")
	s.Lineup = []string{"b1", "b2", "b3"}
	for _, id := range s.Lineup {
		s.Buffs[id] = buff.NewStack()
	}
	s.Buffs["b1"].Grant(buff.Shelled)

	s.CurBatterPos = 0
	s.EnsureAvailableBatter()
	assert.Equal(t, "b2", s.CurBatter(), "a SHELLED batter at the current position is skipped in place")

	s.EnsureAvailableBatter()
	assert.Equal(t, "b2", s.CurBatter(), "an available batter stays put")
}
