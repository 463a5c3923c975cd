package buff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/stadium"
	"github.com/baseball-sim/sim-core/internal/weather"
)

func TestMultiplierFlipsExactlyOnEnableDisable(t *testing.T) {
	s := NewStack()
	s.Grant(Homebody)

	base := s.Multiplier(pak.AxisBatting)
	assert.Equal(t, 1.0, base, "an inactive buff contributes no multiplier")

	s.Preload(Context{IsHome: true})
	active := s.Multiplier(pak.AxisBatting)
	assert.Equal(t, 1.2, active)

	s.Preload(Context{IsHome: false})
	after := s.Multiplier(pak.AxisBatting)
	assert.Equal(t, base, after, "disabling the buff must return the multiplier to exactly its prior value, not an approximation")
}

func TestMultiplierStacksMultipleBuffsOnSameAxis(t *testing.T) {
	s := NewStack()
	s.Grant(Homebody)
	s.Grant(Perk)
	s.Preload(Context{IsHome: true, Weather: weather.Coffee})

	got := s.Multiplier(pak.AxisBatting)
	assert.InDelta(t, 1.2*1.2, got, 1e-9)
}

func TestSpicyStreakReachesFactorAtMaxStreak(t *testing.T) {
	s := NewStack()
	s.Grant(Spicy)

	assert.Equal(t, 1.0, s.Multiplier(pak.AxisBatting), "streak starts below max")

	for i := 0; i < SpicyMaxStreak; i++ {
		s.ApplyHit()
	}
	assert.Equal(t, SpicyMaxStreak, s.SpicyStreak)
	assert.Equal(t, SpicyFactor, s.Multiplier(pak.AxisBatting))
}

func TestSpicyStreakResetsOnNonHit(t *testing.T) {
	s := NewStack()
	s.Grant(Spicy)
	for i := 0; i < SpicyMaxStreak; i++ {
		s.ApplyHit()
	}
	s.ResetSpicy()
	assert.Equal(t, 1, s.SpicyStreak)
	assert.Equal(t, 1.0, s.Multiplier(pak.AxisBatting))
}

func TestSpicyStreakCapsAtMax(t *testing.T) {
	s := NewStack()
	s.Grant(Spicy)
	for i := 0; i < SpicyMaxStreak+10; i++ {
		s.ApplyHit()
	}
	assert.Equal(t, SpicyMaxStreak, s.SpicyStreak)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStack()
	s.Grant(Homebody)
	s.Preload(Context{IsHome: true})

	clone := s.Clone()
	clone.Levels[Homebody] = LevelInactive

	assert.Equal(t, LevelActive, s.Levels[Homebody], "mutating the clone must not affect the original")
}

func TestOverPerformingIsOneWayLatch(t *testing.T) {
	s := NewStack()
	s.Grant(OverPerforming)
	s.Levels[OverPerforming] = LevelActive

	s.Reevaluate(Context{})
	assert.Equal(t, LevelActive, s.Levels[OverPerforming], "once active, OVER_PERFORMING never turns back off via Reevaluate")
}

func TestTeamAdditiveCrowsAppliesOnlyUnderBird(t *testing.T) {
	notBird := TeamAdditive(Crows, pak.AxisBatting, TeamContext{Weather: weather.Coffee})
	assert.Equal(t, 1.0, notBird)

	underBird := TeamAdditive(Crows, pak.AxisBatting, TeamContext{Weather: weather.Bird})
	assert.Equal(t, 1.5, underBird)

	defenseUnderBird := TeamAdditive(Crows, pak.AxisDefense, TeamContext{Weather: weather.Bird})
	assert.Equal(t, 1.0, defenseUnderBird, "Crows only scales batting and pitching")
}

func TestTeamAdditiveGrowthClampsAtDay99(t *testing.T) {
	at99 := TeamAdditive(Growth, pak.AxisBatting, TeamContext{Day: 99})
	beyond := TeamAdditive(Growth, pak.AxisBatting, TeamContext{Day: 500})
	assert.Equal(t, at99, beyond, "Growth's day contribution clamps at day 99")
}

func TestPitchEventValidForSeason(t *testing.T) {
	end := 10
	e := PitchEvent{Kind: Charm, StartSeason: 5, EndSeason: &end}

	assert.False(t, e.ValidForSeason(4))
	assert.True(t, e.ValidForSeason(5))
	assert.True(t, e.ValidForSeason(10))
	assert.False(t, e.ValidForSeason(11))

	openEnded := PitchEvent{Kind: Zap, StartSeason: 5}
	assert.True(t, openEnded.ValidForSeason(1000))
}

func TestEveryNamedKindHasATableEntry(t *testing.T) {
	for k := range kindNames {
		_, present := Table[k]
		assert.True(t, present, "every named Kind must have a Table entry, even if its Semantics is empty")
	}
}

func TestTripleALatchSurvivesReevaluationOnceLit(t *testing.T) {
	s := NewStack()
	s.Grant(TripleA)
	assert.Equal(t, 1.0, s.Multiplier(pak.AxisBatting))

	s.Levels[TripleA] = LevelActive
	s.Reevaluate(Context{TeamScore: 12})
	assert.Equal(t, 1.2, s.Multiplier(pak.AxisPitching), "AAA stays lit for the rest of the game once triggered")

	s.Preload(Context{})
	assert.Equal(t, 1.0, s.Multiplier(pak.AxisBatting), "the next iteration's preload clears the latch")
}

func TestCoffeeRallyIsSingleUseUntilPreload(t *testing.T) {
	s := NewStack()
	s.Grant(CoffeeRally)

	assert.True(t, s.TryCoffeeRally())
	assert.False(t, s.TryCoffeeRally(), "the refill only fires once per game")

	s.Preload(Context{})
	assert.True(t, s.TryCoffeeRally(), "a new iteration's preload restores the refill")
}

func TestTryCoffeeRallyRequiresTheBuff(t *testing.T) {
	s := NewStack()
	assert.False(t, s.TryCoffeeRally())
}

func TestSuperYummyActivatesUnderPeanutMister(t *testing.T) {
	s := NewStack()
	s.Grant(SuperYummy)
	s.Preload(Context{})
	s.Reevaluate(Context{Stadium: stadium.Descriptor{}})
	assert.Equal(t, 1.0, s.Multiplier(pak.AxisBatting), "no peanut weather or mister means inactive")

	s.Reevaluate(Context{Weather: weather.Peanuts})
	assert.Equal(t, 1.2, s.Multiplier(pak.AxisBatting))
}
