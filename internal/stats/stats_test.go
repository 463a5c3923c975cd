package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateIncrementsGameAndSegmented(t *testing.T) {
	s := NewSink()
	s.Update(3, "p1", BatterHits, 1)
	s.Update(3, "p1", BatterHits, 2)

	assert.Equal(t, 3.0, s.Game["p1"].Get(BatterHits))
	assert.Equal(t, 3.0, s.Segmented[3]["p1"].Get(BatterHits))
}

func TestResetGameLeavesSegmentedIntact(t *testing.T) {
	s := NewSink()
	s.Update(1, "p1", BatterHits, 5)
	s.ResetGame()

	assert.Equal(t, 0.0, s.Game["p1"].Get(BatterHits), "ResetGame zeroes the per-game counters")
	assert.Equal(t, 5.0, s.Segmented[1]["p1"].Get(BatterHits), "segmented history survives a game reset")
}

func TestMergeAddsCountersAdditively(t *testing.T) {
	a := NewSink()
	a.Update(0, "p1", BatterHits, 1)

	b := NewSink()
	b.Update(0, "p1", BatterHits, 2)
	b.Update(0, "p2", BatterHits, 7)

	a.Merge(b)
	assert.Equal(t, 3.0, a.Game["p1"].Get(BatterHits))
	assert.Equal(t, 7.0, a.Game["p2"].Get(BatterHits))
	assert.Equal(t, 3.0, a.Segmented[0]["p1"].Get(BatterHits))
}

func TestMergeNilIsANoop(t *testing.T) {
	a := NewSink()
	a.Update(0, "p1", BatterHits, 1)
	a.Merge(nil)
	assert.Equal(t, 1.0, a.Game["p1"].Get(BatterHits))
}

func TestDivideSegmentedAveragesPerIteration(t *testing.T) {
	s := NewSink()
	for i := 0; i < 4; i++ {
		s.Update(2, "p1", BatterHits, 1)
	}
	s.DivideSegmented(2, 4)
	assert.Equal(t, 1.0, s.Segmented[2]["p1"].Get(BatterHits))
}

func TestDivideSegmentedIgnoresOutOfRangeDay(t *testing.T) {
	s := NewSink()
	s.Update(0, "p1", BatterHits, 4)
	s.DivideSegmented(99, 4) // day 99 was never touched; must not panic or create entries
	assert.Equal(t, 4.0, s.Segmented[0]["p1"].Get(BatterHits))
}

func TestCountersResetZeroesEverything(t *testing.T) {
	var c Counters
	c.Add(BatterHits, 3)
	c.Add(PitcherWins, 1)
	c.Reset()
	assert.Equal(t, 0.0, c.Get(BatterHits))
	assert.Equal(t, 0.0, c.Get(PitcherWins))
}
