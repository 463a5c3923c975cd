package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRunsRoundsToNearestTenth(t *testing.T) {
	assert.Equal(t, Score(15), FromRuns(1.5))
	assert.Equal(t, Score(33), FromRuns(3.26))
	assert.Equal(t, Score(0), FromRuns(0))
}

func TestRunsIsTheInverseOfFromRuns(t *testing.T) {
	s := FromRuns(4.7)
	assert.InDelta(t, 4.7, s.Runs(), 1e-9)
}

func TestMulTenthsScalesExactly(t *testing.T) {
	assert.Equal(t, Score(15), OneRun.MulTenths(15)) // x1.5
	assert.Equal(t, Score(9), OneRun.MulTenths(9))    // x0.9
}

func TestCrossesTenDetectsRollover(t *testing.T) {
	after, crossed := crossesTen(95, 10)
	assert.True(t, crossed)
	assert.Equal(t, Score(105), after)

	after, crossed = crossesTen(50, 10)
	assert.False(t, crossed)
	assert.Equal(t, Score(60), after)
}

func TestCrossesTenNotTriggeredWhenAlreadyPast(t *testing.T) {
	_, crossed := crossesTen(110, 5)
	assert.False(t, crossed, "a total already at/past 10.0 before the delta must not re-trigger the rollover")
}
