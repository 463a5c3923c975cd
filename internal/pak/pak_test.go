package pak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVibesDeterministic(t *testing.T) {
	a := Vibes(0.4, 0.6, 0.3, 12)
	b := Vibes(0.4, 0.6, 0.3, 12)
	assert.Equal(t, a, b, "Vibes must be a pure function of its inputs")
}

func TestVibesVariesByDay(t *testing.T) {
	early := Vibes(0.4, 0.6, 0.3, 1)
	later := Vibes(0.4, 0.6, 0.3, 40)
	assert.NotEqual(t, early, later, "Vibes should move across the season for a fixed stlat line")
}

func TestBattingAppliesPatheticismFloor(t *testing.T) {
	p := PAK{Patheticism: -5}
	batting := p.Batting()
	assert.Equal(t, PatheticismFloor, batting[5], "patheticism is the 6th entry in Batting()'s fixed order")
}

func TestApplyPatheticismFloorClampsInPlace(t *testing.T) {
	p := &PAK{Patheticism: 0.0001}
	p.ApplyPatheticismFloor()
	assert.Equal(t, PatheticismFloor, p.Patheticism)

	p2 := &PAK{Patheticism: 5.0}
	p2.ApplyPatheticismFloor()
	assert.Equal(t, 5.0, p2.Patheticism, "floor must not clamp values already above it")
}

func TestBloodTypeStringAndParseRoundTrip(t *testing.T) {
	tests := []BloodType{BloodA, BloodAA, BloodFire, BloodPsychic, BloodONo}
	for _, bt := range tests {
		name := bt.String()
		parsed, ok := ParseBloodType(name)
		assert.True(t, ok, "ParseBloodType should resolve %s", name)
		assert.Equal(t, bt, parsed)
	}
}

func TestParseBloodTypeUnknown(t *testing.T) {
	_, ok := ParseBloodType("NOT_A_BLOOD_TYPE")
	assert.False(t, ok)
}

func TestBloodTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", BloodType(999).String())
}

func TestGhostLineIsFullyPopulated(t *testing.T) {
	g := GhostLine
	for i, v := range g.Batting() {
		assert.NotZero(t, v, "GhostLine batting stlat %d should be nonzero", i)
	}
}
