// Package pak defines the fixed-layout player attribute struct ("stlats")
// and the blood type enum shared by every team/game state.
package pak

import "math"

// Axis identifies one of the four ability axes the modifier stack tracks
// a multiplier for.
type Axis int

const (
	AxisBatting Axis = iota
	AxisPitching
	AxisDefense
	AxisBaseRunning
	numAxes
)

// PAK is the fixed-layout struct of the 26 named stlats, partitioned into
// four axes plus two cross-cutting attributes and one derived scalar.
// A struct of named fields is used instead of a map keyed by an enum so the
// hot pitch loop never pays for a map lookup.
type PAK struct {
	// batting
	Buoyancy      float64 `json:"buoyancy"`
	Divinity      float64 `json:"divinity"`
	Martyrdom     float64 `json:"martyrdom"`
	Moxie         float64 `json:"moxie"`
	Musclitude    float64 `json:"musclitude"`
	Patheticism   float64 `json:"patheticism"`
	Thwackability float64 `json:"thwackability"`
	Tragicness    float64 `json:"tragicness"`

	// base-running
	BaseThirst     float64 `json:"baseThirst"`
	Continuation   float64 `json:"continuation"`
	GroundFriction float64 `json:"groundFriction"`
	Indulgence     float64 `json:"indulgence"`
	Laserlikeness  float64 `json:"laserlikeness"`

	// defense
	Anticapitalism float64 `json:"anticapitalism"`
	Chasiness      float64 `json:"chasiness"`
	Omniscience    float64 `json:"omniscience"`
	Tenaciousness  float64 `json:"tenaciousness"`
	Watchfulness   float64 `json:"watchfulness"`

	// pitching
	Coldness         float64 `json:"coldness"`
	Overpowerment    float64 `json:"overpowerment"`
	Ruthlessness     float64 `json:"ruthlessness"`
	Shakespearianism float64 `json:"shakespearianism"`
	Suppression      float64 `json:"suppression"`
	Unthwackability  float64 `json:"unthwackability"`

	// cross-cutting
	Pressurization float64 `json:"pressurization"`
	Cinnamon       float64 `json:"cinnamon"`
}

// PatheticismFloor is the minimum value patheticism may take after modifier
// multiplication; patheticism is polarity-inverted so larger multipliers
// should decrease it rather than increase it.
const PatheticismFloor = 0.001

// Batting returns the eight batting stlats in a fixed order, with
// patheticism floor-clamped.
func (p PAK) Batting() [8]float64 {
	return [8]float64{
		p.Buoyancy, p.Divinity, p.Martyrdom, p.Moxie,
		p.Musclitude, math.Max(p.Patheticism, PatheticismFloor),
		p.Thwackability, p.Tragicness,
	}
}

// BaseRunning returns the five base-running stlats in a fixed order.
func (p PAK) BaseRunning() [5]float64 {
	return [5]float64{p.BaseThirst, p.Continuation, p.GroundFriction, p.Indulgence, p.Laserlikeness}
}

// Defense returns the five defensive stlats in a fixed order.
func (p PAK) Defense() [5]float64 {
	return [5]float64{p.Anticapitalism, p.Chasiness, p.Omniscience, p.Tenaciousness, p.Watchfulness}
}

// Pitching returns the six pitching stlats in a fixed order.
func (p PAK) Pitching() [6]float64 {
	return [6]float64{p.Coldness, p.Overpowerment, p.Ruthlessness, p.Shakespearianism, p.Suppression, p.Unthwackability}
}

// ApplyPatheticismFloor clamps patheticism in place after a multiplier has
// been applied to it: patheticism is polarity-inverted, so larger
// multipliers decrease it, and it must never reach zero or go negative.
func (p *PAK) ApplyPatheticismFloor() {
	if p.Patheticism < PatheticismFloor {
		p.Patheticism = PatheticismFloor
	}
}

// GhostLine is the canned "ghost" stlat line substituted for a HAUNTED
// batter's own stlats with probability HauntedTriggerPercentage.
var GhostLine = PAK{
	Buoyancy:      0.559787783987762,
	Divinity:      0.570097776382661,
	Martyrdom:     0.508264944828862,
	Moxie:         0.577773191383754,
	Musclitude:    0.577806588381654,
	Patheticism:   0.452339544249637,
	Thwackability: 0.530712895674562,
	Tragicness:    0.122325342550838,

	BaseThirst:     0.508194992127536,
	Continuation:   0.537462942049345,
	GroundFriction: 0.510335664849534,
	Indulgence:     0.525962074376915,
	Laserlikeness:  0.527553677977796,

	Coldness:         0.532376289658451,
	Overpowerment:    0.493760180878268,
	Ruthlessness:     0.470901690616592,
	Shakespearianism: 0.519076849689088,
	Suppression:      0.495819480037563,
	Unthwackability:  0.451664863064749,

	Pressurization: 0.508219154865181,
	Cinnamon:       0.5563565768,
}

// HauntedTriggerPercentage is the probability that a HAUNTED batter's
// vector is built from GhostLine instead of their own stlats.
const HauntedTriggerPercentage = 0.7

// sinusoidPeriod clamps a buoyancy-derived oscillation period to a
// [4, 50]-day band so vibes neither flatlines nor spins too fast.
func sinusoidPeriod(buoyancy float64) float64 {
	period := 4 + 46*clamp01(buoyancy)
	return period
}

// sinusoidPhase maps pressurization linearly into a phase offset in
// [0, 2*pi].
func sinusoidPhase(pressurization float64) float64 {
	return 2 * math.Pi * clamp01(pressurization)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vibes computes the derived scalar appended to every feature vector: a
// site-specific sinusoid in day. This is a concrete, deterministic closed
// form chosen so the same (pressurization, cinnamon, buoyancy, day) always
// reproduces the same value for training and inference.
func Vibes(pressurization, cinnamon, buoyancy float64, day int) float64 {
	period := sinusoidPeriod(buoyancy)
	phase := sinusoidPhase(pressurization)
	angle := 2*math.Pi*float64(day)/period + phase
	return 0.5*math.Sin(angle) + 0.5*cinnamon - 0.5
}

// BloodType is the closed set of player blood tags gating certain buffs.
type BloodType int

const (
	BloodUnknown BloodType = iota
	BloodA
	BloodAA
	BloodAAA
	BloodAcid
	BloodBase
	BloodElectric
	BloodWater
	BloodFire
	BloodGrass
	BloodH2O
	BloodLove
	BloodO
	BloodONo
	BloodPsychic
)

var bloodNames = map[BloodType]string{
	BloodA: "A", BloodAA: "AA", BloodAAA: "AAA", BloodAcid: "ACID",
	BloodBase: "BASE", BloodElectric: "ELECTRIC", BloodWater: "WATER",
	BloodFire: "FIRE", BloodGrass: "GRASS", BloodH2O: "H2O", BloodLove: "LOVE",
	BloodO: "O", BloodONo: "O_NO", BloodPsychic: "PSYCHIC",
}

var bloodByName = func() map[string]BloodType {
	m := make(map[string]BloodType, len(bloodNames))
	for k, v := range bloodNames {
		m[v] = k
	}
	return m
}()

func (b BloodType) String() string {
	if s, ok := bloodNames[b]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseBloodType resolves the blood name string into a BloodType, failing
// with ok=false on anything else.
func ParseBloodType(name string) (BloodType, bool) {
	b, ok := bloodByName[name]
	return b, ok
}

// bloodByLegacyID maps the numeric blood ids older snapshots carry; the
// ids are not in declaration order and H2O never had one.
var bloodByLegacyID = map[int]BloodType{
	0: BloodA, 1: BloodAAA, 2: BloodAA, 3: BloodAcid, 4: BloodBase,
	5: BloodO, 6: BloodONo, 7: BloodWater, 8: BloodElectric, 9: BloodLove,
	10: BloodFire, 11: BloodPsychic, 12: BloodGrass,
}

// BloodFromLegacyID resolves a legacy numeric blood id.
func BloodFromLegacyID(id int) (BloodType, bool) {
	b, ok := bloodByLegacyID[id]
	return b, ok
}
