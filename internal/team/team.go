// Package team implements the Team state component: lineup and rotation
// ownership, per-player stlats/buffs/blood/stats, the team-wide additive,
// and the four feature-vector builder projections.
package team

import (
	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/rng"
	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/stadium"
	"github.com/baseball-sim/sim-core/internal/stats"
	"github.com/baseball-sim/sim-core/internal/weather"
)

// MaxRotationRetries bounds pitcher-substitution search before the
// rotation is declared exhausted.
const MaxRotationRetries = 50

// DefenseID is the synthetic player id used for whole-team defensive
// counters that don't belong to a single fielder (stolen base defense
// stats).
const DefenseID = "__defense__"

// State is one team's full in-game state.
type State struct {
	TeamID   string
	TeamName string

	Lineup  []string // ordered bijection position -> batter player id
	Rotation []string // position -> pitcher player id

	CurBatterPos  int
	CurPitcherPos int

	Stlats map[string]pak.PAK
	Buffs  map[string]*buff.Stack
	Blood  map[string]pak.BloodType
	Names  map[string]string

	Stats *stats.Sink

	// team-wide additive: a single per-team multiplier layered on top of
	// per-player multipliers, one entry per additive kind the team carries.
	Additives map[buff.TeamAdditiveKind]bool

	Season int
	Day    int
	IsHome bool

	Weather       weather.Code
	Stadium       stadium.Descriptor
	RunnersAboard bool

	NumBases         int
	BallsForWalk     int
	StrikesForOut    int
	InitialBallsForWalk  int
	InitialStrikesForOut int

	PitchEvent    *buff.PitchEvent
	SeasonalRules []buff.SeasonalRule

	// InPeakWindow gates the PEAK_SEASON team additive; ApplyTraits sets it
	// from the team's (season, day) window in the peakWindowByTag table.
	InPeakWindow bool
}

// New builds a team state with default 4-base, 4-ball-walk, 3-strike-out
// rules.
func New(teamID, teamName string) *State {
	return &State{
		TeamID: teamID, TeamName: teamName,
		Stlats: map[string]pak.PAK{}, Buffs: map[string]*buff.Stack{},
		Blood: map[string]pak.BloodType{}, Names: map[string]string{},
		Stats:                stats.NewSink(),
		Additives:            map[buff.TeamAdditiveKind]bool{},
		NumBases:             4,
		InitialBallsForWalk:  4,
		InitialStrikesForOut: 3,
	}
}

// Clone returns a deep copy of the team state sharing no mutable map or
// buff stack with the receiver: every worker in the iteration driver owns
// exactly one such clone per matchup side. Stats is
// reset to a fresh empty sink since segmented/game counters belong to
// whichever worker accumulates them, not the template a day's roster load
// builds once.
func (t *State) Clone() *State {
	clone := *t
	clone.Lineup = append([]string(nil), t.Lineup...)
	clone.Rotation = append([]string(nil), t.Rotation...)

	clone.Stlats = make(map[string]pak.PAK, len(t.Stlats))
	for k, v := range t.Stlats {
		clone.Stlats[k] = v
	}
	clone.Buffs = make(map[string]*buff.Stack, len(t.Buffs))
	for k, v := range t.Buffs {
		clone.Buffs[k] = v.Clone()
	}
	clone.Blood = make(map[string]pak.BloodType, len(t.Blood))
	for k, v := range t.Blood {
		clone.Blood[k] = v
	}
	clone.Names = make(map[string]string, len(t.Names))
	for k, v := range t.Names {
		clone.Names[k] = v
	}
	clone.Additives = make(map[buff.TeamAdditiveKind]bool, len(t.Additives))
	for k, v := range t.Additives {
		clone.Additives[k] = v
	}
	clone.SeasonalRules = append([]buff.SeasonalRule(nil), t.SeasonalRules...)
	clone.Stats = stats.NewSink()
	return &clone
}

// CurBatter returns the player id currently at bat.
func (t *State) CurBatter() string {
	if len(t.Lineup) == 0 {
		return ""
	}
	return t.Lineup[t.CurBatterPos%len(t.Lineup)]
}

// CurPitcher returns the player id currently pitching.
func (t *State) CurPitcher() string {
	if len(t.Rotation) == 0 {
		return ""
	}
	return t.Rotation[t.CurPitcherPos%len(t.Rotation)]
}

// BatterAvailable reports whether a player is eligible to take a plate
// appearance. A roster snapshot only lists SHELLED/ELSEWHERE on players
// those states currently apply to, so carrying either at all means
// unavailable; keying on presence rather than activation level also keeps
// the gate stable across per-iteration preloads.
func (t *State) BatterAvailable(playerID string) bool {
	stack := t.Buffs[playerID]
	if stack == nil {
		return true
	}
	return !stack.Present[buff.Shelled] && !stack.Present[buff.Elsewhere]
}

// EnsureAvailableBatter skips past a SHELLED or ELSEWHERE batter at the
// current lineup position until an available one is up. The skip never
// counts as a plate appearance.
func (t *State) EnsureAvailableBatter() {
	for i := 0; i < len(t.Lineup) && !t.BatterAvailable(t.CurBatter()); i++ {
		t.CurBatterPos = (t.CurBatterPos + 1) % len(t.Lineup)
	}
}

// NextBatter advances past the current batter to the next available one.
// Skipping an unavailable batter does not count as a plate appearance.
func (t *State) NextBatter() {
	if len(t.Lineup) == 0 {
		return
	}
	t.CurBatterPos = (t.CurBatterPos + 1) % len(t.Lineup)
	for i := 0; i < len(t.Lineup) && !t.BatterAvailable(t.CurBatter()); i++ {
		t.CurBatterPos = (t.CurBatterPos + 1) % len(t.Lineup)
	}
}

// UpdateStartingPitcher advances the rotation cyclically until an
// available pitcher is found, failing with a ConfigError after
// MaxRotationRetries attempts.
func (t *State) UpdateStartingPitcher() error {
	if len(t.Rotation) == 0 {
		return simerr.NewConfigError("team %s has an empty rotation", t.TeamID)
	}
	for attempt := 0; attempt < MaxRotationRetries; attempt++ {
		candidate := t.CurPitcher()
		if t.BatterAvailable(candidate) { // same SHELLED/ELSEWHERE availability rule
			return nil
		}
		t.CurPitcherPos = (t.CurPitcherPos + 1) % len(t.Rotation)
	}
	return simerr.NewConfigError("team %s rotation exhausted after %d attempts", t.TeamID, MaxRotationRetries)
}

// UpdateStat records one statistic for a player in both the per-game and
// per-day-segmented counters.
func (t *State) UpdateStat(playerID string, stat stats.Stat, amt float64) {
	t.Stats.Update(t.Day, playerID, stat, amt)
}

// OutsForInning is the fixed three-outs-per-half-inning rule; kept as a
// method (rather than a bare constant) so a future seasonal rule can
// override it the way FOURTH_STRIKE overrides StrikesForOut.
func (t *State) OutsForInning() int {
	return 3
}

// ApplyHitFor advances playerID's SPICY streak on a hit.
func (t *State) ApplyHitFor(playerID string) {
	if stack := t.Buffs[playerID]; stack != nil {
		stack.ApplyHit()
	}
}

// ResetSpicyFor resets playerID's SPICY streak on any non-hit outcome.
func (t *State) ResetSpicyFor(playerID string) {
	if stack := t.Buffs[playerID]; stack != nil {
		stack.ResetSpicy()
	}
}

// ApplySeasonalRules mutates BallsForWalk/StrikesForOut per any active
// seasonal rule changes, applied on every team reset.
func (t *State) ApplySeasonalRules() {
	t.BallsForWalk = t.InitialBallsForWalk
	t.StrikesForOut = t.InitialStrikesForOut
	for _, rule := range t.SeasonalRules {
		switch rule {
		case buff.FourthStrike:
			t.StrikesForOut = 4
		case buff.WalkInThePark:
			t.BallsForWalk = 3
		}
	}
}

// Reset restores the team to the start of a fresh iteration: zeroes
// per-game stat counters (if gameStatsReset), resets batter position to
// the top of the lineup, reapplies seasonal rule changes, revalidates the
// starting pitcher, and restores the modifier stack to its preloaded
// state.
func (t *State) Reset(gameStatsReset bool) error {
	t.CurBatterPos = 0
	t.CurPitcherPos = 0
	t.ApplySeasonalRules()
	if err := t.UpdateStartingPitcher(); err != nil {
		return err
	}
	if gameStatsReset {
		t.Stats.ResetGame()
	}
	t.preloadBuffs()
	return nil
}

func (t *State) buffContext() buff.Context {
	return buff.Context{
		Weather: t.Weather, Stadium: t.Stadium, IsHome: t.IsHome,
		RunnersAboard: t.RunnersAboard, TeamScore: 0,
	}
}

func (t *State) preloadBuffs() {
	ctx := t.buffContext()
	for _, stack := range t.Buffs {
		stack.Preload(ctx)
	}
}

// ReevaluateBuffs re-runs every player's dynamic buff evaluation at a
// boundary point during play. score is the team's current score as
// a float view of the fixed-point total.
func (t *State) ReevaluateBuffs(score float64) {
	ctx := buff.Context{
		Weather: t.Weather, Stadium: t.Stadium, IsHome: t.IsHome,
		RunnersAboard: t.RunnersAboard, TeamScore: score,
	}
	for _, stack := range t.Buffs {
		stack.Reevaluate(ctx)
	}
}

// teamAdditive recomputes the team-wide additive for axis by folding over
// every additive kind this team currently carries.
func (t *State) teamAdditive(axis pak.Axis, day int) float64 {
	ctx := buff.TeamContext{
		Weather: t.Weather, RunnersAboard: t.RunnersAboard, IsAway: !t.IsHome,
		Day: day, RosterSize: len(t.Rotation) + len(t.Lineup),
		InPeakWindow: t.InPeakWindow,
	}
	product := 1.0
	for kind, on := range t.Additives {
		if !on {
			continue
		}
		product *= buff.TeamAdditive(kind, axis, ctx)
	}
	return product
}

// BatterFeatureVector builds the batter feature projection: the eight
// batting stlats (patheticism floor-clamped and polarity-inverted), then
// the five base-running stlats, then a vibes scalar, each group
// multiplied by the player's corresponding axis multiplier and the
// team-wide additive for that axis. When useGhostLine is true the
// batter's own stlats are replaced wholesale by pak.GhostLine before
// projection.
func (t *State) BatterFeatureVector(playerID string, useGhostLine bool) []float64 {
	p := t.Stlats[playerID]
	if useGhostLine {
		p = pak.GhostLine
	}
	stack := t.Buffs[playerID]
	battingFactor := t.teamAdditive(pak.AxisBatting, t.Day)
	baseRunFactor := t.teamAdditive(pak.AxisBaseRunning, t.Day)
	if stack != nil {
		battingFactor *= stack.Multiplier(pak.AxisBatting)
		baseRunFactor *= stack.Multiplier(pak.AxisBaseRunning)
	}

	batting := p.Batting()
	out := make([]float64, 0, 8+5+1)
	for i, v := range batting {
		const patheticismIdx = 5 // index within Batting()'s fixed order
		if i == patheticismIdx {
			scaled := v
			if battingFactor != 0 {
				scaled = v / battingFactor
			}
			if scaled < pak.PatheticismFloor {
				scaled = pak.PatheticismFloor
			}
			out = append(out, scaled)
			continue
		}
		out = append(out, v*battingFactor)
	}
	for _, v := range p.BaseRunning() {
		out = append(out, v*baseRunFactor)
	}
	out = append(out, pak.Vibes(p.Pressurization, p.Cinnamon, p.Buoyancy, t.Day))
	return out
}

// PitcherFeatureVector builds the pitching projection: six pitching
// stlats times the pitcher's pitching multiplier and the team-wide
// pitching additive, plus vibes.
func (t *State) PitcherFeatureVector(playerID string) []float64 {
	p := t.Stlats[playerID]
	factor := t.teamAdditive(pak.AxisPitching, t.Day)
	if stack := t.Buffs[playerID]; stack != nil {
		factor *= stack.Multiplier(pak.AxisPitching)
	}
	pitching := p.Pitching()
	out := make([]float64, 0, len(pitching)+1)
	for _, v := range pitching {
		out = append(out, v*factor)
	}
	out = append(out, pak.Vibes(p.Pressurization, p.Cinnamon, p.Buoyancy, t.Day))
	return out
}

// DefenseFeatureVector builds the arithmetic mean across the lineup of
// each defensive stlat (post-multiplier), plus mean pressurization, mean
// cinnamon and mean vibes. Must be recomputed whenever the lineup
// or any defender's multiplier changes; callers rebuild it at every
// boundary point rather than caching it.
func (t *State) DefenseFeatureVector() []float64 {
	n := len(t.Lineup)
	if n == 0 {
		return make([]float64, 8)
	}
	var sums [5]float64
	var pressSum, cinnSum, vibesSum float64
	for _, playerID := range t.Lineup {
		p := t.Stlats[playerID]
		factor := t.teamAdditive(pak.AxisDefense, t.Day)
		if stack := t.Buffs[playerID]; stack != nil {
			factor *= stack.Multiplier(pak.AxisDefense)
		}
		defense := p.Defense()
		for i, v := range defense {
			sums[i] += v * factor
		}
		pressSum += p.Pressurization
		cinnSum += p.Cinnamon
		vibesSum += pak.Vibes(p.Pressurization, p.Cinnamon, p.Buoyancy, t.Day)
	}
	out := make([]float64, 0, 8)
	for _, s := range sums {
		out = append(out, s/float64(n))
	}
	out = append(out, pressSum/float64(n), cinnSum/float64(n), vibesSum/float64(n))
	return out
}

// RunnerFeatureVector builds the base-running projection for a specific
// base runner: the five base-running stlats post-multiplier, plus vibes.
func (t *State) RunnerFeatureVector(playerID string) []float64 {
	p := t.Stlats[playerID]
	factor := t.teamAdditive(pak.AxisBaseRunning, t.Day)
	if stack := t.Buffs[playerID]; stack != nil {
		factor *= stack.Multiplier(pak.AxisBaseRunning)
	}
	baseRunning := p.BaseRunning()
	out := make([]float64, 0, len(baseRunning)+1)
	for _, v := range baseRunning {
		out = append(out, v*factor)
	}
	out = append(out, pak.Vibes(p.Pressurization, p.Cinnamon, p.Buoyancy, t.Day))
	return out
}

// RollGhostLine reports whether a HAUNTED batter's vector should be built
// from the ghost stlat line this at-bat, per a fixed trigger probability.
func RollGhostLine(stack *buff.Stack, source *rng.Source) bool {
	if stack == nil || !stack.Present[buff.Haunted] {
		return false
	}
	return source.Float64() < pak.HauntedTriggerPercentage
}
