package game

import (
	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/stadium"
	"github.com/baseball-sim/sim-core/internal/stats"
	"github.com/baseball-sim/sim-core/internal/team"
	"github.com/baseball-sim/sim-core/internal/weather"
)

// addRuns adds delta to the batting team's score, handling the Sun2/Black
// Hole rollover the instant the score crosses 10.0.
func (g *State) addRuns(delta Score) {
	batting := g.battingTeam()
	before := g.scoreOf(batting)
	after, crossed := crossesTen(before, delta)
	g.setScoreOf(batting, after)
	if !crossed {
		return
	}
	switch batting.Weather {
	case weather.Sun2:
		g.setScoreOf(batting, after-100)
		batting.UpdateStat(team.DefenseID, stats.TeamSun2Wins, 1.0)
	case weather.Blackhole:
		g.setScoreOf(batting, after-100)
		g.pitchingTeam().UpdateStat(team.DefenseID, stats.TeamBlackHoleConsumption, 1.0)
	}
}

func (g *State) scoreOf(t *team.State) Score {
	if t == g.Away {
		return g.AwayScore
	}
	return g.HomeScore
}

func (g *State) setScoreOf(t *team.State, s Score) {
	if t == g.Away {
		g.AwayScore = s
	} else {
		g.HomeScore = s
	}
}

// runValue computes the modifier-adjusted value of one run scored by
// runnerID against the current pitcher, applying the scoring modifiers. Forced
// walks never apply the BLASERUNNING bonus.
func (g *State) runValue(runnerID string, viaForcedWalk bool) Score {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	value := OneRun

	if stack := batting.Buffs[runnerID]; stack != nil {
		if batting.Weather.IsCoffeeFamily() {
			if stack.Present[buff.Wired] {
				value = value.MulTenths(15)
			}
			if stack.Present[buff.Tired] {
				value = value.MulTenths(5)
			}
		}
		if !viaForcedWalk && stack.Present[buff.Blaserunning] {
			value += 2 // +0.2 bonus
		}
	}
	if pitching.Blood[pitching.CurPitcher()] == pak.BloodAcid {
		value = value.MulTenths(9)
	}
	return value
}

// scoreRunner removes the runner on base from play, crediting a run (and,
// unless noRBI, an RBI to the current batter and an earned run to the
// pitcher). Used for forced advances, hits, and walks; stolen-base scoring
// goes through scoreRunner with noRBI=true, since a steal of home credits
// only the pitcher's earned run, not an RBI.
func (g *State) scoreRunner(base int, viaForcedWalk, noRBI bool) {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	runnerID := g.BaseRunners[base]
	delete(g.BaseRunners, base)
	value := g.runValue(runnerID, viaForcedWalk)
	g.addRuns(value)
	batting.UpdateStat(runnerID, stats.BatterRunsScored, 1.0)
	if !noRBI {
		batting.UpdateStat(batting.CurBatter(), stats.BatterRBIs, 1.0)
	}
	pitching.UpdateStat(pitching.CurPitcher(), stats.PitcherEarnedRuns, 1.0)
	g.logEvent("Runner %s scores.", runnerID)
	g.reevaluateDynamicBuffs()
}

// advanceRunnerOneBase moves the occupant of base forward by one,
// scoring them if that pushes them to or past num_bases. viaForcedWalk
// marks a run scored by a walk's forced advancement, which never earns
// the BLASERUNNING bonus.
func (g *State) advanceRunnerOneBase(base int, viaForcedWalk bool) {
	if base >= g.numBases()-1 {
		g.scoreRunner(base, viaForcedWalk, false)
		return
	}
	runnerID := g.BaseRunners[base]
	delete(g.BaseRunners, base)
	g.BaseRunners[base+1] = runnerID
}

// forceChainFrom pushes the contiguous run of occupied bases starting at
// start forward by one base each, processed in descending order. Only a
// runner within the unbroken chain beginning at start is forced; a gap
// stops the cascade, since a walk forces runners forward only where
// forced.
func (g *State) forceChainFrom(start int) {
	end := start - 1
	for b := start; b < g.numBases(); b++ {
		if _, ok := g.BaseRunners[b]; ok {
			end = b
		} else {
			break
		}
	}
	for b := end; b >= start; b-- {
		g.advanceRunnerOneBase(b, true)
	}
}

// advanceAllRunners moves every currently occupied base forward by
// numBasesToAdvance, processed in descending order; used for hit
// resolution where every runner genuinely advances by the hit's base
// count, unlike a walk's forced-only advancement.
func (g *State) advanceAllRunners(numBasesToAdvance int) {
	bases := occupiedBasesDescending(g.BaseRunners)
	for _, b := range bases {
		if b >= g.numBases()-numBasesToAdvance {
			g.scoreRunner(b, false, false)
			continue
		}
		runnerID := g.BaseRunners[b]
		delete(g.BaseRunners, b)
		g.BaseRunners[b+numBasesToAdvance] = runnerID
	}
}

func occupiedBasesDescending(occupied map[int]string) []int {
	bases := make([]int, 0, len(occupied))
	for b := range occupied {
		bases = append(bases, b)
	}
	for i := 0; i < len(bases); i++ {
		for j := i + 1; j < len(bases); j++ {
			if bases[j] > bases[i] {
				bases[i], bases[j] = bases[j], bases[i]
			}
		}
	}
	return bases
}

// resolveWalk implements walk resolution, including the Base
// Instincts advance-2/advance-3 proc.
func (g *State) resolveWalk() error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	batterID := batting.CurBatter()

	advanceTo, err := g.resolveBaseInstincts()
	if err != nil {
		return err
	}
	switch advanceTo {
	case 3:
		for _, b := range []int{3, 2, 1} {
			if _, ok := g.BaseRunners[b]; ok {
				g.scoreRunner(b, true, false)
			}
		}
		g.BaseRunners[3] = batterID
	case 2:
		g.forceChainFrom(2)
		g.BaseRunners[2] = batterID
	default:
		g.forceChainFrom(1)
		g.BaseRunners[1] = batterID
	}

	pitching.UpdateStat(pitching.CurPitcher(), stats.PitcherWalks, 1.0)
	batting.UpdateStat(batterID, stats.BatterWalks, 1.0)
	batting.ResetSpicyFor(batterID)
	g.logEvent("Batter %s walks to base %d.", batterID, advanceTo)
	g.resetPitchCount()
	batting.NextBatter()
	g.reevaluateDynamicBuffs()
	return nil
}

// resolveBaseInstincts rolls the Base Instincts proc, returning which base the batter walks to.
func (g *State) resolveBaseInstincts() (int, error) {
	batting := g.battingTeam()
	event := batting.PitchEvent
	batterID := batting.CurBatter()
	if event == nil || event.Kind != buff.BaseInstincts || !bloodGateHolds(event, g.Season, batting, batterID) {
		return 1, nil
	}
	priors, ok := buff.BaseInstinctPriors[g.numBases()]
	if !ok {
		return 1, nil
	}
	roll := g.RNG.Float64()
	bases := make([]int, 0, len(priors))
	for b := range priors {
		bases = append(bases, b)
	}
	for i := 0; i < len(bases); i++ {
		for j := i + 1; j < len(bases); j++ {
			if bases[j] > bases[i] {
				bases[i], bases[j] = bases[j], bases[i]
			}
		}
	}
	total := 0.0
	for _, b := range bases {
		total += priors[b]
		if roll < total {
			return b, nil
		}
	}
	return 1, nil
}

// resolveStrikeout implements strikeout resolution, including the
// Coffee3 Triple Threat unrun.
func (g *State) resolveStrikeout() {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	batterID := batting.CurBatter()
	pitcherID := pitching.CurPitcher()

	g.logEvent("Batter %s strikes out.", batterID)
	pitching.UpdateStat(pitcherID, stats.PitcherStrikeouts, 1.0)
	batting.UpdateStat(batterID, stats.BatterStrikeouts, 1.0)
	g.Outs++
	g.maybeCoffeeRally(batterID)

	if stack := pitching.Buffs[pitcherID]; stack != nil && stack.Present[buff.TripleThreat] &&
		(pitching.Weather == weather.Coffee2 || pitching.Weather == weather.Coffee3) {
		conditions := 0
		if g.Balls == 3 {
			conditions++
		}
		if _, ok := g.BaseRunners[3]; ok {
			conditions++
		}
		if g.basesLoaded() {
			conditions++
		}
		if conditions > 0 {
			g.addRuns(Score(-3 * int64(conditions)))
		}
	}

	batting.ResetSpicyFor(batterID)
	g.resetPitchCount()
	batting.NextBatter()
	g.reevaluateDynamicBuffs()
}

// latchOnXBH flips a batter's AAA/AA latch to active on the extra-base
// hit that triggers it; the level stays up for the rest of the game.
func (g *State) latchOnXBH(batterID string, kind buff.Kind) {
	stack := g.battingTeam().Buffs[batterID]
	if stack == nil || !stack.Present[kind] {
		return
	}
	stack.Levels[kind] = buff.LevelActive
}

// maybeCoffeeRally consumes a batter's single-use COFFEE_RALLY refill,
// taking back the out just recorded against them. Only fires in a coffee
// weather family game, once per player per game.
func (g *State) maybeCoffeeRally(batterID string) {
	batting := g.battingTeam()
	if !batting.Weather.IsCoffeeFamily() || g.Outs == 0 {
		return
	}
	stack := batting.Buffs[batterID]
	if stack == nil || !stack.TryCoffeeRally() {
		return
	}
	g.Outs--
	g.logEvent("Batter %s downs a Free Refill. The out is refunded.", batterID)
}

func (g *State) basesLoaded() bool {
	for b := 1; b < g.numBases(); b++ {
		if _, ok := g.BaseRunners[b]; !ok {
			return false
		}
	}
	return true
}

// hitSim resolves an in-play hit: advance every runner by the hit's base
// count, attempt extra-base advancement on non-HR hits, then place the
// batter.
func (g *State) hitSim(featureVector []float64) error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	batterID := batting.CurBatter()
	pitcherID := pitching.CurPitcher()

	batting.UpdateStat(batterID, stats.BatterAtBats, 1.0)
	batting.UpdateStat(batterID, stats.BatterHits, 1.0)
	pitching.UpdateStat(pitcherID, stats.PitcherHitsAllowed, 1.0)

	hitType, err := g.Classifiers.Sample(classifier.HitType, featureVector, g.RNG)
	if err != nil {
		return err
	}

	switch hitType {
	case classifier.HitSingle:
		g.advanceAllRunners(1)
		batting.UpdateStat(batterID, stats.BatterSingles, 1.0)
		if err := g.attemptExtraBaseAdvancement(); err != nil {
			return err
		}
		g.BaseRunners[1] = batterID
		g.logEvent("Batter %s hits a single.", batterID)
	case classifier.HitDouble:
		g.advanceAllRunners(2)
		batting.UpdateStat(batterID, stats.BatterDoubles, 1.0)
		pitching.UpdateStat(pitcherID, stats.PitcherXBHAllowed, 1.0)
		if err := g.attemptExtraBaseAdvancement(); err != nil {
			return err
		}
		g.BaseRunners[2] = batterID
		g.latchOnXBH(batterID, buff.DoubleA)
		g.logEvent("Batter %s hits a double.", batterID)
	case classifier.HitTriple:
		g.advanceAllRunners(3)
		batting.UpdateStat(batterID, stats.BatterTriples, 1.0)
		pitching.UpdateStat(pitcherID, stats.PitcherXBHAllowed, 1.0)
		if err := g.attemptExtraBaseAdvancement(); err != nil {
			return err
		}
		g.BaseRunners[3] = batterID
		g.latchOnXBH(batterID, buff.TripleA)
		g.logEvent("Batter %s hits a triple.", batterID)
	case classifier.HitHomeRun:
		g.advanceAllRunners(g.numBases())
		batting.UpdateStat(batterID, stats.BatterHRs, 1.0)
		batting.UpdateStat(batterID, stats.BatterRBIs, 1.0)
		batting.UpdateStat(batterID, stats.BatterRunsScored, 1.0)
		pitching.UpdateStat(pitcherID, stats.PitcherHRsAllowed, 1.0)
		pitching.UpdateStat(pitcherID, stats.PitcherEarnedRuns, 1.0)
		homeRunValue := g.runValue(batterID, false)
		if batting.Stadium.HasMod(stadium.BigBuckets) && g.RNG.Float64() < stadium.BigBucketPercentage {
			homeRunValue += 20 // +2 extra runs
		}
		g.addRuns(homeRunValue)
		g.logEvent("Batter %s hits a home run.", batterID)
	}
	batting.ApplyHitFor(batterID)
	g.resetPitchCount()
	g.reevaluateDynamicBuffs()
	return nil
}

// attemptExtraBaseAdvancement implements extra-base advancement for non-HR hits: for
// each still-on-base runner in descending order, if the base ahead is
// unoccupied, sample RUNNER_ADV_HIT; on advance, move one more base.
func (g *State) attemptExtraBaseAdvancement() error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	for _, base := range occupiedBasesDescending(g.BaseRunners) {
		if _, occupied := g.BaseRunners[base+1]; occupied {
			continue
		}
		runnerID := g.BaseRunners[base]
		fv := append(append(batting.RunnerFeatureVector(runnerID), pitching.DefenseFeatureVector()...), pitching.PitcherFeatureVector(pitching.CurPitcher())...)
		advance, err := g.Classifiers.Sample(classifier.RunnerAdvHit, fv, g.RNG)
		if err != nil {
			return err
		}
		if advance == 1 {
			g.logEvent("Runner %s takes an extra base on the hit.", runnerID)
			g.advanceRunnerOneBase(base, false)
		}
	}
	return nil
}

// inPlayOut resolves a sampled in-play-out pitch result: sample OUT_TYPE
// and dispatch to flyout or groundout handling.
func (g *State) inPlayOut(featureVector []float64) error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	batterID := batting.CurBatter()
	pitcherID := pitching.CurPitcher()
	batting.UpdateStat(batterID, stats.BatterAtBats, 1.0)

	outType, err := g.Classifiers.Sample(classifier.OutType, featureVector, g.RNG)
	if err != nil {
		return err
	}
	g.Outs++
	g.maybeCoffeeRally(batterID)
	switch outType {
	case classifier.OutFlyout:
		g.logEvent("Batter %s flies out.", batterID)
		pitching.UpdateStat(pitcherID, stats.PitcherFlyouts, 1.0)
		batting.UpdateStat(batterID, stats.BatterFlyouts, 1.0)
		if g.Outs < g.battingTeam().OutsForInning() {
			if err := g.attemptAdvanceOnFlyout(); err != nil {
				return err
			}
		}
	case classifier.OutGroundout:
		g.logEvent("Batter %s grounds out.", batterID)
		pitching.UpdateStat(pitcherID, stats.PitcherGroundouts, 1.0)
		batting.UpdateStat(batterID, stats.BatterGroundouts, 1.0)
		if g.Outs < g.battingTeam().OutsForInning() {
			// Groundout base-running is deliberately simplified to "all
			// runners advance one base" rather than modeling a true
			// fielder's-choice/double-play.
			g.advanceAllRunners(1)
		}
	}
	batting.ResetSpicyFor(batterID)
	g.resetPitchCount()
	g.reevaluateDynamicBuffs()
	return nil
}

// attemptAdvanceOnFlyout implements flyout tag-up advancement.
func (g *State) attemptAdvanceOnFlyout() error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	for _, base := range occupiedBasesDescending(g.BaseRunners) {
		if _, occupied := g.BaseRunners[base+1]; occupied {
			continue
		}
		runnerID := g.BaseRunners[base]
		fv := append(append(batting.RunnerFeatureVector(runnerID), pitching.DefenseFeatureVector()...), pitching.PitcherFeatureVector(pitching.CurPitcher())...)
		advance, err := g.Classifiers.Sample(classifier.RunnerAdvOut, fv, g.RNG)
		if err != nil {
			return err
		}
		if advance == 1 {
			g.logEvent("Runner %s tags up and advances.", runnerID)
			g.advanceRunnerOneBase(base, false)
		}
	}
	return nil
}

// stolenBaseSim implements the pre-pitch stolen-base attempt: runners with
// an open base ahead are offered an attempt in descending base order, and
// the first runner that attempts ends the phase, so at most one attempt is
// made per pre-pitch phase.
func (g *State) stolenBaseSim() (bool, error) {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	for _, base := range occupiedBasesDescending(g.BaseRunners) {
		if _, occupied := g.BaseRunners[base+1]; occupied {
			continue
		}
		runnerID := g.BaseRunners[base]
		fv := append(append(batting.RunnerFeatureVector(runnerID), pitching.DefenseFeatureVector()...), pitching.PitcherFeatureVector(pitching.CurPitcher())...)
		attempt, err := g.Classifiers.Sample(classifier.SBAttempt, fv, g.RNG)
		if err != nil {
			return false, err
		}
		if attempt != 1 {
			continue
		}
		batting.UpdateStat(runnerID, stats.StolenBaseAttempts, 1.0)
		pitching.UpdateStat(team.DefenseID, stats.DefenseStolenBaseAttempts, 1.0)
		pitching.UpdateStat(pitching.CurPitcher(), stats.DefenseStolenBaseAttempts, 1.0)

		success, err := g.Classifiers.Sample(classifier.SBSuccess, fv, g.RNG)
		if err != nil {
			return false, err
		}
		if success == 1 {
			batting.UpdateStat(runnerID, stats.StolenBases, 1.0)
			pitching.UpdateStat(team.DefenseID, stats.DefenseStolenBases, 1.0)
			pitching.UpdateStat(pitching.CurPitcher(), stats.DefenseStolenBases, 1.0)
			g.logEvent("Runner %s steals base %d.", runnerID, base+1)
			if base >= g.numBases()-1 {
				g.scoreRunner(base, false, true)
			} else {
				delete(g.BaseRunners, base)
				g.BaseRunners[base+1] = runnerID
			}
		} else {
			batting.UpdateStat(runnerID, stats.CaughtStealings, 1.0)
			pitching.UpdateStat(team.DefenseID, stats.DefenseCaughtStealings, 1.0)
			pitching.UpdateStat(pitching.CurPitcher(), stats.DefenseCaughtStealings, 1.0)
			g.logEvent("Runner %s caught stealing.", runnerID)
			delete(g.BaseRunners, base)
			g.Outs++
		}
		g.reevaluateDynamicBuffs()
		return true, nil
	}
	return false, nil
}

// resolveFloodingWash implements the flooding pre-pitch event: clears
// all runners, scoring SWIM_BLADDER runners. EGO1 runners ride out one
// wash, EGO2 runners a second as well; after that they wash away like
// anyone else.
func (g *State) resolveFloodingWash() {
	for _, base := range occupiedBasesDescending(g.BaseRunners) {
		runnerID := g.BaseRunners[base]
		stack := g.battingTeam().Buffs[runnerID]
		if stack != nil && stack.Present[buff.SwimBladder] {
			delete(g.BaseRunners, base)
			g.scoreSwimBladder(runnerID)
			continue
		}
		if stack != nil && (stack.Present[buff.Ego1] || stack.Present[buff.Ego2]) {
			survivable := 1
			if stack.Present[buff.Ego2] {
				survivable = 2
			}
			if g.floodWashes[runnerID] < survivable {
				g.floodWashes[runnerID]++
				continue // rides out this wash, stays on base
			}
		}
		delete(g.BaseRunners, base)
	}
	g.reevaluateDynamicBuffs()
}

func (g *State) scoreSwimBladder(runnerID string) {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	value := g.runValue(runnerID, false)
	g.addRuns(value)
	batting.UpdateStat(runnerID, stats.BatterRunsScored, 1.0)
	pitching.UpdateStat(pitching.CurPitcher(), stats.PitcherEarnedRuns, 1.0)
}
