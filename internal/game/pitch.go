package game

import (
	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/stats"
	"github.com/baseball-sim/sim-core/internal/team"
	"github.com/baseball-sim/sim-core/internal/weather"
)

// pitchSim resolves one full pitch: the flooding wash and pre-pitch team
// events, then the six-way PITCH sample and its outcome.
func (g *State) pitchSim() error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()

	// A SHELLED or ELSEWHERE batter is skipped without a plate appearance.
	batting.EnsureAvailableBatter()

	if batting.Weather == weather.Flooding && g.RunnersAboardAnyBase() {
		g.resolveFloodingWash()
		return nil // the wash consumes the whole pre-pitch phase; no pitch is drawn
	}

	resolved, flip, err := g.resolvePrePitchEvents()
	if err != nil {
		return err
	}
	if resolved {
		return nil // a pre-pitch event (Charm/Crows strikeout, Charm walk or Zap strike removal) consumed this pitch
	}

	batterID := batting.CurBatter()
	pitcherID := pitching.CurPitcher()
	useGhostLine := team.RollGhostLine(batting.Buffs[batterID], g.RNG)

	fv := g.buildPitchFeatureVector(useGhostLine)

	batting.UpdateStat(batterID, stats.BatterPitchesFaced, 1.0)
	pitching.UpdateStat(pitcherID, stats.PitcherPitchesThrown, 1.0)
	if g.isStartOfAtBat() {
		batting.UpdateStat(batterID, stats.BatterPlateAppearances, 1.0)
		pitching.UpdateStat(pitcherID, stats.PitcherBattersFaced, 1.0)
	}

	outcome, err := g.Classifiers.Sample(classifier.Pitch, fv, g.RNG)
	if err != nil {
		return err
	}
	if flip {
		outcome = flipBallStrike(outcome)
	}

	return g.resolvePitchOutcome(outcome, fv)
}

// resolvePitchOutcome dispatches on the sampled six-way PITCH index,
// including the Fiery double-strike proc and the FLINCH override on the
// first strike of an at-bat.
func (g *State) resolvePitchOutcome(outcome int, fv []float64) error {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	batterID := batting.CurBatter()
	pitcherID := pitching.CurPitcher()

	// FLINCH forces the first strike of the at-bat to be taken looking.
	if g.Strikes == 0 && (outcome == classifier.PitchStrikeSwinging || outcome == classifier.PitchStrikeLooking) {
		if stack := batting.Buffs[batterID]; stack != nil && stack.Present[buff.Flinch] {
			outcome = classifier.PitchStrikeLooking
		}
	}

	switch outcome {
	case classifier.PitchBall:
		pitching.UpdateStat(pitcherID, stats.PitcherBallsThrown, 1.0)
		g.Balls++
		if g.Balls >= g.ballsForWalk() {
			return g.resolveWalk()
		}
	case classifier.PitchStrikeSwinging, classifier.PitchStrikeLooking:
		strikeInc := 1
		if g.pitchingTeamIsFiery() {
			strikeInc = 2
		}
		pitching.UpdateStat(pitcherID, stats.PitcherStrikesThrown, 1.0)
		if g.Strikes+strikeInc >= g.strikesForOut() && g.oNoGateHolds() {
			batting.UpdateStat(batterID, stats.BatterFoulBalls, 1.0)
			g.logEvent("Batter %s fouls off what would have been strike three.", batterID)
			break
		}
		g.Strikes += strikeInc
		if g.Strikes >= g.strikesForOut() {
			g.resolveStrikeout()
		}
	case classifier.PitchFoul:
		batting.UpdateStat(batterID, stats.BatterFoulBalls, 1.0)
		if g.Strikes < g.strikesForOut()-1 {
			g.Strikes++
		}
	case classifier.PitchInPlayHit:
		return g.hitSim(fv)
	case classifier.PitchInPlayOut:
		return g.inPlayOut(fv)
	}
	return nil
}

// pitchingTeamIsFiery reports whether the pitching team's Fiery proc is
// currently active, a team-wide seasonal rule rather than a per-player buff.
func (g *State) pitchingTeamIsFiery() bool {
	for _, r := range g.pitchingTeam().SeasonalRules {
		if r == buff.Fiery {
			return true
		}
	}
	return false
}

// resolvePrePitchEvents resolves, in order: Friend of Crows, Charm
// (pitcher-then-batter, per the resolved open question), Zap/Electric, and
// Psychic, reporting whether the upcoming pitch's ball/strike
// classification should be flipped. O_NO's strike-to-foul conversion is
// gated separately in resolvePitchOutcome since it only applies once a
// pitch has already been drawn and sampled as a would-be third strike.
func (g *State) resolvePrePitchEvents() (resolved, flip bool, err error) {
	pitching := g.pitchingTeam()
	batting := g.battingTeam()
	pitcherID := pitching.CurPitcher()
	batterID := batting.CurBatter()

	if stack := pitching.Buffs[pitcherID]; stack != nil && stack.Present[buff.FriendOfCrows] &&
		pitching.Weather == weather.Bird && g.RNG.Float64() < buff.FriendOfCrowsTriggerPercentage {
		g.logEvent("The Crows strike out %s.", batterID)
		g.resolveStrikeout()
		return true, false, nil
	}

	if g.isStartOfAtBat() {
		if bloodGateHolds(pitching.PitchEvent, g.Season, pitching, pitcherID) &&
			pitching.PitchEvent.Kind == buff.Charm && g.RNG.Float64() < buff.CharmTriggerPercentage {
			g.logEvent("Pitcher %s charms the batter.", pitcherID)
			g.resolveStrikeout()
			return true, false, nil
		}
		if bloodGateHolds(batting.PitchEvent, g.Season, batting, batterID) &&
			batting.PitchEvent.Kind == buff.Charm && g.RNG.Float64() < buff.CharmTriggerPercentage {
			g.logEvent("Batter %s is charmed into a walk.", batterID)
			return true, false, g.resolveWalk()
		}
	}

	if g.Strikes > 0 && bloodGateHolds(batting.PitchEvent, g.Season, batting, batterID) &&
		batting.PitchEvent.Kind == buff.Zap && g.RNG.Float64() < buff.ZapTriggerPercentage {
		g.logEvent("Batter %s zaps away a strike.", batterID)
		g.Strikes--
		return true, false, nil
	}

	if batting.PitchEvent != nil && batting.PitchEvent.Kind == buff.Psychic &&
		bloodGateHolds(batting.PitchEvent, g.Season, batting, batterID) && g.isStartOfAtBat() {
		flip = true
	}

	return false, flip, nil
}

// oNoGateHolds reports whether the batting team's O_NO proc should convert what would be the third strike into a harmless foul
// instead: gated on the batting team's pitch event being O_NO, the required
// blood, the season window, and balls == 0.
func (g *State) oNoGateHolds() bool {
	batting := g.battingTeam()
	batterID := batting.CurBatter()
	event := batting.PitchEvent
	if event == nil || event.Kind != buff.ONo {
		return false
	}
	if g.Balls != 0 {
		return false
	}
	return bloodGateHolds(event, g.Season, batting, batterID)
}

func flipBallStrike(outcome int) int {
	switch outcome {
	case classifier.PitchBall:
		return classifier.PitchStrikeLooking
	case classifier.PitchStrikeLooking, classifier.PitchStrikeSwinging:
		return classifier.PitchBall
	default:
		return outcome
	}
}

// buildPitchFeatureVector composes the PITCH model's input: batter vector
// (or ghost line), pitcher vector, defense vector, then the stadium's
// seven continuous traits, in that order.
func (g *State) buildPitchFeatureVector(useGhostLine bool) []float64 {
	batting := g.battingTeam()
	pitching := g.pitchingTeam()
	batterID := batting.CurBatter()
	pitcherID := pitching.CurPitcher()

	fv := make([]float64, 0, 40)
	fv = append(fv, batting.BatterFeatureVector(batterID, useGhostLine)...)
	fv = append(fv, pitching.PitcherFeatureVector(pitcherID)...)
	fv = append(fv, pitching.DefenseFeatureVector()...)
	traits := batting.Stadium.Traits()
	fv = append(fv, traits[:]...)
	return fv
}

// RunnersAboardAnyBase reports whether any base is currently occupied.
func (g *State) RunnersAboardAnyBase() bool {
	return len(g.BaseRunners) > 0
}
