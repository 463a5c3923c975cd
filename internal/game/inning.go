package game

import "github.com/baseball-sim/sim-core/internal/stats"

// attemptToAdvanceInning closes out the current half-inning once the
// batting team has taken its OutsForInning, and ends the game once the
// outcome becomes decided from the 9th inning onward. A decided game is
// only checked at the half-inning boundary, never mid-inning — a walkoff
// only ends play once the defense's outs are recorded, not the instant
// the home team takes the lead.
func (g *State) attemptToAdvanceInning() error {
	if g.Outs < g.battingTeam().OutsForInning() {
		return nil
	}

	pitching := g.pitchingTeam()
	pitching.UpdateStat(pitching.CurPitcher(), stats.PitcherInningsPitched, 1.0)

	if g.Inning < 9 {
		g.advanceHalfInning()
		return nil
	}

	switch g.Half {
	case Top:
		if g.HomeScore > g.AwayScore {
			g.logEvent("Side retired. Game over.")
			g.IsGameOver = true
			return nil
		}
		g.advanceHalfInning()
	case Bottom:
		if g.HomeScore != g.AwayScore {
			g.logEvent("Side retired. Game over.")
			g.IsGameOver = true
			return nil
		}
		g.advanceHalfInning()
	}
	return nil
}

// advanceHalfInning clears the bases, flips (or increments) Half/Inning,
// and resets the per-inning counters for the next half.
func (g *State) advanceHalfInning() {
	g.BaseRunners = map[int]string{}
	if g.Half == Top {
		g.Half = Bottom
	} else {
		g.Inning++
		g.Half = Top
	}
	g.logEvent("Side retired. %s of inning %d.", g.Half, g.Inning)
	g.Outs = 0
	g.resetPitchCount()
	g.refreshRunnersAboardFlags()
	g.reevaluateDynamicBuffs()
}
