package game

import (
	"fmt"

	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/rng"
	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/stats"
	"github.com/baseball-sim/sim-core/internal/team"
)

// Half identifies which side of the inning is currently batting.
type Half int

const (
	Top Half = iota
	Bottom
)

func (h Half) String() string {
	if h == Top {
		return "TOP"
	}
	return "BOTTOM"
}

// SafetyInningCap bounds how many innings a single simulated game may run
// before it is forced to terminate with a DomainError, so a pathological
// rule configuration can never drive a simulation into an infinite loop.
const SafetyInningCap = 50

// State is the full pitch-level game state machine.
type State struct {
	GameID string
	Season int
	Day    int

	Home *team.State
	Away *team.State

	HomeScore Score
	AwayScore Score

	Inning int
	Half   Half

	Outs, Strikes, Balls int

	// BaseRunners maps base (1..num_bases-1) to the occupying player id.
	BaseRunners map[int]string

	IsGameOver bool
	GameLog    []string

	// floodWashes counts how many flooding washes each EGO-buffed runner
	// has already ridden out this game; EGO1 survives one, EGO2 two.
	floodWashes map[string]int

	Classifiers *classifier.Registry
	RNG         *rng.Source

	// InningCap overrides SafetyInningCap when nonzero, letting a deployment
	// tighten or loosen the safety inning cap via config rather than a
	// recompile.
	InningCap int
}

// New constructs a game state for a single matchup; call ResetGameState
// before each iteration.
func New(gameID string, season, day int, home, away *team.State, classifiers *classifier.Registry, source *rng.Source) *State {
	g := &State{
		GameID: gameID, Season: season, Day: day,
		Home: home, Away: away,
		Classifiers: classifiers, RNG: source,
	}
	home.Season, home.Day, home.IsHome = season, day, true
	away.Season, away.Day, away.IsHome = season, day, false
	g.ResetGameState(true)
	return g
}

// inningCap is the effective safety inning cap for this game: InningCap
// when set, else the package default.
func (g *State) inningCap() int {
	if g.InningCap > 0 {
		return g.InningCap
	}
	return SafetyInningCap
}

// battingTeam returns the team currently at bat.
func (g *State) battingTeam() *team.State {
	if g.Half == Top {
		return g.Away
	}
	return g.Home
}

// pitchingTeam returns the team currently pitching.
func (g *State) pitchingTeam() *team.State {
	if g.Half == Top {
		return g.Home
	}
	return g.Away
}

// ResetGameState resets the game to the start of a fresh iteration: zero
// counters, restore modifier stacks to preloaded state, reset batter
// position, reapply seasonal rules, revalidate starting pitchers.
func (g *State) ResetGameState(gameStatsReset bool) error {
	g.Inning = 1
	g.Half = Top
	g.Outs, g.Strikes, g.Balls = 0, 0, 0
	g.HomeScore, g.AwayScore = 0, 0
	g.BaseRunners = map[int]string{}
	g.floodWashes = map[string]int{}
	g.IsGameOver = false
	g.GameLog = []string{"Play ball."}
	if err := g.Home.Reset(gameStatsReset); err != nil {
		return err
	}
	if err := g.Away.Reset(gameStatsReset); err != nil {
		return err
	}
	g.refreshRunnersAboardFlags()
	return nil
}

func (g *State) logEvent(format string, args ...interface{}) {
	g.GameLog = append(g.GameLog, fmt.Sprintf(format, args...))
}

func (g *State) refreshRunnersAboardFlags() {
	runnersOn := len(g.BaseRunners) > 0
	g.Home.RunnersAboard = runnersOn
	g.Away.RunnersAboard = runnersOn
}

// numBases is the batting team's base count.
func (g *State) numBases() int {
	return g.battingTeam().NumBases
}

func (g *State) ballsForWalk() int  { return g.battingTeam().BallsForWalk }
func (g *State) strikesForOut() int { return g.battingTeam().StrikesForOut }

// Simulate runs the full pitch/at-bat/inning loop until the game ends,
// enforcing SafetyInningCap.
func (g *State) Simulate() error {
	for !g.IsGameOver {
		if g.Inning > g.inningCap() {
			return simerr.NewDomainError("game %s exceeded the %d-inning safety cap", g.GameID, g.inningCap())
		}
		attempted, err := g.stolenBaseSim()
		if err != nil {
			return err
		}
		if !attempted {
			if err := g.pitchSim(); err != nil {
				return err
			}
		}
		if err := g.attemptToAdvanceInning(); err != nil {
			return err
		}
	}
	g.creditShutoutsAndDecisions()
	return nil
}

func (g *State) creditShutoutsAndDecisions() {
	if g.AwayScore == 0 {
		g.Home.UpdateStat(g.Home.CurPitcher(), stats.PitcherShutouts, 1.0)
	}
	if g.HomeScore == 0 {
		g.Away.UpdateStat(g.Away.CurPitcher(), stats.PitcherShutouts, 1.0)
	}
	g.Home.UpdateStat(g.Home.CurPitcher(), stats.PitcherGamesAppeared, 1.0)
	g.Away.UpdateStat(g.Away.CurPitcher(), stats.PitcherGamesAppeared, 1.0)
	if g.HomeScore > g.AwayScore {
		g.Home.UpdateStat(g.Home.CurPitcher(), stats.PitcherWins, 1.0)
		g.Away.UpdateStat(g.Away.CurPitcher(), stats.PitcherLosses, 1.0)
	} else if g.AwayScore > g.HomeScore {
		g.Away.UpdateStat(g.Away.CurPitcher(), stats.PitcherWins, 1.0)
		g.Home.UpdateStat(g.Home.CurPitcher(), stats.PitcherLosses, 1.0)
	}
}

// isStartOfAtBat reports whether the count is currently 0-0.
func (g *State) isStartOfAtBat() bool {
	return g.Balls == 0 && g.Strikes == 0
}

func (g *State) resetPitchCount() {
	g.Balls, g.Strikes = 0, 0
}

func (g *State) battingScoreFloat() float64 {
	if g.Half == Top {
		return g.AwayScore.Runs()
	}
	return g.HomeScore.Runs()
}

// reevaluateDynamicBuffs re-runs every player's dynamic buff evaluation on
// both teams at a boundary point.
func (g *State) reevaluateDynamicBuffs() {
	g.refreshRunnersAboardFlags()
	g.Home.ReevaluateBuffs(g.HomeScore.Runs())
	g.Away.ReevaluateBuffs(g.AwayScore.Runs())
}

// bloodGateHolds checks a team pitch-event's season + required-blood gate
// for a given player.
func bloodGateHolds(event *buff.PitchEvent, season int, teamState *team.State, playerID string) bool {
	if event == nil {
		return false
	}
	if !event.ValidForSeason(season) {
		return false
	}
	blood, ok := teamState.Blood[playerID]
	if !ok {
		return false
	}
	return blood == event.RequiredBlood
}
