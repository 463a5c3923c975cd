// Package stats implements the stat sink: typed keyed counters for
// per-player per-game and per-day-segmented statistics, stored as a
// dense, fixed-size counter array per player indexed by Stat, favoring
// arena-style per-player records with integer indices over deep
// nested-map mutation.
package stats

// Stat is a typed key into a player's counter array.
type Stat int

const (
	BatterPlateAppearances Stat = iota
	BatterAtBats
	BatterHits
	BatterSingles
	BatterDoubles
	BatterTriples
	BatterHRs
	BatterRBIs
	BatterRunsScored
	BatterWalks
	BatterStrikeouts
	BatterPitchesFaced
	BatterFoulBalls
	BatterFlyouts
	BatterGroundouts
	StolenBaseAttempts
	StolenBases
	CaughtStealings

	PitcherPitchesThrown
	PitcherBallsThrown
	PitcherStrikesThrown
	PitcherStrikeouts
	PitcherWalks
	PitcherHitsAllowed
	PitcherXBHAllowed
	PitcherHRsAllowed
	PitcherEarnedRuns
	PitcherBattersFaced
	PitcherInningsPitched
	PitcherFlyouts
	PitcherGroundouts
	PitcherShutouts
	PitcherGamesAppeared
	PitcherWins
	PitcherLosses

	DefenseStolenBaseAttempts
	DefenseStolenBases
	DefenseCaughtStealings

	TeamSun2Wins
	TeamBlackHoleConsumption

	numStats
)

// NumStats is the fixed width of a Counters array.
const NumStats = int(numStats)

// Counters is a fixed-layout per-player stat record; zero value is a
// freshly reset player.
type Counters [NumStats]float64

// Add increments a single counter.
func (c *Counters) Add(s Stat, amt float64) {
	c[s] += amt
}

// Get reads a single counter.
func (c *Counters) Get(s Stat) float64 {
	return c[s]
}

// Reset zeroes every counter in place.
func (c *Counters) Reset() {
	*c = Counters{}
}

// Sink owns the per-player per-game counters and the day-indexed vector of
// per-day-segmented counters. Game counters are zeroed between
// iterations (Reset); segmented counters accumulate across iterations
// within a day and are divided by the iteration count by the day driver.
type Sink struct {
	Game      map[string]*Counters
	Segmented []map[string]*Counters
}

// NewSink builds an empty sink.
func NewSink() *Sink {
	return &Sink{Game: make(map[string]*Counters)}
}

// Update increments a per-game counter and the current day's segmented
// counter for playerID in one call.
func (s *Sink) Update(day int, playerID string, stat Stat, amt float64) {
	s.gameCounters(playerID).Add(stat, amt)
	s.segmentedCounters(day, playerID).Add(stat, amt)
}

func (s *Sink) gameCounters(playerID string) *Counters {
	c, ok := s.Game[playerID]
	if !ok {
		c = &Counters{}
		s.Game[playerID] = c
	}
	return c
}

func (s *Sink) segmentedCounters(day int, playerID string) *Counters {
	for len(s.Segmented) <= day {
		s.Segmented = append(s.Segmented, make(map[string]*Counters))
	}
	m := s.Segmented[day]
	c, ok := m[playerID]
	if !ok {
		c = &Counters{}
		m[playerID] = c
	}
	return c
}

// ResetGame zeroes all per-game counters, leaving segmented history
// untouched; called between iterations.
func (s *Sink) ResetGame() {
	for _, c := range s.Game {
		c.Reset()
	}
}

// Merge folds another sink's Game and Segmented counters additively into
// this one, used by the iteration driver's caller to combine the
// per-worker sinks each worker accumulated independently back into one
// day-level view.
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	for playerID, c := range other.Game {
		dst := s.gameCounters(playerID)
		for i := 0; i < NumStats; i++ {
			dst[i] += c[i]
		}
	}
	for day, players := range other.Segmented {
		for playerID, c := range players {
			dst := s.segmentedCounters(day, playerID)
			for i := 0; i < NumStats; i++ {
				dst[i] += c[i]
			}
		}
	}
}

// DivideSegmented divides every segmented counter for the given day by n,
// used by the day driver to convert accumulated per-iteration totals into
// per-game averages.
func (s *Sink) DivideSegmented(day int, n int) {
	if n == 0 || day >= len(s.Segmented) {
		return
	}
	for _, c := range s.Segmented[day] {
		for i := range c {
			c[i] /= float64(n)
		}
	}
}
