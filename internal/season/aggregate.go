package season

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/baseball-sim/sim-core/internal/stats"
)

// ScoreAggregate summarizes one side's scores across every iteration of a
// single scheduled game. Computed with gonum/stat rather than a
// hand-rolled mean/variance loop.
type ScoreAggregate struct {
	Mean        float64
	Variance    float64
	PBigScore10 float64
	PBigScore20 float64
	ShutoutPct  float64
}

// Summarize computes a ScoreAggregate over scores, and shutoutCount/total
// for the shutout percentage (shutouts are counted by the caller from each
// iteration's final state, since "shutout" depends on the opposing score).
func Summarize(scores []float64, shutouts, total int) ScoreAggregate {
	if len(scores) == 0 {
		return ScoreAggregate{}
	}
	mean := stat.Mean(scores, nil)
	variance := stat.Variance(scores, nil)

	var over10, over20 int
	for _, s := range scores {
		if s > 10 {
			over10++
		}
		if s > 20 {
			over20++
		}
	}

	agg := ScoreAggregate{
		Mean:        mean,
		Variance:    variance,
		PBigScore10: float64(over10) / float64(len(scores)),
		PBigScore20: float64(over20) / float64(len(scores)),
	}
	if total > 0 {
		agg.ShutoutPct = float64(shutouts) / float64(total)
	}
	return agg
}

// LeaderEntry is one ranked row of a leaders text listing: a player and
// the derived metric value that ranked it.
type LeaderEntry struct {
	PlayerID string
	Value    float64
}

// TopStrikeouts, TopHomeRuns and TopBattingAverage each rank every player
// appearing in counters by the named derived metric and return the top n.
// Batting average is hits divided by at-bats per player, taken from the
// counters as given.
func TopStrikeouts(counters map[string]*stats.Counters, n int) []LeaderEntry {
	return topN(counters, n, func(c *stats.Counters) float64 {
		return c.Get(stats.BatterStrikeouts)
	})
}

func TopHomeRuns(counters map[string]*stats.Counters, n int) []LeaderEntry {
	return topN(counters, n, func(c *stats.Counters) float64 {
		return c.Get(stats.BatterHRs)
	})
}

func TopBattingAverage(counters map[string]*stats.Counters, n int) []LeaderEntry {
	return topN(counters, n, func(c *stats.Counters) float64 {
		atBats := c.Get(stats.BatterAtBats)
		if atBats == 0 {
			return 0
		}
		return c.Get(stats.BatterHits) / atBats
	})
}

func topN(counters map[string]*stats.Counters, n int, metric func(*stats.Counters) float64) []LeaderEntry {
	entries := make([]LeaderEntry, 0, len(counters))
	for playerID, c := range counters {
		entries = append(entries, LeaderEntry{PlayerID: playerID, Value: metric(c)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
