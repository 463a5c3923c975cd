package season

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/stats"
)

// DayOutcome is one day's entry in a team's season record.
type DayOutcome struct {
	Pitcher        string `json:"pitcher"`
	Opponent       string `json:"opponent"`
	OpponentPitcher string `json:"opponent_pitcher"`
	Weather        int    `json:"weather"`
	Win            bool   `json:"win"`
}

// TeamRecord is one team's season-long win/loss record.
type TeamRecord struct {
	Wins   int          `json:"wins"`
	Losses int          `json:"losses"`
	Days   []DayOutcome `json:"days"`
}

// RenderDayText formats the per-day result text output: a progress
// line plus one line per scheduled game's aggregate outcome, mirroring the
// day/season driver's console progress lines.
func RenderDayText(season, day int, outcomes []GameOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d\n", day)
	for _, o := range outcomes {
		fmt.Fprintf(&b, "  %s @ %s: %.2f - %.2f (home win %.1f%% P(>10)=%.3f P(>20)=%.3f shutouts=%.1f%%)\n",
			o.AwayTeam, o.HomeTeam, o.HomeAggregate.Mean, o.AwayAggregate.Mean,
			o.HomeWinPct*100, o.HomeAggregate.PBigScore10, o.HomeAggregate.PBigScore20, o.HomeAggregate.ShutoutPct*100)
	}
	return b.String()
}

// GameOutcome is one scheduled game's per-day aggregate result, the unit
// RenderDayText and the season record builder both consume.
type GameOutcome struct {
	Game          ScheduleGame
	HomeTeam      string
	AwayTeam      string
	HomeAggregate ScoreAggregate
	AwayAggregate ScoreAggregate

	// HomeWinPct is the fraction of completed iterations the home side
	// won; HomeWon is its majority-vote view.
	HomeWinPct float64
	HomeWon    bool
}

// RenderSeasonJSON serializes the season's accumulated team records
// using sonic, consistent with this package's other hot-path JSON I/O.
func RenderSeasonJSON(records map[string]*TeamRecord) ([]byte, error) {
	out, err := sonic.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, simerr.WrapConfigError(err, "marshal season team records")
	}
	return out, nil
}

// ApplyOutcome folds one game's outcome into both teams' season records,
// creating the record on first appearance.
func ApplyOutcome(records map[string]*TeamRecord, o GameOutcome) {
	home := recordFor(records, o.HomeTeam)
	away := recordFor(records, o.AwayTeam)

	home.Days = append(home.Days, DayOutcome{
		Pitcher: o.Game.HomePitcher, Opponent: o.AwayTeam,
		OpponentPitcher: o.Game.AwayPitcher, Weather: o.Game.Weather, Win: o.HomeWon,
	})
	away.Days = append(away.Days, DayOutcome{
		Pitcher: o.Game.AwayPitcher, Opponent: o.HomeTeam,
		OpponentPitcher: o.Game.HomePitcher, Weather: o.Game.Weather, Win: !o.HomeWon,
	})

	if o.HomeWon {
		home.Wins++
		away.Losses++
	} else {
		away.Wins++
		home.Losses++
	}
}

func recordFor(records map[string]*TeamRecord, teamID string) *TeamRecord {
	r, ok := records[teamID]
	if !ok {
		r = &TeamRecord{}
		records[teamID] = r
	}
	return r
}

// RenderSegmentedStatsJSON serializes the day-indexed segmented stats sink
// using sonic.
func RenderSegmentedStatsJSON(segmented []map[string]*stats.Counters) ([]byte, error) {
	type dayStats map[string]map[string]float64

	out := make([]dayStats, len(segmented))
	for day, players := range segmented {
		ds := make(dayStats, len(players))
		for playerID, counters := range players {
			playerStats := make(map[string]float64, stats.NumStats)
			for i := 0; i < stats.NumStats; i++ {
				playerStats[statName(stats.Stat(i))] = counters.Get(stats.Stat(i))
			}
			ds[playerID] = playerStats
		}
		out[day] = ds
	}

	data, err := sonic.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, simerr.WrapConfigError(err, "marshal segmented stats")
	}
	return data, nil
}

// RenderLeadersText formats the top-10 strikeout/HR/batting-average leader
// boards as plain text.
func RenderLeadersText(names map[string]string, strikeouts, homeRuns, avg []LeaderEntry) string {
	var b strings.Builder
	b.WriteString("Top 10 Strikeouts\n")
	renderLeaderList(&b, names, strikeouts)
	b.WriteString("\nTop 10 Home Runs\n")
	renderLeaderList(&b, names, homeRuns)
	b.WriteString("\nTop 10 Batting Average\n")
	renderLeaderList(&b, names, avg)
	return b.String()
}

func renderLeaderList(b *strings.Builder, names map[string]string, entries []LeaderEntry) {
	for i, e := range entries {
		name := names[e.PlayerID]
		if name == "" {
			name = e.PlayerID
		}
		fmt.Fprintf(b, "  %2d. %-20s %.3f\n", i+1, name, e.Value)
	}
}

var statNames = [stats.NumStats]string{}

func init() {
	// Mirrors the Stat enum's declaration order in internal/stats; kept as
	// a parallel name table here rather than a Stat.String() method since
	// only the output writer needs string keys.
	names := []string{
		"batter_plate_appearances", "batter_at_bats", "batter_hits", "batter_singles",
		"batter_doubles", "batter_triples", "batter_hrs", "batter_rbis",
		"batter_runs_scored", "batter_walks", "batter_strikeouts", "batter_pitches_faced",
		"batter_foul_balls", "batter_flyouts", "batter_groundouts",
		"stolen_base_attempts", "stolen_bases", "caught_stealings",
		"pitcher_pitches_thrown", "pitcher_balls_thrown", "pitcher_strikes_thrown",
		"pitcher_strikeouts", "pitcher_walks", "pitcher_hits_allowed",
		"pitcher_xbh_allowed", "pitcher_hrs_allowed", "pitcher_earned_runs",
		"pitcher_batters_faced", "pitcher_innings_pitched", "pitcher_flyouts",
		"pitcher_groundouts", "pitcher_shutouts", "pitcher_games_appeared",
		"pitcher_wins", "pitcher_losses",
		"defense_stolen_base_attempts", "defense_stolen_bases", "defense_caught_stealings",
		"team_sun2_wins", "team_black_hole_consumption",
	}
	for i, n := range names {
		if i < stats.NumStats {
			statNames[i] = n
		}
	}
}

func statName(s stats.Stat) string {
	if int(s) < len(statNames) {
		return statNames[s]
	}
	return "unknown"
}
