package season

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/game"
	"github.com/baseball-sim/sim-core/internal/iteration"
	"github.com/baseball-sim/sim-core/internal/rng"
	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/stadium"
	"github.com/baseball-sim/sim-core/internal/stats"
	"github.com/baseball-sim/sim-core/internal/weather"
)

// DefaultIterations is the day driver's default per-matchup iteration
// count.
const DefaultIterations = 250

// Driver orchestrates the day/season loop: for each scheduled game,
// build the two team states, run the iteration driver, accumulate stats,
// and persist/emit results.
type Driver struct {
	Classifiers *classifier.Registry
	Iteration   *iteration.Driver
	Store       SimulationStore
	Stadiums    map[string]stadium.Descriptor
	Logger      *log.Logger

	// InningCap overrides game.SafetyInningCap for every game this driver
	// builds, when nonzero.
	InningCap int
}

// NewDriver builds a Driver. store may be NoopStore{} when no persistence
// is configured.
func NewDriver(classifiers *classifier.Registry, workers int, store SimulationStore, stadiums map[string]stadium.Descriptor, logger *log.Logger) *Driver {
	return &Driver{
		Classifiers: classifiers,
		Iteration:   iteration.New(workers),
		Store:       store,
		Stadiums:    stadiums,
		Logger:      logger,
	}
}

// StatsCollector accumulates per-player stats and display names across every
// game a RunDay call simulates, for callers that need more than the
// per-game aggregate outcome.
type StatsCollector struct {
	Sink  *stats.Sink
	Names map[string]string
}

// NewStatsCollector builds an empty collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{Sink: stats.NewSink(), Names: make(map[string]string)}
}

// RunDay simulates every non-skipped scheduled game in games against the
// decoded snapshot, running `iterations` Monte Carlo playthroughs of each
// and returning one GameOutcome per simulated matchup. When collect
// is non-nil, every game's per-player stats and display names are merged
// into it.
func (d *Driver) RunDay(ctx context.Context, games []ScheduleGame, snapshot map[string]StlatRecord, iterations int, baseSeed int64, collect *StatsCollector) ([]GameOutcome, error) {
	outcomes := make([]GameOutcome, 0, len(games))

	for _, g := range games {
		if g.ShouldSkip() {
			d.Logger.With("game", g.ID, "day", g.Day).Info("skipping scheduled game: reverb marker in outcomes")
			continue
		}

		outcome, err := d.runGame(ctx, g, snapshot, iterations, baseSeed, collect)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)

		if d.Store != nil {
			if err := d.Store.SaveDayResult(ctx, DayResult{
				GameID: g.ID, Season: g.Season, Day: g.Day,
				HomeTeam: g.HomeTeam, AwayTeam: g.AwayTeam,
				HomePitcher: g.HomePitcher, AwayPitcher: g.AwayPitcher,
				Weather: g.Weather, HomeWinPct: outcome.HomeWinPct,
				MeanHomeScore: outcome.HomeAggregate.Mean, MeanAwayScore: outcome.AwayAggregate.Mean,
			}); err != nil {
				d.Logger.With("game", g.ID, "err", err).Error("failed to persist day result")
			}
		}
	}

	return outcomes, nil
}

func (d *Driver) runGame(ctx context.Context, g ScheduleGame, snapshot map[string]StlatRecord, iterations int, baseSeed int64, collect *StatsCollector) (GameOutcome, error) {
	wc, ok := weather.Parse(g.Weather)
	if !ok {
		return GameOutcome{}, simerr.NewConfigError("schedule game %s has unrecognized weather code %d", g.ID, g.Weather)
	}

	homeTemplate, err := BuildTeamState(g.HomeTeam, g.HomeTeam, g.HomePitcher, snapshot, d.Stadiums, wc, g.Season, g.Day, true)
	if err != nil {
		return GameOutcome{}, err
	}
	awayTemplate, err := BuildTeamState(g.AwayTeam, g.AwayTeam, g.AwayPitcher, snapshot, d.Stadiums, wc, g.Season, g.Day, false)
	if err != nil {
		return GameOutcome{}, err
	}

	newState := func(seed int64) (*game.State, error) {
		home := homeTemplate.Clone()
		away := awayTemplate.Clone()
		source := rng.New(seed)
		st := game.New(g.ID, g.Season, g.Day, home, away, d.Classifiers, source)
		st.InningCap = d.InningCap
		return st, nil
	}

	results, err := d.Iteration.Run(ctx, iterations, baseSeed, newState)
	if err != nil {
		return GameOutcome{}, err
	}
	if domainErr := iteration.FirstDomainError(results); domainErr != nil {
		return GameOutcome{}, domainErr
	}

	outcome, homeSink, awaySink := buildOutcome(g, results)
	if collect != nil {
		collect.Sink.Merge(homeSink)
		collect.Sink.Merge(awaySink)
		for id, name := range homeTemplate.Names {
			collect.Names[id] = name
		}
		for id, name := range awayTemplate.Names {
			collect.Names[id] = name
		}
	}
	return outcome, nil
}

// buildOutcome merges every worker's completed-iteration scores and
// per-player stat sinks into one GameOutcome, returning the merged home and
// away sinks alongside it for callers that need per-player detail.
func buildOutcome(g ScheduleGame, results []iteration.WorkerResult) (GameOutcome, *stats.Sink, *stats.Sink) {
	var homeScores, awayScores []float64
	homeSink := stats.NewSink()
	awaySink := stats.NewSink()

	homeShutouts, awayShutouts, homeWins, total := 0, 0, 0, 0

	for _, r := range results {
		homeScores = append(homeScores, r.HomeScores...)
		awayScores = append(awayScores, r.AwayScores...)
		if r.State == nil {
			continue
		}
		homeSink.Merge(r.State.Home.Stats)
		awaySink.Merge(r.State.Away.Stats)
		for i := range r.AwayScores {
			total++
			if r.AwayScores[i] == 0 {
				homeShutouts++
			}
			if r.HomeScores[i] == 0 {
				awayShutouts++
			}
			if r.HomeScores[i] > r.AwayScores[i] {
				homeWins++
			}
		}
	}

	homeAgg := Summarize(homeScores, homeShutouts, total)
	awayAgg := Summarize(awayScores, awayShutouts, total)

	homeWinPct := 0.0
	if total > 0 {
		homeWinPct = float64(homeWins) / float64(total)
	}

	return GameOutcome{
		Game:          g,
		HomeTeam:      g.HomeTeam,
		AwayTeam:      g.AwayTeam,
		HomeAggregate: homeAgg,
		AwayAggregate: awayAgg,
		HomeWinPct:    homeWinPct,
		HomeWon:       homeWinPct >= 0.5,
	}, homeSink, awaySink
}
