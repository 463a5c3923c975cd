package season

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baseball-sim/sim-core/internal/simerr"
)

// DayResult is one scheduled game's aggregated outcome for a single day,
// the unit SimulationStore.SaveDayResult persists.
type DayResult struct {
	GameID        string
	Season, Day   int
	HomeTeam      string
	AwayTeam      string
	HomePitcher   string
	AwayPitcher   string
	Weather       int
	HomeWinPct    float64
	MeanHomeScore float64
	MeanAwayScore float64
}

// SimulationStore is the optional persistence collaborator the day/season
// driver calls out to after each scheduled game's iterations complete, generalized from a
// single-simulation row to a day-level aggregate row.
type SimulationStore interface {
	SaveDayResult(ctx context.Context, result DayResult) error
	Close()
}

// NoopStore is the default SimulationStore: it discards everything. Both
// entry points (main.go and cmd/simcli) build their driver with it.
type NoopStore struct{}

func (NoopStore) SaveDayResult(context.Context, DayResult) error { return nil }
func (NoopStore) Close()                                         {}

// InMemoryStore records every DayResult handed to it; useful for tests and
// for an embedded deployment with no external database.
type InMemoryStore struct {
	mu      sync.Mutex
	Results []DayResult
}

func NewInMemoryStore() *InMemoryStore { return &InMemoryStore{} }

func (s *InMemoryStore) SaveDayResult(_ context.Context, result DayResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = append(s.Results, result)
	return nil
}

func (s *InMemoryStore) Close() {}

// PgStore persists day results to Postgres via jackc/pgx/v5, adapted from
// a per-simulation-row model to a per-day-aggregate-row model, since the
// core itself doesn't persist individual iterations.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore connects to dsn and verifies connectivity with a bounded ping.
func NewPgStore(ctx context.Context, dsn string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, simerr.WrapConfigError(err, "connect to simulation store database")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, simerr.WrapConfigError(err, "ping simulation store database")
	}
	return &PgStore{pool: pool}, nil
}

const insertDayResultQuery = `
	INSERT INTO day_results (
		game_id, season, day, home_team, away_team,
		home_pitcher, away_pitcher, weather,
		home_win_pct, mean_home_score, mean_away_score, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
	)
`

func (s *PgStore) SaveDayResult(ctx context.Context, result DayResult) error {
	_, err := s.pool.Exec(ctx, insertDayResultQuery,
		result.GameID, result.Season, result.Day, result.HomeTeam, result.AwayTeam,
		result.HomePitcher, result.AwayPitcher, result.Weather,
		result.HomeWinPct, result.MeanHomeScore, result.MeanAwayScore,
	)
	if err != nil {
		return simerr.WrapConfigError(err, "save day result for game %s", result.GameID)
	}
	return nil
}

func (s *PgStore) Close() {
	s.pool.Close()
}
