// Package iteration implements the iteration driver: run a matchup
// `iterations` times and accumulate scores and per-player/per-day stats.
// The worker pool is `panjf2000/ants/v2` using a Submit-per-task/WaitGroup
// pattern, splitting iterations across workers evenly with any remainder
// distributed across the first workers.
//
// A worker owns its Team/Game state clones exclusively for every
// iteration assigned to it — the team's Stats sink accumulates segmented
// counters across those iterations in place, reset between iterations
// rather than rebuilt — and the only state shared across workers is the
// read-only classifier registry closed over by Factory.
package iteration

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/baseball-sim/sim-core/internal/game"
	"github.com/baseball-sim/sim-core/internal/simerr"
)

// Factory builds one game state that a single worker owns exclusively and
// reuses (via ResetGameState) across every iteration assigned to it.
// Implementations deep-clone whatever day-level Team templates they close
// over (team.State.Clone) so no mutable state crosses a worker boundary.
type Factory func(workerSeed int64) (*game.State, error)

// WorkerResult is what one worker hands back after completing its share of
// the run.
type WorkerResult struct {
	WorkerID int

	// HomeScores/AwayScores hold one entry per iteration this worker
	// completed, in the order simulated.
	HomeScores []float64
	AwayScores []float64

	// State is the worker's owned Team/Game state pair after its final
	// iteration, carrying the accumulated segmented stats for this
	// worker's share.
	State *game.State

	// Err is set if a DomainError or ConfigError terminated this worker
	// early; the caller's abort/skip policy decides what to do next.
	Err error
}

// Driver runs `iterations` independent playthroughs of a matchup across a
// worker pool of size Workers.
type Driver struct {
	Workers int
}

// New builds a Driver with the given worker count, clamped to at least 1.
func New(workers int) *Driver {
	if workers < 1 {
		workers = 1
	}
	return &Driver{Workers: workers}
}

// Run fans `iterations` playthroughs out across the pool. Each worker gets
// one PRNG seed, baseSeed plus its worker index, and all of that worker's
// iterations draw from the one stream, so runs are reproducible given a
// seed while remaining independent across workers.
func (d *Driver) Run(ctx context.Context, iterations int, baseSeed int64, newState Factory) ([]WorkerResult, error) {
	if iterations <= 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(d.Workers)
	if err != nil {
		return nil, simerr.WrapConfigError(err, "create iteration worker pool")
	}
	defer pool.Release()

	perWorker := iterations / d.Workers
	remainder := iterations % d.Workers

	results := make([]WorkerResult, d.Workers)
	var wg sync.WaitGroup

	for w := 0; w < d.Workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		if count == 0 {
			continue
		}

		workerID := w
		workerCount := count

		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[workerID] = runWorker(ctx, workerID, workerCount, baseSeed, newState)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			return nil, simerr.WrapConfigError(err, "submit iteration task to worker pool")
		}
	}

	wg.Wait()
	return results, nil
}

func runWorker(ctx context.Context, workerID, count int, baseSeed int64, newState Factory) WorkerResult {
	st, err := newState(baseSeed + int64(workerID))
	if err != nil {
		return WorkerResult{WorkerID: workerID, Err: err}
	}

	homeScores := make([]float64, 0, count)
	awayScores := make([]float64, 0, count)

	for j := 0; j < count; j++ {
		select {
		case <-ctx.Done():
			return WorkerResult{WorkerID: workerID, HomeScores: homeScores, AwayScores: awayScores, State: st}
		default:
		}

		if j > 0 {
			// First iteration was already reset by game.New; later ones
			// reset explicitly between simulated games.
			if err := st.ResetGameState(true); err != nil {
				return WorkerResult{WorkerID: workerID, HomeScores: homeScores, AwayScores: awayScores, State: st, Err: err}
			}
		}

		if err := st.Simulate(); err != nil {
			if simerr.IsSkippedGame(err) {
				continue
			}
			return WorkerResult{WorkerID: workerID, HomeScores: homeScores, AwayScores: awayScores, State: st, Err: err}
		}

		homeScores = append(homeScores, st.HomeScore.Runs())
		awayScores = append(awayScores, st.AwayScore.Runs())
	}

	return WorkerResult{WorkerID: workerID, HomeScores: homeScores, AwayScores: awayScores, State: st}
}

// FirstDomainError returns the first DomainError found across results: a
// DomainError aborts the whole run rather than being silently dropped.
func FirstDomainError(results []WorkerResult) error {
	for _, r := range results {
		if r.Err != nil && simerr.IsDomainError(r.Err) {
			return r.Err
		}
	}
	return nil
}
