// Package optimizer drives one independent strategy simulation per
// configuration across a loaded data matrix, tick by tick, with a full
// synchronization barrier between time steps.
package optimizer

import (
	"context"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/matrix"
	"forex-backtest-lab/internal/observability"
	"forex-backtest-lab/internal/strategy"
)

// Options configures a Scheduler.
type Options struct {
	// RunID stamps every produced result.
	RunID string

	// Investment and Profitability are passed through to every Backtest
	// call.
	Investment    float64
	Profitability float64

	// Workers bounds the per-tick parallelism. Zero means GOMAXPROCS.
	Workers int

	// Logger and Metrics may be nil.
	Logger  *log.Logger
	Metrics *observability.Metrics
}

// Scheduler runs the optimization phase: work is parallel across
// configurations but strictly ordered in time within each configuration.
// All configurations finish tick i before any begins tick i+1, so
// per-configuration execution order is identical to a single-threaded run
// regardless of worker count.
type Scheduler struct {
	runID         string
	investment    float64
	profitability float64
	workers       int
	logger        *log.Logger
	metrics       *observability.Metrics
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts Options) *Scheduler {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{
		runID:         opts.RunID,
		investment:    opts.Investment,
		profitability: opts.Profitability,
		workers:       workers,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
}

// Run instantiates one strategy per configuration and drives all of them
// across every matrix row. Cancellation is observed only at barrier points;
// in-flight per-tick work is short, bounded and non-blocking.
func (s *Scheduler) Run(
	ctx context.Context,
	m *matrix.Matrix,
	typ strategy.Type,
	symbol string,
	group int,
	configurations []*domain.Configuration,
) ([]*domain.OptimizationResult, error) {
	strategies := make([]strategy.Strategy, len(configurations))
	for i, cfg := range configurations {
		st, err := strategy.New(typ, symbol, group, cfg)
		if err != nil {
			return nil, err
		}
		strategies[i] = st
	}

	if s.logger != nil {
		s.logger.Printf("optimizing %d configurations over %d rows", len(strategies), m.Rows())
	}

	chunks := chunkBounds(len(strategies), s.workers)

	rows := m.Rows()
	completed := 0
	logEvery := rows / 10
	if logEvery == 0 {
		logEvery = 1
	}

	for i := 0; i < rows; i++ {
		row := m.Row(i)
		start := time.Now()

		// Fork-join: every configuration's work for this tick completes
		// before any begins the next one. Each strategy is touched by
		// exactly one goroutine, so no locking is needed.
		g := new(errgroup.Group)
		for _, c := range chunks {
			batch := strategies[c.lo:c.hi]
			g.Go(func() error {
				for _, st := range batch {
					st.Backtest(row, s.investment, s.profitability)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Progress bookkeeping is kept off the loop counter.
		completed++
		if s.metrics != nil {
			s.metrics.OptimizationProgress.Set(float64(completed) / float64(rows) * 100)
			s.metrics.TickBarrierDuration.Observe(time.Since(start).Seconds())
		}
		if s.logger != nil && completed%logEvery == 0 {
			s.logger.Printf("optimizing... %.1f%%", float64(completed)/float64(rows)*100)
		}
	}

	results := make([]*domain.OptimizationResult, len(strategies))
	for i, st := range strategies {
		r := st.Results()
		r.RunID = s.runID
		r.Index = i
		results[i] = r
	}

	if s.metrics != nil {
		s.metrics.SimulationsCompleted.Add(float64(len(results)))
	}

	return results, nil
}

type bounds struct{ lo, hi int }

// chunkBounds splits n items into at most workers contiguous chunks. The
// assignment is fixed for the whole run so each strategy always runs on the
// same chunk.
func chunkBounds(n, workers int) []bounds {
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}

	chunks := make([]bounds, 0, workers)
	size := n / workers
	rem := n % workers
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + size
		if w < rem {
			hi++
		}
		chunks = append(chunks, bounds{lo: lo, hi: hi})
		lo = hi
	}
	return chunks
}
