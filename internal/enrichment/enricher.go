// Package enrichment runs the configured studies over an incoming tick
// stream and persists the enriched series with bounded memory.
package enrichment

import (
	"context"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/observability"
	"forex-backtest-lab/internal/study"
)

// Default window watermarks: once the window holds HighWaterMark ticks, the
// oldest excess down to LowWaterMark is persisted and freed. The retained
// tail preserves lookback for long-window studies.
const (
	DefaultHighWaterMark = 2000
	DefaultLowWaterMark  = 1000
)

// Options configures an Enricher.
type Options struct {
	// Studies run for every tick.
	Studies []study.Study

	// Buffer receives completed segments and evicted ticks.
	Buffer *Buffer

	// MaxGapSeconds is the maximum inter-tick gap; a larger gap terminates
	// the current window segment.
	MaxGapSeconds int64

	// HighWaterMark / LowWaterMark bound the window size. Zero values take
	// the defaults.
	HighWaterMark int
	LowWaterMark  int

	// Workers bounds the parallel study pass. Zero means GOMAXPROCS.
	Workers int

	// Metrics may be nil.
	Metrics *observability.Metrics
}

// Enricher maintains a growing window of ticks, runs every configured study
// per tick in parallel, merges the outputs back into the tick, and manages
// window eviction. Not safe for concurrent use; ticks are processed one at a
// time and the parallelism lives inside Process.
type Enricher struct {
	studies   []study.Study
	buffer    *Buffer
	maxGap    int64
	highWater int
	lowWater  int
	workers   int
	metrics   *observability.Metrics

	window []domain.Tick
}

// NewEnricher creates an Enricher.
func NewEnricher(opts Options) *Enricher {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	high := opts.HighWaterMark
	if high <= 0 {
		high = DefaultHighWaterMark
	}
	low := opts.LowWaterMark
	if low <= 0 {
		low = DefaultLowWaterMark
	}
	return &Enricher{
		studies:   opts.Studies,
		buffer:    opts.Buffer,
		maxGap:    opts.MaxGapSeconds,
		highWater: high,
		lowWater:  low,
		workers:   workers,
		metrics:   opts.Metrics,
	}
}

// WindowSize returns the current number of ticks held in the window.
func (e *Enricher) WindowSize() int { return len(e.window) }

// Process ingests one tick: segments on gaps, appends to the window, runs
// all studies in parallel, merges their outputs into the tick, and evicts
// the oldest excess once the window passes the high-water mark.
func (e *Enricher) Process(ctx context.Context, tick domain.Tick) error {
	if err := tick.Validate(); err != nil {
		return err
	}

	// A gap larger than the configured maximum means the current window is a
	// completed segment: flush it and start over with this tick.
	if n := len(e.window); n > 0 {
		if tick.Timestamp()-e.window[n-1].Timestamp() > e.maxGap {
			e.buffer.Append(ctx, e.window)
			e.window = nil
			if e.metrics != nil {
				e.metrics.SegmentsFlushed.Inc()
			}
		}
	}

	e.window = append(e.window, tick)

	if err := e.runStudies(ctx, tick); err != nil {
		return err
	}

	// Size-based eviction: persist the oldest excess down to the low-water
	// mark and free the evicted entries.
	if len(e.window) >= e.highWater {
		cut := len(e.window) - e.lowWater
		e.buffer.Append(ctx, e.window[:cut])

		retained := make([]domain.Tick, e.lowWater)
		copy(retained, e.window[cut:])
		e.window = retained
	}

	if e.metrics != nil {
		e.metrics.TicksEnriched.Inc()
		e.metrics.WindowSize.Set(float64(len(e.window)))
	}

	return nil
}

// Flush persists whatever remains in the window. Call once after the final
// tick so every tick is persisted exactly once.
func (e *Enricher) Flush(ctx context.Context) {
	if len(e.window) == 0 {
		return
	}
	e.buffer.Append(ctx, e.window)
	e.window = nil
	if e.metrics != nil {
		e.metrics.WindowSize.Set(0)
	}
}

// runStudies gives every study the current window, runs all Tick calls in
// parallel, waits for the barrier, and merges the renamed outputs into the
// tick. Studies only read the shared window and write private state, so the
// single barrier is the only synchronization needed.
func (e *Enricher) runStudies(ctx context.Context, tick domain.Tick) error {
	start := time.Now()

	for _, st := range e.studies {
		st.SetData(e.window)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, st := range e.studies {
		g.Go(func() error {
			st.Tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Merge outputs. A study lacking sufficient history emitted nothing for
	// its fields; those become NaN so every tick carries the full field set
	// and absence stays distinguishable from zero.
	for _, st := range e.studies {
		outputs := st.TickOutputs()
		for _, renamed := range st.OutputMap() {
			if v, ok := outputs[renamed]; ok {
				tick[renamed] = v
			} else {
				tick[renamed] = math.NaN()
			}
		}
	}

	if e.metrics != nil {
		e.metrics.StudyDuration.Observe(time.Since(start).Seconds())
	}

	return nil
}
