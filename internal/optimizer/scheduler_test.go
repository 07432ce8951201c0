package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-backtest-lab/internal/configspace"
	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/matrix"
	"forex-backtest-lab/internal/storage/memory"
	"forex-backtest-lab/internal/strategy"
)

// seedMatrix persists a synthetic enriched series carrying a trending
// moving-average stack so the trend strategy actually trades, and loads it.
func seedMatrix(t *testing.T, rows int) *matrix.Matrix {
	t.Helper()

	store := memory.NewEnrichedTickStore()
	ticks := make([]*domain.EnrichedTick, rows)
	for i := 0; i < rows; i++ {
		close := 1.10 + float64(i%7)*0.001
		ticks[i] = &domain.EnrichedTick{
			Symbol:      "EURUSD",
			TimestampMs: int64(1600000000+i*60) * 1000,
			Data: map[string]float64{
				"timestamp": float64(1600000000 + i*60),
				"open":      close,
				"high":      close + 0.001,
				"low":       close - 0.001,
				"close":     close,
				"sma13":     1.035,
				"ema50":     1.02,
				"ema100":    1.01,
				"ema200":    1.00,
				"rsi":       50 + float64(i%3),
			},
		}
	}
	require.NoError(t, store.InsertBulk(context.Background(), ticks))

	m, err := matrix.NewLoader(store, nil).Load(context.Background(), "EURUSD")
	require.NoError(t, err)
	return m
}

func trendAxes() []domain.Axis {
	return []domain.Axis{
		{
			Name: "stack",
			Candidates: []domain.Candidate{
				{
					"sma13":  domain.ColumnValue("sma13"),
					"ema50":  domain.ColumnValue("ema50"),
					"ema100": domain.ColumnValue("ema100"),
					"ema200": domain.ColumnValue("ema200"),
				},
			},
		},
		{
			Name: "rsi",
			Candidates: []domain.Candidate{
				{},
				{"rsi": domain.ColumnValue("rsi"), "rsiOversold": domain.NumberValue(23)},
				{"rsi": domain.ColumnValue("rsi"), "rsiOversold": domain.NumberValue(40)},
			},
		},
		{
			Name: "expiry",
			Candidates: []domain.Candidate{
				{"expiryMinutes": domain.NumberValue(5)},
				{"expiryMinutes": domain.NumberValue(15)},
			},
		},
	}
}

func buildConfigurations(t *testing.T, m *matrix.Matrix) []*domain.Configuration {
	t.Helper()
	configurations, err := configspace.NewBuilder(m.Columns()).Build(trendAxes())
	require.NoError(t, err)
	return configurations
}

func TestSchedulerRunProducesOneResultPerConfiguration(t *testing.T) {
	m := seedMatrix(t, 120)
	configurations := buildConfigurations(t, m)
	require.Len(t, configurations, 6)

	s := NewScheduler(Options{
		RunID:         "run-1",
		Investment:    1000,
		Profitability: 0.76,
		Workers:       4,
	})

	results, err := s.Run(context.Background(), m, strategy.TypeTrend, "EURUSD", 2, configurations)
	require.NoError(t, err)
	require.Len(t, results, 6)

	traded := false
	for i, r := range results {
		assert.Equal(t, "run-1", r.RunID)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "EURUSD", r.Symbol)
		assert.Equal(t, "TREND", r.StrategyType)
		assert.Equal(t, 2, r.Group)
		assert.Same(t, configurations[i], r.Configuration)
		if r.TradeCount > 0 {
			traded = true
		}
	}
	assert.True(t, traded, "the seeded stack must produce trades")
}

func TestSchedulerDeterministicAcrossWorkerCounts(t *testing.T) {
	m := seedMatrix(t, 150)

	run := func(workers int) []*domain.OptimizationResult {
		configurations := buildConfigurations(t, m)
		s := NewScheduler(Options{
			RunID:         "run-det",
			Investment:    1000,
			Profitability: 0.76,
			Workers:       workers,
		})
		results, err := s.Run(context.Background(), m, strategy.TypeTrend, "EURUSD", 0, configurations)
		require.NoError(t, err)
		return results
	}

	serial := run(1)
	for _, workers := range []int{2, 7, 32} {
		parallel := run(workers)
		require.Len(t, parallel, len(serial))
		for i := range serial {
			assert.Equal(t, serial[i].ProfitLoss, parallel[i].ProfitLoss, "workers=%d index=%d", workers, i)
			assert.Equal(t, serial[i].TradeCount, parallel[i].TradeCount, "workers=%d index=%d", workers, i)
			assert.Equal(t, serial[i].WinCount, parallel[i].WinCount, "workers=%d index=%d", workers, i)
			assert.Equal(t, serial[i].MaximumConsecutiveLosses, parallel[i].MaximumConsecutiveLosses, "workers=%d index=%d", workers, i)
		}
	}
}

func TestSchedulerUnknownStrategyType(t *testing.T) {
	m := seedMatrix(t, 10)
	configurations := buildConfigurations(t, m)

	s := NewScheduler(Options{RunID: "run-x"})
	_, err := s.Run(context.Background(), m, strategy.Type("MOMENTUM"), "EURUSD", 0, configurations)
	require.ErrorIs(t, err, strategy.ErrUnknownStrategyType)
}

func TestSchedulerObservesCancellation(t *testing.T) {
	m := seedMatrix(t, 50)
	configurations := buildConfigurations(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(Options{RunID: "run-c", Workers: 2})
	_, err := s.Run(ctx, m, strategy.TypeTrend, "EURUSD", 0, configurations)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChunkBounds(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		chunks := chunkBounds(8, 4)
		require.Len(t, chunks, 4)
		assert.Equal(t, bounds{0, 2}, chunks[0])
		assert.Equal(t, bounds{6, 8}, chunks[3])
	})

	t.Run("remainder spreads forward", func(t *testing.T) {
		chunks := chunkBounds(10, 4)
		require.Len(t, chunks, 4)
		assert.Equal(t, bounds{0, 3}, chunks[0])
		assert.Equal(t, bounds{3, 6}, chunks[1])
		assert.Equal(t, bounds{6, 8}, chunks[2])
		assert.Equal(t, bounds{8, 10}, chunks[3])
	})

	t.Run("more workers than items", func(t *testing.T) {
		chunks := chunkBounds(3, 8)
		require.Len(t, chunks, 3)
		for i, c := range chunks {
			assert.Equal(t, bounds{i, i + 1}, c)
		}
	})

	t.Run("zero items", func(t *testing.T) {
		assert.Empty(t, chunkBounds(0, 4))
	})

	t.Run("full coverage without overlap", func(t *testing.T) {
		chunks := chunkBounds(17, 5)
		covered := 0
		for i, c := range chunks {
			if i > 0 {
				assert.Equal(t, chunks[i-1].hi, c.lo)
			}
			covered += c.hi - c.lo
		}
		assert.Equal(t, 17, covered)
	})
}
