package matrix

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/enrichment"
	"forex-backtest-lab/internal/storage/memory"
	"forex-backtest-lab/internal/study"
)

func seedTicks(t *testing.T, store *memory.EnrichedTickStore, ticks ...*domain.EnrichedTick) {
	t.Helper()
	require.NoError(t, store.InsertBulk(context.Background(), ticks))
}

func TestLoaderNoRows(t *testing.T) {
	loader := NewLoader(memory.NewEnrichedTickStore(), nil)
	_, err := loader.Load(context.Background(), "EURUSD")
	require.ErrorIs(t, err, ErrNoRows)
}

func TestLoaderFreezesSortedIndex(t *testing.T) {
	store := memory.NewEnrichedTickStore()
	seedTicks(t, store, &domain.EnrichedTick{
		Symbol:      "EURUSD",
		TimestampMs: 1000,
		Data:        map[string]float64{"timestamp": 1, "close": 1.11, "sma13": 1.10, "open": 1.09},
	})

	loader := NewLoader(store, nil)
	m, err := loader.Load(context.Background(), "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, []string{"close", "open", "sma13", "timestamp"}, m.Columns().Names())
	assert.Equal(t, 4, m.Columns().Width())

	pos, ok := m.Columns().Lookup("sma13")
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	_, err = m.Columns().MustLookup("missing")
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestLoaderRoundTrip(t *testing.T) {
	store := memory.NewEnrichedTickStore()
	seedTicks(t, store,
		&domain.EnrichedTick{
			Symbol:      "EURUSD",
			TimestampMs: 2000,
			Data:        map[string]float64{"timestamp": 2, "close": 1.12},
		},
		&domain.EnrichedTick{
			Symbol:      "EURUSD",
			TimestampMs: 1000,
			Data:        map[string]float64{"timestamp": 1, "close": 1.11},
		},
	)

	loader := NewLoader(store, nil)
	m, err := loader.Load(context.Background(), "EURUSD")
	require.NoError(t, err)

	require.Equal(t, 2, m.Rows())
	closePos, _ := m.Columns().Lookup("close")

	// Rows come back in ascending timestamp order regardless of insert order.
	assert.Equal(t, 1.11, m.Row(0)[closePos])
	assert.Equal(t, 1.12, m.Row(1)[closePos])
}

func TestEnrichedSeriesRoundTrip(t *testing.T) {
	store := memory.NewEnrichedTickStore()
	enricher := enrichment.NewEnricher(enrichment.Options{
		Studies:       []study.Study{study.NewSMA(3, "sma3"), study.NewEMA(5, "ema5")},
		Buffer:        enrichment.NewBuffer(store, "EURUSD", nil, nil),
		MaxGapSeconds: 60,
	})

	ctx := context.Background()
	ticks := make([]domain.Tick, 10)
	for i := range ticks {
		close := 1.10 + float64(i)*0.002
		ticks[i] = domain.NewTick(int64(1600000000+i), close-0.001, close+0.001, close-0.002, close)
		ticks[i][domain.FieldTestingGroup] = float64(i % 3)
		require.NoError(t, enricher.Process(ctx, ticks[i]))
	}
	enricher.Flush(ctx)

	m, err := NewLoader(store, nil).Load(ctx, "EURUSD")
	require.NoError(t, err)
	require.Equal(t, 10, m.Rows())

	// Every enriched field survives persistence with its value intact; the
	// routing field is stripped.
	_, ok := m.Columns().Lookup(domain.FieldTestingGroup)
	assert.False(t, ok)

	for i, tick := range ticks {
		row := m.Row(i)
		for _, name := range m.Columns().Names() {
			pos, _ := m.Columns().Lookup(name)
			want := tick[name]
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(row[pos]), "row %d field %s", i, name)
				continue
			}
			assert.InDelta(t, want, row[pos], 1e-12, "row %d field %s", i, name)
		}
	}
}

func TestLoaderSchemaMismatch(t *testing.T) {
	t.Run("extra field", func(t *testing.T) {
		store := memory.NewEnrichedTickStore()
		seedTicks(t, store,
			&domain.EnrichedTick{
				Symbol: "EURUSD", TimestampMs: 1000,
				Data: map[string]float64{"close": 1.11},
			},
			&domain.EnrichedTick{
				Symbol: "EURUSD", TimestampMs: 2000,
				Data: map[string]float64{"close": 1.12, "sma13": 1.10},
			},
		)

		_, err := NewLoader(store, nil).Load(context.Background(), "EURUSD")
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("renamed field", func(t *testing.T) {
		store := memory.NewEnrichedTickStore()
		seedTicks(t, store,
			&domain.EnrichedTick{
				Symbol: "EURUSD", TimestampMs: 1000,
				Data: map[string]float64{"close": 1.11},
			},
			&domain.EnrichedTick{
				Symbol: "EURUSD", TimestampMs: 2000,
				Data: map[string]float64{"last": 1.12},
			},
		)

		_, err := NewLoader(store, nil).Load(context.Background(), "EURUSD")
		require.ErrorIs(t, err, ErrSchemaMismatch)
		require.True(t, errors.Is(err, ErrSchemaMismatch))
	})
}
