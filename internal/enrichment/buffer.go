package enrichment

import (
	"context"
	"log"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/observability"
	"forex-backtest-lab/internal/storage"
)

// Buffer commits batches of enriched ticks durably. Each tick is tagged with
// the symbol and its testing/validation groups; the group fields are stripped
// from the stored data map so they never collide with indicator columns.
//
// Write failures are reported as warnings and do not abort ingestion: the
// series can be regenerated by rerunning ingestion.
type Buffer struct {
	store   storage.EnrichedTickStore
	symbol  string
	logger  *log.Logger
	metrics *observability.Metrics
}

// NewBuffer creates a persistence buffer for one symbol. logger and metrics
// may be nil.
func NewBuffer(store storage.EnrichedTickStore, symbol string, logger *log.Logger, metrics *observability.Metrics) *Buffer {
	return &Buffer{
		store:   store,
		symbol:  symbol,
		logger:  logger,
		metrics: metrics,
	}
}

// Append tags and writes all ticks as one bulk operation. A no-op on empty
// input.
func (b *Buffer) Append(ctx context.Context, ticks []domain.Tick) {
	if len(ticks) == 0 {
		return
	}

	records := make([]*domain.EnrichedTick, len(ticks))
	for i, t := range ticks {
		records[i] = domain.EnrichTick(b.symbol, t)
	}

	if err := b.store.InsertBulk(ctx, records); err != nil {
		if b.logger != nil {
			b.logger.Printf("WARN: persist %d ticks for %s: %v", len(records), b.symbol, err)
		}
		if b.metrics != nil {
			b.metrics.PersistFailures.Inc()
		}
		return
	}

	if b.metrics != nil {
		b.metrics.TicksPersisted.Add(float64(len(records)))
	}
}
