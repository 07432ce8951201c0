package storage

import (
	"context"

	"forex-backtest-lab/internal/domain"
)

// EnrichedTickStore provides access to the enriched-tick collection keyed by
// symbol.
type EnrichedTickStore interface {
	// InsertBulk writes all ticks as one bulk operation. A no-op on empty
	// input.
	InsertBulk(ctx context.Context, ticks []*domain.EnrichedTick) error

	// CountBySymbol returns the number of persisted ticks for a symbol.
	CountBySymbol(ctx context.Context, symbol string) (int, error)

	// ScanBySymbol streams all ticks for a symbol in ascending timestamp
	// order, invoking fn once per tick. Scanning stops at the first error
	// returned by fn.
	ScanBySymbol(ctx context.Context, symbol string, fn func(*domain.EnrichedTick) error) error
}

// OptimizationResultStore provides access to per-configuration backtest
// result summaries.
type OptimizationResultStore interface {
	// InsertBulk writes all results of one run. A no-op on empty input.
	InsertBulk(ctx context.Context, results []*domain.OptimizationResult) error

	// GetByRunID retrieves all results for a run, ordered by configuration
	// index ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.OptimizationResult, error)
}
