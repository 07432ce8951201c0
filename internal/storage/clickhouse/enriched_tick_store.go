package clickhouse

import (
	"context"
	"fmt"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/storage"
)

// EnrichedTickStore implements storage.EnrichedTickStore using ClickHouse.
// Enriched ticks are append-only time-series data, which is what the
// MergeTree engine is built for.
type EnrichedTickStore struct {
	conn *Conn
}

// NewEnrichedTickStore creates a new EnrichedTickStore.
func NewEnrichedTickStore(conn *Conn) *EnrichedTickStore {
	return &EnrichedTickStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EnrichedTickStore = (*EnrichedTickStore)(nil)

// InsertBulk writes all ticks as one batch. A no-op on empty input.
func (s *EnrichedTickStore) InsertBulk(ctx context.Context, ticks []*domain.EnrichedTick) error {
	if len(ticks) == 0 {
		return nil
	}

	for _, t := range ticks {
		if t == nil || t.Symbol == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO enriched_ticks (
			symbol, testing_group, validation_group, timestamp_ms, data
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range ticks {
		err = batch.Append(
			t.Symbol, int32(t.TestingGroup), int32(t.ValidationGroup),
			uint64(t.TimestampMs), t.Data,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountBySymbol returns the number of persisted ticks for a symbol.
func (s *EnrichedTickStore) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	query := `SELECT count(*) FROM enriched_ticks WHERE symbol = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by symbol: %w", err)
	}
	return int(count), nil
}

// ScanBySymbol streams all ticks for a symbol ordered by timestamp ASC.
func (s *EnrichedTickStore) ScanBySymbol(ctx context.Context, symbol string, fn func(*domain.EnrichedTick) error) error {
	query := `
		SELECT symbol, testing_group, validation_group, timestamp_ms, data
		FROM enriched_ticks
		WHERE symbol = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.EnrichedTick
		var testingGroup, validationGroup int32
		var timestampMs uint64

		err := rows.Scan(&t.Symbol, &testingGroup, &validationGroup, &timestampMs, &t.Data)
		if err != nil {
			return fmt.Errorf("scan enriched tick row: %w", err)
		}

		t.TestingGroup = int(testingGroup)
		t.ValidationGroup = int(validationGroup)
		t.TimestampMs = int64(timestampMs)

		if err := fn(&t); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate enriched tick rows: %w", err)
	}

	return nil
}
