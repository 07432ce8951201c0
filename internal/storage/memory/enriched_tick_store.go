package memory

import (
	"context"
	"sort"
	"sync"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/storage"
)

// EnrichedTickStore is an in-memory implementation of
// storage.EnrichedTickStore.
type EnrichedTickStore struct {
	mu    sync.RWMutex
	ticks []*domain.EnrichedTick
}

// NewEnrichedTickStore creates a new in-memory enriched tick store.
func NewEnrichedTickStore() *EnrichedTickStore {
	return &EnrichedTickStore{}
}

// Compile-time interface check.
var _ storage.EnrichedTickStore = (*EnrichedTickStore)(nil)

// InsertBulk writes all ticks. A no-op on empty input.
func (s *EnrichedTickStore) InsertBulk(_ context.Context, ticks []*domain.EnrichedTick) error {
	if len(ticks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range ticks {
		if t == nil || t.Symbol == "" {
			return storage.ErrInvalidInput
		}
	}

	for _, t := range ticks {
		c := *t
		c.Data = make(map[string]float64, len(t.Data))
		for k, v := range t.Data {
			c.Data[k] = v
		}
		s.ticks = append(s.ticks, &c)
	}

	return nil
}

// CountBySymbol returns the number of persisted ticks for a symbol.
func (s *EnrichedTickStore) CountBySymbol(_ context.Context, symbol string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.ticks {
		if t.Symbol == symbol {
			count++
		}
	}
	return count, nil
}

// ScanBySymbol streams all ticks for a symbol ordered by timestamp ASC.
func (s *EnrichedTickStore) ScanBySymbol(_ context.Context, symbol string, fn func(*domain.EnrichedTick) error) error {
	s.mu.RLock()
	var matched []*domain.EnrichedTick
	for _, t := range s.ticks {
		if t.Symbol == symbol {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TimestampMs < matched[j].TimestampMs
	})

	for _, t := range matched {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}
