package memory

import (
	"context"
	"sort"
	"sync"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/storage"
)

// OptimizationResultStore is an in-memory implementation of
// storage.OptimizationResultStore.
type OptimizationResultStore struct {
	mu      sync.RWMutex
	results []*domain.OptimizationResult
}

// NewOptimizationResultStore creates a new in-memory result store.
func NewOptimizationResultStore() *OptimizationResultStore {
	return &OptimizationResultStore{}
}

// Compile-time interface check.
var _ storage.OptimizationResultStore = (*OptimizationResultStore)(nil)

// InsertBulk writes all results. A no-op on empty input.
func (s *OptimizationResultStore) InsertBulk(_ context.Context, results []*domain.OptimizationResult) error {
	if len(results) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range results {
		if r == nil || r.RunID == "" {
			return storage.ErrInvalidInput
		}
	}

	for _, r := range results {
		c := *r
		s.results = append(s.results, &c)
	}

	return nil
}

// GetByRunID retrieves all results for a run, ordered by configuration index
// ASC.
func (s *OptimizationResultStore) GetByRunID(_ context.Context, runID string) ([]*domain.OptimizationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.OptimizationResult
	for _, r := range s.results {
		if r.RunID == runID {
			c := *r
			matched = append(matched, &c)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Index < matched[j].Index
	})

	return matched, nil
}
