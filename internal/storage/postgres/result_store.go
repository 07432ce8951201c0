package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/storage"
)

// OptimizationResultStore implements storage.OptimizationResultStore using
// PostgreSQL. The resolved configuration is stored as JSONB next to the
// summary columns so a run remains reproducible from its results alone.
type OptimizationResultStore struct {
	pool *Pool
}

// NewOptimizationResultStore creates a new OptimizationResultStore.
func NewOptimizationResultStore(pool *Pool) *OptimizationResultStore {
	return &OptimizationResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OptimizationResultStore = (*OptimizationResultStore)(nil)

// InsertBulk writes all results of one run. A no-op on empty input.
func (s *OptimizationResultStore) InsertBulk(ctx context.Context, results []*domain.OptimizationResult) error {
	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range results {
		if r == nil || r.RunID == "" {
			return storage.ErrInvalidInput
		}

		cfg, err := json.Marshal(r.Configuration)
		if err != nil {
			return fmt.Errorf("marshal configuration: %w", err)
		}

		batch.Queue(`
			INSERT INTO optimization_results (
				run_id, result_index, symbol, strategy_type, group_number,
				profit_loss, win_count, lose_count, win_rate, trade_count,
				maximum_consecutive_losses, minimum_profit_loss, configuration
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
			r.RunID, r.Index, r.Symbol, r.StrategyType, r.Group,
			r.ProfitLoss, r.WinCount, r.LoseCount, r.WinRate, r.TradeCount,
			r.MaximumConsecutiveLosses, r.MinimumProfitLoss, cfg,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert optimization result: %w", err)
		}
	}

	return nil
}

// GetByRunID retrieves all results for a run, ordered by configuration index
// ASC.
func (s *OptimizationResultStore) GetByRunID(ctx context.Context, runID string) ([]*domain.OptimizationResult, error) {
	query := `
		SELECT run_id, result_index, symbol, strategy_type, group_number,
			profit_loss, win_count, lose_count, win_rate, trade_count,
			maximum_consecutive_losses, minimum_profit_loss, configuration
		FROM optimization_results
		WHERE run_id = $1
		ORDER BY result_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	var results []*domain.OptimizationResult
	for rows.Next() {
		var r domain.OptimizationResult
		var cfg []byte

		err := rows.Scan(
			&r.RunID, &r.Index, &r.Symbol, &r.StrategyType, &r.Group,
			&r.ProfitLoss, &r.WinCount, &r.LoseCount, &r.WinRate, &r.TradeCount,
			&r.MaximumConsecutiveLosses, &r.MinimumProfitLoss, &cfg,
		)
		if err != nil {
			return nil, fmt.Errorf("scan optimization result row: %w", err)
		}

		if len(cfg) > 0 {
			r.Configuration = &domain.Configuration{}
			if err := json.Unmarshal(cfg, r.Configuration); err != nil {
				return nil, fmt.Errorf("unmarshal configuration: %w", err)
			}
		}

		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate optimization result rows: %w", err)
	}

	return results, nil
}
