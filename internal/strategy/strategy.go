// Package strategy holds the trade-decision collaborators driven by the
// backtest scheduler: one strategy instance per configuration, each owning
// its positions and run state.
package strategy

import (
	"math"

	"forex-backtest-lab/internal/domain"
)

// Type identifies a strategy variant. The variant set is closed; new
// variants are added here and in the factory.
type Type string

// Strategy variants.
const (
	TypeTrend    Type = "TREND"
	TypeReversal Type = "REVERSAL"
)

// DefaultExpiryMinutes applies when a configuration does not set
// expiryMinutes.
const DefaultExpiryMinutes = 5

// Strategy runs one independent simulation over enriched matrix rows.
// Implementations are not safe for concurrent use; the scheduler guarantees
// a strategy sees rows strictly in time order from a single goroutine at a
// time.
type Strategy interface {
	// Tick advances cumulative state for a row: expired positions settle at
	// the row's close price.
	Tick(row []float64)

	// Backtest processes one row: settles expired positions, evaluates the
	// entry rules against the current and previous rows, and may open new
	// positions.
	Backtest(row []float64, investment, profitability float64)

	// Results returns the per-configuration result summary.
	Results() *domain.OptimizationResult
}

// base carries what every strategy variant shares: identity, configuration,
// run state and the previous row for edge-triggered entry rules.
type base struct {
	symbol string
	typ    Type
	group  int
	cfg    *domain.Configuration
	state  RunState
	prev   []float64
}

func newBase(typ Type, symbol string, group int, cfg *domain.Configuration) base {
	return base{
		symbol: symbol,
		typ:    typ,
		group:  group,
		cfg:    cfg,
	}
}

// Tick implements Strategy.
func (b *base) Tick(row []float64) {
	b.state.SettleExpired(row[b.cfg.Close], int64(row[b.cfg.Timestamp]))
}

// Results implements Strategy.
func (b *base) Results() *domain.OptimizationResult {
	return &domain.OptimizationResult{
		Symbol:                   b.symbol,
		StrategyType:             string(b.typ),
		Group:                    b.group,
		ProfitLoss:               b.state.ProfitLoss,
		WinCount:                 b.state.WinCount,
		LoseCount:                b.state.LoseCount,
		WinRate:                  b.state.WinRate(),
		TradeCount:               b.state.TradeCount,
		MaximumConsecutiveLosses: b.state.MaximumConsecutiveLosses,
		MinimumProfitLoss:        b.state.MinimumProfitLoss,
		Configuration:            b.cfg,
	}
}

func (b *base) expiryMinutes() int64 {
	return int64(b.cfg.Value("expiryMinutes", DefaultExpiryMinutes))
}

func (b *base) openCall(row []float64, investment, profitability float64) {
	b.state.Open(NewCall(row[b.cfg.Close], int64(row[b.cfg.Timestamp]), investment, profitability, b.expiryMinutes()))
}

func (b *base) openPut(row []float64, investment, profitability float64) {
	b.state.Open(NewPut(row[b.cfg.Close], int64(row[b.cfg.Timestamp]), investment, profitability, b.expiryMinutes()))
}

// column reads a resolved configuration column from a row. The second result
// is false when the field is not configured or the study had not warmed up
// at this row; callers must treat that as "not ready" and skip trading.
func (b *base) column(row []float64, field string) (float64, bool) {
	pos, ok := b.cfg.Columns[field]
	if !ok {
		return 0, false
	}
	v := row[pos]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
