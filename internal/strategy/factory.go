package strategy

import (
	"errors"
	"fmt"

	"forex-backtest-lab/internal/domain"
)

// Factory errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrMissingColumn       = errors.New("configuration missing required column")
)

// New creates a Strategy of the given variant for one configuration.
// Required columns are validated up front so a malformed configuration fails
// before any work starts.
func New(typ Type, symbol string, group int, cfg *domain.Configuration) (Strategy, error) {
	switch typ {
	case TypeTrend:
		if err := requireColumns(cfg, "sma13", "ema50", "ema100", "ema200"); err != nil {
			return nil, err
		}
		return NewTrendStrategy(symbol, group, cfg), nil
	case TypeReversal:
		if err := requireColumns(cfg, "prChannelUpper", "prChannelLower", "rsi", "stochasticK"); err != nil {
			return nil, err
		}
		return NewReversalStrategy(symbol, group, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategyType, typ)
	}
}

func requireColumns(cfg *domain.Configuration, fields ...string) error {
	for _, f := range fields {
		if !cfg.HasColumn(f) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, f)
		}
	}
	return nil
}
