package strategy

import "forex-backtest-lab/internal/domain"

// ReversalStrategy trades regression-channel breaches: a put when price
// crosses out above the upper channel bound with RSI and stochastic %K both
// overbought, a call on the mirror breach below the lower bound with both
// oversold. Entries are edge-triggered against the previous row so a
// sustained breach opens at most one position.
type ReversalStrategy struct {
	base
}

// NewReversalStrategy creates a ReversalStrategy for one configuration.
func NewReversalStrategy(symbol string, group int, cfg *domain.Configuration) *ReversalStrategy {
	return &ReversalStrategy{base: newBase(TypeReversal, symbol, group, cfg)}
}

// Backtest implements Strategy.
func (s *ReversalStrategy) Backtest(row []float64, investment, profitability float64) {
	s.Tick(row)

	prev := s.prev
	s.prev = row
	if prev == nil {
		return
	}

	if s.state.HasOpenPositions() {
		return
	}

	upper, ok := s.column(row, "prChannelUpper")
	if !ok {
		return
	}
	lower, ok := s.column(row, "prChannelLower")
	if !ok {
		return
	}
	prevUpper, ok := s.column(prev, "prChannelUpper")
	if !ok {
		return
	}
	prevLower, ok := s.column(prev, "prChannelLower")
	if !ok {
		return
	}
	rsi, ok := s.column(row, "rsi")
	if !ok {
		return
	}
	stochasticK, ok := s.column(row, "stochasticK")
	if !ok {
		return
	}

	close := row[s.cfg.Close]
	prevClose := prev[s.cfg.Close]

	rsiOverbought := s.cfg.Value("rsiOverbought", 77)
	rsiOversold := s.cfg.Value("rsiOversold", 23)
	stochasticOverbought := s.cfg.Value("stochasticOverbought", 77)
	stochasticOversold := s.cfg.Value("stochasticOversold", 23)

	breachedUp := close > upper && prevClose <= prevUpper
	breachedDown := close < lower && prevClose >= prevLower

	switch {
	case breachedUp && rsi >= rsiOverbought && stochasticK >= stochasticOverbought:
		s.openPut(row, investment, profitability)
	case breachedDown && rsi <= rsiOversold && stochasticK <= stochasticOversold:
		s.openCall(row, investment, profitability)
	}
}

var _ Strategy = (*ReversalStrategy)(nil)
