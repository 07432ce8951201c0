package strategy

import "forex-backtest-lab/internal/domain"

// TrendStrategy trades moving-average stack alignment: a put when the EMA
// stack orders ema200 < ema100 < ema50 < sma13, a call on the mirror
// ordering. An optional RSI column gates entries away from exhausted moves.
type TrendStrategy struct {
	base
}

// NewTrendStrategy creates a TrendStrategy for one configuration.
func NewTrendStrategy(symbol string, group int, cfg *domain.Configuration) *TrendStrategy {
	return &TrendStrategy{base: newBase(TypeTrend, symbol, group, cfg)}
}

// Backtest implements Strategy.
func (s *TrendStrategy) Backtest(row []float64, investment, profitability float64) {
	s.Tick(row)

	prev := s.prev
	s.prev = row
	if prev == nil {
		return
	}

	// One position at a time.
	if s.state.HasOpenPositions() {
		return
	}

	sma13, ok := s.column(row, "sma13")
	if !ok {
		return
	}
	ema50, ok := s.column(row, "ema50")
	if !ok {
		return
	}
	ema100, ok := s.column(row, "ema100")
	if !ok {
		return
	}
	ema200, ok := s.column(row, "ema200")
	if !ok {
		return
	}

	downtrend := ema200 < ema100 && ema100 < ema50 && ema50 < sma13
	uptrend := ema200 > ema100 && ema100 > ema50 && ema50 > sma13

	if rsi, ok := s.column(row, "rsi"); ok {
		// Skip entries into exhausted moves.
		if downtrend && rsi <= s.cfg.Value("rsiOversold", 23) {
			downtrend = false
		}
		if uptrend && rsi >= s.cfg.Value("rsiOverbought", 77) {
			uptrend = false
		}
	}

	switch {
	case downtrend:
		s.openPut(row, investment, profitability)
	case uptrend:
		s.openCall(row, investment, profitability)
	}
}

var _ Strategy = (*TrendStrategy)(nil)
