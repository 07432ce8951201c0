package strategy

// RunState is the per-configuration accumulator: open positions, cumulative
// profit/loss, win/lose counts, the consecutive-loss streak and the
// minimum-P/L watermark. It is mutated by exactly one worker per tick and
// never shared across configurations.
type RunState struct {
	openPositions []Position

	ProfitLoss               float64
	WinCount                 int
	LoseCount                int
	TradeCount               int
	MaximumConsecutiveLosses int
	MinimumProfitLoss        float64

	consecutiveLosses int
}

// HasOpenPositions reports whether any position is still open.
func (s *RunState) HasOpenPositions() bool { return len(s.openPositions) > 0 }

// Open records a newly opened position as one trade.
func (s *RunState) Open(p Position) {
	s.openPositions = append(s.openPositions, p)
	s.TradeCount++
}

// SettleExpired closes every expired open position at the given settlement
// price and folds the outcomes into the cumulative counters. A tie returns
// the stake and leaves the loss streak unchanged.
func (s *RunState) SettleExpired(settlementPrice float64, timestamp int64) {
	if len(s.openPositions) == 0 {
		return
	}

	remaining := s.openPositions[:0]
	for _, p := range s.openPositions {
		if !p.HasExpired(timestamp) {
			remaining = append(remaining, p)
			continue
		}

		p.Close(settlementPrice, timestamp)
		s.ProfitLoss += p.ProfitLoss()

		switch p.Outcome() {
		case OutcomeWin:
			s.WinCount++
			s.consecutiveLosses = 0
		case OutcomeLoss:
			s.LoseCount++
			s.consecutiveLosses++
			if s.consecutiveLosses > s.MaximumConsecutiveLosses {
				s.MaximumConsecutiveLosses = s.consecutiveLosses
			}
		}

		if s.ProfitLoss < s.MinimumProfitLoss {
			s.MinimumProfitLoss = s.ProfitLoss
		}
	}
	s.openPositions = remaining
}

// WinRate returns winCount/(winCount+loseCount), or 0 when no position has
// settled as a win or loss.
func (s *RunState) WinRate() float64 {
	settled := s.WinCount + s.LoseCount
	if settled == 0 {
		return 0
	}
	return float64(s.WinCount) / float64(settled)
}
