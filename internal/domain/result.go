package domain

// OptimizationResult is the per-configuration summary produced by one
// backtest simulation. Ranking or selecting configurations is left to the
// caller.
type OptimizationResult struct {
	RunID        string
	Index        int
	Symbol       string
	StrategyType string
	Group        int

	ProfitLoss               float64
	WinCount                 int
	LoseCount                int
	WinRate                  float64
	TradeCount               int
	MaximumConsecutiveLosses int
	MinimumProfitLoss        float64

	Configuration *Configuration
}
