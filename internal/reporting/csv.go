package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders optimization results as a CSV string.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("index,symbol,strategy_type,group,profit_loss,win_count,lose_count,win_rate,")
	sb.WriteString("trade_count,maximum_consecutive_losses,minimum_profit_loss\n")

	// Rows
	for _, res := range r.Results {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%d,%.6f,%d,%d,%.6f,%d,%d,%.6f\n",
			res.Index,
			res.Symbol,
			res.StrategyType,
			res.Group,
			res.ProfitLoss,
			res.WinCount,
			res.LoseCount,
			res.WinRate,
			res.TradeCount,
			res.MaximumConsecutiveLosses,
			res.MinimumProfitLoss,
		))
	}

	return sb.String()
}
