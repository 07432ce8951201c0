package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders optimization results as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Optimization Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Symbol: %s | Configurations: %d\n\n",
		r.RunID, r.Symbol, len(r.Results)))

	// Results
	sb.WriteString("## Results\n\n")
	sb.WriteString("| # | Strategy | Group | P/L | Wins | Losses | Win Rate | Trades | Max Consec. Losses | Min P/L |\n")
	sb.WriteString("|---|----------|-------|-----|------|--------|----------|--------|--------------------|--------|\n")
	for _, res := range r.Results {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %.2f | %d | %d | %.4f | %d | %d | %.2f |\n",
			res.Index,
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
	sb.WriteString("\n")

	return sb.String()
}
