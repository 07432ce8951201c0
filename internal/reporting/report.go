// Package reporting renders per-configuration optimization results. Results
// are emitted in enumeration order; ranking or selecting configurations is
// left to the reader.
package reporting

import (
	"time"

	"forex-backtest-lab/internal/domain"
)

// Report is a rendered optimization run.
type Report struct {
	GeneratedAt time.Time
	RunID       string
	Symbol      string
	Results     []*domain.OptimizationResult
}

// NewReport builds a report for one run. Symbol is taken from the first
// result.
func NewReport(runID string, results []*domain.OptimizationResult) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		RunID:       runID,
		Results:     results,
	}
	if len(results) > 0 {
		r.Symbol = results[0].Symbol
	}
	return r
}
