// Package ingestion reads raw OHLC tick data from CSV files and prepares it
// for enrichment.
package ingestion

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"forex-backtest-lab/internal/domain"
)

// rawTickRow is the CSV row shape: epoch-second timestamp plus OHLC prices.
// A volume column is carried through when present.
type rawTickRow struct {
	Timestamp int64   `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// ReadTicksCSV parses a CSV file of raw ticks, in file order.
func ReadTicksCSV(path string) ([]domain.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tick file: %w", err)
	}
	defer f.Close()

	var rows []*rawTickRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse tick file: %w", err)
	}

	ticks := make([]domain.Tick, 0, len(rows))
	for i, row := range rows {
		if row.Timestamp == 0 {
			return nil, fmt.Errorf("tick file row %d has no timestamp", i+1)
		}
		t := domain.NewTick(row.Timestamp, row.Open, row.High, row.Low, row.Close)
		// Always present, zero when the file has no volume column. Every tick
		// must expose the same field set once persisted.
		t["volume"] = row.Volume
		ticks = append(ticks, t)
	}

	return ticks, nil
}

// AssignGroups tags every tick with round-robin testing and validation
// groups in [0, groupCount). The two assignments are offset so a tick's
// validation group differs from its testing group whenever groupCount > 1.
func AssignGroups(ticks []domain.Tick, groupCount int) {
	if groupCount <= 0 {
		groupCount = 1
	}
	for i, t := range ticks {
		t[domain.FieldTestingGroup] = float64(i % groupCount)
		t[domain.FieldValidationGroup] = float64((i + 1) % groupCount)
	}
}
