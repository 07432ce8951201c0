// Package matrix materializes a persisted enriched-tick series into an
// immutable row-major matrix of float64 with a frozen column index.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/observability"
	"forex-backtest-lab/internal/storage"
)

// Loader errors. Both are fatal: there is no basis to optimize without rows,
// and index-based access requires uniform row width.
var (
	ErrNoRows         = errors.New("no enriched ticks for symbol")
	ErrSchemaMismatch = errors.New("row field set does not match frozen column index")
	ErrUnknownColumn  = errors.New("unknown column")
)

// ColumnIndex maps field names to column positions. It is frozen from the
// first loaded row and read-only for the lifetime of the run.
//
// Go map iteration order is not deterministic, so the freeze order is the
// sorted field-name order of the first row: deterministic, and stable for a
// fixed schema.
type ColumnIndex struct {
	positions map[string]int
	names     []string
}

func newColumnIndex(fields []string) *ColumnIndex {
	names := make([]string, len(fields))
	copy(names, fields)
	sort.Strings(names)

	positions := make(map[string]int, len(names))
	for i, name := range names {
		positions[name] = i
	}
	return &ColumnIndex{positions: positions, names: names}
}

// Lookup returns the column position for a field name.
func (c *ColumnIndex) Lookup(name string) (int, bool) {
	pos, ok := c.positions[name]
	return pos, ok
}

// MustLookup returns the column position or an error naming the column.
func (c *ColumnIndex) MustLookup(name string) (int, error) {
	pos, ok := c.positions[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return pos, nil
}

// Names returns the field names in column order.
func (c *ColumnIndex) Names() []string { return c.names }

// Width returns the number of columns.
func (c *ColumnIndex) Width() int { return len(c.names) }

// Matrix is an ordered sequence of fixed-width rows of float64 addressed via
// its ColumnIndex. Row order is ascending timestamp order. The backing
// buffer is one contiguous allocation; the matrix is immutable after load
// and owned exclusively by the run that loaded it.
type Matrix struct {
	columns *ColumnIndex
	data    []float64
	rows    int
}

// Columns returns the frozen column index.
func (m *Matrix) Columns() *ColumnIndex { return m.columns }

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Row returns row i as a read-only sub-slice of the backing buffer.
func (m *Matrix) Row(i int) []float64 {
	w := m.columns.Width()
	return m.data[i*w : (i+1)*w]
}

// Loader loads persisted enriched ticks for one symbol.
type Loader struct {
	store   storage.EnrichedTickStore
	metrics *observability.Metrics
}

// NewLoader creates a Loader. metrics may be nil.
func NewLoader(store storage.EnrichedTickStore, metrics *observability.Metrics) *Loader {
	return &Loader{store: store, metrics: metrics}
}

// Load counts rows for the symbol to pre-size storage, streams them in
// timestamp order, freezes the column index from the first row, and verifies
// every subsequent row exposes exactly the same field set.
func (l *Loader) Load(ctx context.Context, symbol string) (*Matrix, error) {
	count, err := l.store.CountBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("count ticks for %s: %w", symbol, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, symbol)
	}

	var (
		columns *ColumnIndex
		data    []float64
		rows    int
	)

	err = l.store.ScanBySymbol(ctx, symbol, func(t *domain.EnrichedTick) error {
		if columns == nil {
			fields := make([]string, 0, len(t.Data))
			for name := range t.Data {
				fields = append(fields, name)
			}
			columns = newColumnIndex(fields)
			data = make([]float64, 0, count*columns.Width())
		}

		if len(t.Data) != columns.Width() {
			return fmt.Errorf("%w: row %d has %d fields, want %d",
				ErrSchemaMismatch, rows, len(t.Data), columns.Width())
		}
		for _, name := range columns.Names() {
			v, ok := t.Data[name]
			if !ok {
				return fmt.Errorf("%w: row %d missing field %q", ErrSchemaMismatch, rows, name)
			}
			data = append(data, v)
		}
		rows++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, symbol)
	}

	if l.metrics != nil {
		l.metrics.MatrixRows.Set(float64(rows))
		l.metrics.MatrixColumns.Set(float64(columns.Width()))
	}

	return &Matrix{columns: columns, data: data, rows: rows}, nil
}
