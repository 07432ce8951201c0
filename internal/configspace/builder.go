// Package configspace expands a declarative option specification into the
// full cartesian product of concrete, resolved configurations.
package configspace

import (
	"errors"
	"fmt"
	"sort"

	"forex-backtest-lab/internal/domain"
	"forex-backtest-lab/internal/matrix"
)

// Configuration errors. Both are fatal and abort before any backtest work
// starts.
var (
	ErrNoAxes            = errors.New("option spec declares no axes")
	ErrEmptyAxis         = errors.New("axis has no candidates")
	ErrUnresolvedColumn  = errors.New("column reference does not resolve")
	ErrMissingFixedField = errors.New("fixed price field missing from column index")
)

// Builder expands option axes against a frozen column index.
type Builder struct {
	index *matrix.ColumnIndex
}

// NewBuilder creates a Builder resolving column references through index.
func NewBuilder(index *matrix.ColumnIndex) *Builder {
	return &Builder{index: index}
}

// Build produces every configuration in the cartesian product of the axes,
// in deterministic order: axis order as declared, candidate order within
// each axis. The produced count is always the product of the per-axis
// candidate counts.
//
// Literals are copied verbatim; column references are resolved to column
// positions. The fixed price fields are set on every configuration
// independent of the axes.
func (b *Builder) Build(axes []domain.Axis) ([]*domain.Configuration, error) {
	if len(axes) == 0 {
		return nil, ErrNoAxes
	}
	for _, axis := range axes {
		if len(axis.Candidates) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyAxis, axis.Name)
		}
	}

	fixed, err := b.fixedColumns()
	if err != nil {
		return nil, err
	}

	total := 1
	for _, axis := range axes {
		total *= len(axis.Candidates)
	}

	configurations := make([]*domain.Configuration, 0, total)
	err = b.expand(axes, 0, map[string]int{}, map[string]float64{}, fixed, &configurations)
	if err != nil {
		return nil, err
	}
	return configurations, nil
}

// expand walks one axis, merging each candidate's fields into the partial
// configuration and recursing to the next axis. Each leaf materializes a
// fresh, immutable configuration; the partial maps are copied at the leaf so
// no configuration aliases another.
func (b *Builder) expand(
	axes []domain.Axis,
	axisIndex int,
	partialColumns map[string]int,
	partialValues map[string]float64,
	fixed domain.Configuration,
	out *[]*domain.Configuration,
) error {
	for _, candidate := range axes[axisIndex].Candidates {
		added := make([]string, 0, len(candidate))
		for _, field := range candidateFields(candidate) {
			value := candidate[field]
			if value.IsColumn() {
				pos, ok := b.index.Lookup(value.Column())
				if !ok {
					return fmt.Errorf("%w: axis %q field %q references %q",
						ErrUnresolvedColumn, axes[axisIndex].Name, field, value.Column())
				}
				partialColumns[field] = pos
			} else {
				partialValues[field] = value.Number()
			}
			added = append(added, field)
		}

		if axisIndex+1 < len(axes) {
			if err := b.expand(axes, axisIndex+1, partialColumns, partialValues, fixed, out); err != nil {
				return err
			}
		} else {
			cfg := fixed
			cfg.Columns = cloneInts(partialColumns)
			cfg.Values = cloneFloats(partialValues)
			*out = append(*out, &cfg)
		}

		// Candidates on one axis may set different field sets; undo this
		// candidate's assignments so they cannot leak into the next one.
		for _, field := range added {
			delete(partialColumns, field)
			delete(partialValues, field)
		}
	}
	return nil
}

// fixedColumns resolves the required price fields, which every configuration
// carries regardless of the axes.
func (b *Builder) fixedColumns() (domain.Configuration, error) {
	var cfg domain.Configuration
	fields := []struct {
		name string
		dst  *int
	}{
		{domain.FieldTimestamp, &cfg.Timestamp},
		{domain.FieldOpen, &cfg.Open},
		{domain.FieldHigh, &cfg.High},
		{domain.FieldLow, &cfg.Low},
		{domain.FieldClose, &cfg.Close},
	}
	for _, f := range fields {
		pos, ok := b.index.Lookup(f.name)
		if !ok {
			return cfg, fmt.Errorf("%w: %q", ErrMissingFixedField, f.name)
		}
		*f.dst = pos
	}
	return cfg, nil
}

// candidateFields returns a candidate's field names in sorted order so
// expansion work is reproducible run to run.
func candidateFields(c domain.Candidate) []string {
	fields := make([]string, 0, len(c))
	for f := range c {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func cloneInts(m map[string]int) map[string]int {
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneFloats(m map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
