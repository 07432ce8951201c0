// Package study implements the pluggable per-tick indicator computations
// used during feature enrichment. A study reads the shared tick window and
// writes only its private state, so all configured studies can run in
// parallel for one tick without locking.
package study

import "forex-backtest-lab/internal/domain"

// Study computes named indicator outputs for the latest tick in a window.
//
// The output map renames internal output keys to the field names merged into
// the tick, which lets the same study type be instantiated multiple times
// under distinct names (three EMA lengths, for example). A study lacking
// sufficient history emits no output for that tick rather than failing.
type Study interface {
	// SetData points the study at the current tick window. The window is
	// shared and must only be read.
	SetData(window []domain.Tick)

	// Tick computes this tick's outputs from the window.
	Tick()

	// TickOutputs returns the renamed outputs computed by the last Tick call.
	// Keys are absent when the study lacked sufficient lookback.
	TickOutputs() map[string]float64

	// OutputMap returns the internal-name to renamed-name mapping.
	OutputMap() map[string]string
}

// base carries the window, output map and per-tick outputs shared by all
// study implementations.
type base struct {
	window    []domain.Tick
	outputMap map[string]string
	outputs   map[string]float64
}

func newBase(outputMap map[string]string) base {
	return base{
		outputMap: outputMap,
		outputs:   make(map[string]float64),
	}
}

func (b *base) SetData(window []domain.Tick) { b.window = window }

func (b *base) OutputMap() map[string]string { return b.outputMap }

func (b *base) TickOutputs() map[string]float64 { return b.outputs }

// resetOutputs clears the previous tick's outputs. Called at the top of every
// Tick so an insufficient-lookback tick reports nothing.
func (b *base) resetOutputs() {
	for k := range b.outputs {
		delete(b.outputs, k)
	}
}

// setOutput records a value under the renamed field for an internal output
// key.
func (b *base) setOutput(internal string, v float64) {
	if name, ok := b.outputMap[internal]; ok {
		b.outputs[name] = v
	}
}

// values extracts one field across the whole window.
func (b *base) values(field string) []float64 {
	out := make([]float64, len(b.window))
	for i, t := range b.window {
		out[i] = t[field]
	}
	return out
}

func (b *base) closes() []float64 { return b.values(domain.FieldClose) }
