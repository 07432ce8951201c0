package study

import talib "github.com/markcheno/go-talib"

// SMA computes a simple moving average of the close price.
type SMA struct {
	base
	length int
}

// NewSMA creates an SMA study writing its value under outputName.
func NewSMA(length int, outputName string) *SMA {
	return &SMA{
		base:   newBase(map[string]string{"sma": outputName}),
		length: length,
	}
}

// Tick implements Study.
func (s *SMA) Tick() {
	s.resetOutputs()
	if len(s.window) < s.length {
		return
	}
	values := talib.Sma(s.closes(), s.length)
	s.setOutput("sma", values[len(values)-1])
}

// EMA computes an exponential moving average of the close price.
type EMA struct {
	base
	length int
}

// NewEMA creates an EMA study writing its value under outputName.
func NewEMA(length int, outputName string) *EMA {
	return &EMA{
		base:   newBase(map[string]string{"ema": outputName}),
		length: length,
	}
}

// Tick implements Study.
func (e *EMA) Tick() {
	e.resetOutputs()
	if len(e.window) < e.length {
		return
	}
	values := talib.Ema(e.closes(), e.length)
	e.setOutput("ema", values[len(values)-1])
}

var (
	_ Study = (*SMA)(nil)
	_ Study = (*EMA)(nil)
)
