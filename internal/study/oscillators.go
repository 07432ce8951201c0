package study

import (
	talib "github.com/markcheno/go-talib"

	"forex-backtest-lab/internal/domain"
)

// RSI computes the relative strength index of the close price.
type RSI struct {
	base
	length int
}

// NewRSI creates an RSI study writing its value under outputName.
func NewRSI(length int, outputName string) *RSI {
	return &RSI{
		base:   newBase(map[string]string{"rsi": outputName}),
		length: length,
	}
}

// Tick implements Study. RSI needs one tick beyond its period before the
// first value is defined.
func (r *RSI) Tick() {
	r.resetOutputs()
	if len(r.window) <= r.length {
		return
	}
	values := talib.Rsi(r.closes(), r.length)
	r.setOutput("rsi", values[len(values)-1])
}

// Stochastic computes the slow stochastic oscillator (%K and %D) from
// high/low/close.
type Stochastic struct {
	base
	kLength int
	dLength int
}

// NewStochastic creates a stochastic oscillator study. kName and dName are
// the merged field names for %K and %D.
func NewStochastic(kLength, dLength int, kName, dName string) *Stochastic {
	return &Stochastic{
		base:    newBase(map[string]string{"K": kName, "D": dName}),
		kLength: kLength,
		dLength: dLength,
	}
}

// Tick implements Study.
func (s *Stochastic) Tick() {
	s.resetOutputs()
	// fast %K lookback plus two smoothing passes of dLength.
	if len(s.window) < s.kLength+2*(s.dLength-1)+1 {
		return
	}
	k, d := talib.Stoch(
		s.values(domain.FieldHigh),
		s.values(domain.FieldLow),
		s.closes(),
		s.kLength, s.dLength, talib.SMA, s.dLength, talib.SMA,
	)
	s.setOutput("K", k[len(k)-1])
	s.setOutput("D", d[len(d)-1])
}

var (
	_ Study = (*RSI)(nil)
	_ Study = (*Stochastic)(nil)
)
