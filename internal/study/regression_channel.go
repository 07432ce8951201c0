package study

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RegressionChannel fits a polynomial of the configured degree to the last
// length close prices and projects a channel around the fitted value at the
// current tick: upper/lower are the fit offset by deviations standard
// deviations of the residuals.
type RegressionChannel struct {
	base
	length     int
	degree     int
	deviations float64
}

// NewRegressionChannel creates a regression channel study. midName, upperName
// and lowerName are the merged field names for the fitted value and the two
// channel bounds.
func NewRegressionChannel(length, degree int, deviations float64, midName, upperName, lowerName string) *RegressionChannel {
	return &RegressionChannel{
		base: newBase(map[string]string{
			"mid":   midName,
			"upper": upperName,
			"lower": lowerName,
		}),
		length:     length,
		degree:     degree,
		deviations: deviations,
	}
}

// Tick implements Study.
func (r *RegressionChannel) Tick() {
	r.resetOutputs()
	if len(r.window) < r.length || r.length <= r.degree {
		return
	}

	closes := r.closes()
	closes = closes[len(closes)-r.length:]

	coeffs, ok := polyFit(closes, r.degree)
	if !ok {
		return
	}

	// Fitted values and residual standard deviation over the fit range.
	var sumSq float64
	fitted := make([]float64, r.length)
	for i := range closes {
		fitted[i] = polyEval(coeffs, float64(i))
		d := closes[i] - fitted[i]
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(r.length))

	mid := fitted[r.length-1]
	r.setOutput("mid", mid)
	r.setOutput("upper", mid+r.deviations*stddev)
	r.setOutput("lower", mid-r.deviations*stddev)
}

// polyFit solves the least-squares polynomial fit y[i] ~ p(i) of the given
// degree. Returns coefficients in ascending power order.
func polyFit(y []float64, degree int) ([]float64, bool) {
	n := len(y)
	a := mat.NewDense(n, degree+1, nil)
	for i := 0; i < n; i++ {
		x := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, x)
			x *= float64(i)
		}
	}
	b := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(a)

	var solution mat.VecDense
	if err := qr.SolveVecTo(&solution, false, b); err != nil {
		return nil, false
	}

	coeffs := make([]float64, degree+1)
	for j := 0; j <= degree; j++ {
		coeffs[j] = solution.AtVec(j)
	}
	return coeffs, true
}

// polyEval evaluates the polynomial at x using Horner's method.
func polyEval(coeffs []float64, x float64) float64 {
	v := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		v = v*x + coeffs[j]
	}
	return v
}

var _ Study = (*RegressionChannel)(nil)
