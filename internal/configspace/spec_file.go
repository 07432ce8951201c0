package configspace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"forex-backtest-lab/internal/domain"
)

// specFile is the on-disk shape of a declarative option specification.
//
//	axes:
//	  - name: sma13
//	    candidates:
//	      - sma13: sma13          # column reference
//	  - name: rsi
//	    candidates:
//	      - rsi: rsi
//	        rsiOverbought: 77     # literal
//	      - rsi: rsi
//	        rsiOverbought: 80
type specFile struct {
	Axes []domain.Axis `yaml:"axes"`
}

// LoadAxesFile parses a YAML option specification into ordered axes.
func LoadAxesFile(path string) ([]domain.Axis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read option spec: %w", err)
	}

	var spec specFile
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse option spec: %w", err)
	}
	if len(spec.Axes) == 0 {
		return nil, ErrNoAxes
	}
	return spec.Axes, nil
}
