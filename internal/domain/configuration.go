package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParameterValue is one candidate assignment for a configuration field:
// either a literal number copied verbatim into the configuration, or a
// symbolic column-name reference resolved against the frozen column index.
type ParameterValue struct {
	column string
	number float64
}

// ColumnValue creates a column-name reference.
func ColumnValue(name string) ParameterValue {
	return ParameterValue{column: name}
}

// NumberValue creates a literal numeric value.
func NumberValue(v float64) ParameterValue {
	return ParameterValue{number: v}
}

// IsColumn reports whether the value is a column-name reference.
func (v ParameterValue) IsColumn() bool { return v.column != "" }

// Column returns the referenced column name, or "" for a literal.
func (v ParameterValue) Column() string { return v.column }

// Number returns the literal value. Meaningless for column references.
func (v ParameterValue) Number() float64 { return v.number }

// UnmarshalYAML decodes a scalar: strings are column references, numbers are
// literals.
func (v *ParameterValue) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		*v = ColumnValue(s)
		return nil
	}
	var f float64
	if err := node.Decode(&f); err != nil {
		return fmt.Errorf("parameter value must be a number or a column name: %w", err)
	}
	*v = NumberValue(f)
	return nil
}

// Candidate is one candidate assignment map on an axis: configuration field
// name to value.
type Candidate map[string]ParameterValue

// Axis is a named option axis holding an ordered sequence of candidate
// assignments. The cartesian product of all axes forms the configuration
// space.
type Axis struct {
	Name       string      `yaml:"name"`
	Candidates []Candidate `yaml:"candidates"`
}

// Configuration is one fully resolved point in the configuration space.
// Column references have been resolved to matrix column positions and
// literals copied verbatim. Immutable once built.
type Configuration struct {
	// Fixed price columns, set on every configuration.
	Timestamp int `json:"timestamp"`
	Open      int `json:"open"`
	High      int `json:"high"`
	Low       int `json:"low"`
	Close     int `json:"close"`

	// Columns holds resolved column references keyed by configuration field.
	Columns map[string]int `json:"columns,omitempty"`

	// Values holds literal parameters keyed by configuration field.
	Values map[string]float64 `json:"values,omitempty"`
}

// HasColumn reports whether the configuration carries a resolved column for
// the given field.
func (c *Configuration) HasColumn(field string) bool {
	_, ok := c.Columns[field]
	return ok
}

// Value returns the literal parameter for the field, or def when the
// configuration does not set it.
func (c *Configuration) Value(field string, def float64) float64 {
	if v, ok := c.Values[field]; ok {
		return v
	}
	return def
}
