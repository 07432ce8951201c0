package domain

import (
	"fmt"
	"sort"
)

// Required price fields every raw tick carries. Indicator fields are added
// during enrichment.
const (
	FieldTimestamp = "timestamp"
	FieldOpen      = "open"
	FieldHigh      = "high"
	FieldLow       = "low"
	FieldClose     = "close"
)

// Routing fields set at ingestion and stripped from the persisted data map.
const (
	FieldTestingGroup    = "testingGroup"
	FieldValidationGroup = "validationGroup"
)

// RequiredFields lists the fields a tick must carry before enrichment.
var RequiredFields = []string{FieldTimestamp, FieldOpen, FieldHigh, FieldLow, FieldClose}

// Tick is one time-stamped price observation: a mapping of field name to
// numeric value. It is mutable while it moves through enrichment and
// immutable once persisted.
type Tick map[string]float64

// NewTick creates a tick from the required OHLC fields.
// Timestamp is in epoch seconds.
func NewTick(timestamp int64, open, high, low, close float64) Tick {
	return Tick{
		FieldTimestamp: float64(timestamp),
		FieldOpen:      open,
		FieldHigh:      high,
		FieldLow:       low,
		FieldClose:     close,
	}
}

// Timestamp returns the tick time in epoch seconds.
func (t Tick) Timestamp() int64 {
	return int64(t[FieldTimestamp])
}

// Validate checks that all required price fields are present.
func (t Tick) Validate() error {
	for _, f := range RequiredFields {
		if _, ok := t[f]; !ok {
			return fmt.Errorf("tick missing required field %q", f)
		}
	}
	return nil
}

// FieldNames returns all field names in sorted order. Map iteration order is
// not deterministic in Go, so every consumer that needs a stable field order
// goes through this.
func (t Tick) FieldNames() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the tick.
func (t Tick) Clone() Tick {
	c := make(Tick, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// EnrichedTick is the persisted form of a tick: the routing fields are pulled
// out of the data map so they never collide with indicator columns.
type EnrichedTick struct {
	Symbol          string
	TestingGroup    int
	ValidationGroup int
	TimestampMs     int64
	Data            map[string]float64
}

// EnrichTick builds the persisted record for a tick. The routing fields are
// copied into the record and excluded from Data; the tick itself is not
// modified.
func EnrichTick(symbol string, tick Tick) *EnrichedTick {
	data := make(map[string]float64, len(tick))
	for k, v := range tick {
		if k == FieldTestingGroup || k == FieldValidationGroup {
			continue
		}
		data[k] = v
	}
	return &EnrichedTick{
		Symbol:          symbol,
		TestingGroup:    int(tick[FieldTestingGroup]),
		ValidationGroup: int(tick[FieldValidationGroup]),
		TimestampMs:     tick.Timestamp() * 1000,
		Data:            data,
	}
}

// Tick reconstructs the in-memory tick from the persisted data map.
func (e *EnrichedTick) Tick() Tick {
	t := make(Tick, len(e.Data))
	for k, v := range e.Data {
		t[k] = v
	}
	return t
}
