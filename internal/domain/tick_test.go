package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickValidate(t *testing.T) {
	tick := NewTick(1600000000, 1.10, 1.12, 1.09, 1.11)
	require.NoError(t, tick.Validate())

	delete(tick, FieldClose)
	err := tick.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close")
}

func TestTickFieldNamesSorted(t *testing.T) {
	tick := NewTick(1600000000, 1.10, 1.12, 1.09, 1.11)
	tick["sma13"] = 1.105
	tick["ema50"] = 1.102

	names := tick.FieldNames()
	require.Len(t, names, 7)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i], "field names must be sorted")
	}
}

func TestTickClone(t *testing.T) {
	tick := NewTick(1600000000, 1.10, 1.12, 1.09, 1.11)
	clone := tick.Clone()
	clone[FieldClose] = 9.99

	assert.Equal(t, 1.11, tick[FieldClose])
}

func TestEnrichTickStripsRoutingFields(t *testing.T) {
	tick := NewTick(1600000000, 1.10, 1.12, 1.09, 1.11)
	tick[FieldTestingGroup] = 3
	tick[FieldValidationGroup] = 4
	tick["sma13"] = 1.105

	enriched := EnrichTick("EURUSD", tick)

	assert.Equal(t, "EURUSD", enriched.Symbol)
	assert.Equal(t, 3, enriched.TestingGroup)
	assert.Equal(t, 4, enriched.ValidationGroup)
	assert.Equal(t, int64(1600000000000), enriched.TimestampMs)
	assert.NotContains(t, enriched.Data, FieldTestingGroup)
	assert.NotContains(t, enriched.Data, FieldValidationGroup)
	assert.Equal(t, 1.105, enriched.Data["sma13"])

	// The original tick keeps its routing fields.
	assert.Contains(t, tick, FieldTestingGroup)
}
