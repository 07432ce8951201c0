package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-backtest-lab/internal/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadTicksCSV(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
1600000000,1.09,1.12,1.08,1.11,250
1600000060,1.11,1.13,1.10,1.12,310
`)

	ticks, err := ReadTicksCSV(path)
	require.NoError(t, err)
	require.Len(t, ticks, 2)

	assert.Equal(t, int64(1600000000), ticks[0].Timestamp())
	assert.Equal(t, 1.11, ticks[0][domain.FieldClose])
	assert.Equal(t, 250.0, ticks[0]["volume"])
	assert.NoError(t, ticks[0].Validate())
}

func TestReadTicksCSVWithoutVolumeColumn(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close
1600000000,1.09,1.12,1.08,1.11
`)

	ticks, err := ReadTicksCSV(path)
	require.NoError(t, err)
	require.Len(t, ticks, 1)

	// The field is always present so persisted rows share one field set.
	v, ok := ticks[0]["volume"]
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestReadTicksCSVMissingTimestamp(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close
1600000000,1.09,1.12,1.08,1.11
0,1.11,1.13,1.10,1.12
`)

	_, err := ReadTicksCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadTicksCSVMissingFile(t *testing.T) {
	_, err := ReadTicksCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestAssignGroupsRoundRobin(t *testing.T) {
	ticks := make([]domain.Tick, 5)
	for i := range ticks {
		ticks[i] = domain.NewTick(int64(1600000000+i), 1, 1, 1, 1)
	}

	AssignGroups(ticks, 3)

	for i, tick := range ticks {
		assert.Equal(t, float64(i%3), tick[domain.FieldTestingGroup], "tick %d", i)
		assert.Equal(t, float64((i+1)%3), tick[domain.FieldValidationGroup], "tick %d", i)
		assert.NotEqual(t, tick[domain.FieldTestingGroup], tick[domain.FieldValidationGroup], "tick %d", i)
	}
}

func TestAssignGroupsSingleGroup(t *testing.T) {
	ticks := []domain.Tick{domain.NewTick(1600000000, 1, 1, 1, 1)}
	AssignGroups(ticks, 0)

	assert.Equal(t, 0.0, ticks[0][domain.FieldTestingGroup])
	assert.Equal(t, 0.0, ticks[0][domain.FieldValidationGroup])
}
