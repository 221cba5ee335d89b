package dircount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmatch/tripmatch/pkg/passage"
)

func event(crossroadID string, timeCenter string, branchIn int, branchOut int, speed *float64) passage.Event {
	return passage.Event{
		CrossroadID: crossroadID,
		TimeCenter:  timeCenter,
		BranchIn:    branchIn,
		BranchOut:   branchOut,
		SpeedKMH:    speed,
	}
}

func kmh(v float64) *float64 {
	return &v
}

func TestTableAddAndRows(t *testing.T) {
	table := NewTable()
	table.Add(event("X001", "20250224120000", 1, 2, kmh(10)))
	table.Add(event("X001", "20250224123059", 1, 2, kmh(20)))
	table.Add(event("X001", "20250224130000", 1, 2, nil))
	table.Add(event("X001", "20250224120500", 3, 2, nil))

	rows := table.Rows()
	require.Len(t, rows, 3)

	// Ordered by crossroad, hour, in, out
	assert.Equal(t, Row{CrossroadID: "X001", Hour: 12, BranchIn: 1, BranchOut: 2, Count: 2, MeanSpeedKMH: kmh(15)}, rows[0])
	assert.Equal(t, 3, rows[1].BranchIn)
	assert.Equal(t, 13, rows[2].Hour)
	assert.Nil(t, rows[2].MeanSpeedKMH)
}

func TestTableUnknownHour(t *testing.T) {
	table := NewTable()
	table.Add(event("X001", "", 1, 2, nil))
	table.Add(event("X001", "2025022", 1, 2, nil))
	table.Add(event("X001", "20250224xx0000", 1, 2, nil))

	rows := table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, UnknownHour, rows[0].Hour)
	assert.Equal(t, 3, rows[0].Count)
}

func TestTableMerge(t *testing.T) {
	a := NewTable()
	a.Add(event("X001", "20250224120000", 1, 2, kmh(10)))

	b := NewTable()
	b.Add(event("X001", "20250224121000", 1, 2, kmh(30)))
	b.Add(event("X002", "20250224080000", 2, 4, nil))

	a.Merge(b)

	rows := a.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "X001", rows[0].CrossroadID)
	assert.Equal(t, 2, rows[0].Count)
	require.NotNil(t, rows[0].MeanSpeedKMH)
	assert.InDelta(t, 20, *rows[0].MeanSpeedKMH, 1e-9)
	assert.Equal(t, "X002", rows[1].CrossroadID)
}

func TestTableEmpty(t *testing.T) {
	assert.Empty(t, NewTable().Rows())
}
