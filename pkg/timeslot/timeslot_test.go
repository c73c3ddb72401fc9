package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"disjoint before", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
		{"disjoint after", at(11, 0), at(12, 0), at(9, 0), at(10, 0), false},
		{"touching end to start", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start to end", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"partial overlap", at(9, 0), at(10, 30), at(10, 0), at(11, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"containing", at(10, 0), at(11, 0), at(9, 0), at(12, 0), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"one minute overlap", at(9, 0), at(10, 1), at(10, 0), at(11, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// The predicate is symmetric.
			assert.Equal(t, tt.expected, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestIntervalOverlapsAny(t *testing.T) {
	busy := []Interval{
		{at(9, 0), at(10, 0)},
		{at(14, 0), at(15, 0)},
	}

	assert.False(t, Interval{at(10, 0), at(11, 0)}.OverlapsAny(busy))
	assert.False(t, Interval{at(13, 0), at(14, 0)}.OverlapsAny(busy))
	assert.True(t, Interval{at(9, 30), at(10, 30)}.OverlapsAny(busy))
	assert.True(t, Interval{at(14, 59), at(16, 0)}.OverlapsAny(busy))
	assert.False(t, Interval{at(10, 0), at(11, 0)}.OverlapsAny(nil))
}

func TestGrid(t *testing.T) {
	slots, err := Grid(at(9, 0), at(10, 0), 15)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, at(9, 0), slots[0])
	assert.Equal(t, at(9, 45), slots[3])
}

func TestGridEndExclusive(t *testing.T) {
	slots, err := Grid(at(9, 0), at(9, 30), 5)
	require.NoError(t, err)
	// 09:30 itself is excluded.
	require.Len(t, slots, 6)
	assert.Equal(t, at(9, 25), slots[5])
}

func TestGridEmptyWindow(t *testing.T) {
	slots, err := Grid(at(10, 0), at(10, 0), 15)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = Grid(at(11, 0), at(10, 0), 15)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGridInvalidStep(t *testing.T) {
	_, err := Grid(at(9, 0), at(10, 0), 0)
	require.ErrorIs(t, err, ErrInvalidStep)

	_, err = Grid(at(9, 0), at(10, 0), -5)
	require.ErrorIs(t, err, ErrInvalidStep)
}

func TestAlignForward(t *testing.T) {
	assert.Equal(t, at(10, 15), AlignForward(at(10, 7), 15))
	assert.Equal(t, at(10, 15), AlignForward(at(10, 15), 15))
	assert.Equal(t, at(11, 0), AlignForward(at(10, 46), 15))
	assert.Equal(t, at(10, 10), AlignForward(at(10, 6), 5))

	// Seconds are truncated before aligning.
	withSeconds := time.Date(2026, 3, 10, 10, 15, 42, 0, time.UTC)
	assert.Equal(t, at(10, 15), AlignForward(withSeconds, 15))
}
