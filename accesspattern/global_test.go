package accesspattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalMergesHandlesByEndTime(t *testing.T) {
	// Handle A and handle B interleave to jointly produce one contiguous
	// walk when merged by EndTime: A contributes the even steps, B the odd
	// ones.
	contiguous := s1Records()
	var a, b HandleSequence
	a.Handle, b.Handle = 1, 2
	for i, r := range contiguous {
		if i%2 == 0 {
			a.Records = append(a.Records, r)
		} else {
			b.Records = append(b.Records, r)
		}
	}

	result := Global([]HandleSequence{b, a}) // deliberately out of handle order
	require.Len(t, result.PatternPerInterval, 1)
	assert.Equal(t, CONTIGUOUS, result.PatternPerInterval[0].Label)
	assert.Equal(t, PatternStatistics{IOSize: 93, TicksSpent: 87}, result.StatsPerPattern[CONTIGUOUS])
}

func TestGlobalBreaksEndTimeTiesByHandleID(t *testing.T) {
	shared := AccessRecord{StartTime: 0, EndTime: 10, FPos: 0, Size: 5, Duration: 5}
	low := HandleSequence{Handle: 1, Records: []AccessRecord{shared}}
	high := HandleSequence{Handle: 2, Records: []AccessRecord{{StartTime: 0, EndTime: 10, FPos: 5, Size: 1, Duration: 1}}}

	result := Global([]HandleSequence{high, low})
	require.Len(t, result.PatternPerInterval, 1)
	assert.Equal(t, NONE, result.PatternPerInterval[0].Label, "two merged records stay under threshold")

	// A third record makes the merge order of the two tied records visible:
	// handle 1's record first gives a contiguous triad (fpos 0+5, 5+1, 6),
	// handle 2's first would give a random one.
	low.Records = append(low.Records, AccessRecord{StartTime: 11, EndTime: 20, FPos: 6, Size: 1, Duration: 1})
	result = Global([]HandleSequence{high, low})
	require.Len(t, result.PatternPerInterval, 1)
	assert.Equal(t, CONTIGUOUS, result.PatternPerInterval[0].Label, "tied records merge in handle-id order")
}

func TestGlobalEmpty(t *testing.T) {
	result := Global(nil)
	assert.Empty(t, result.PatternPerInterval)
}
