package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracescope/tracescope/accesspattern"
	"github.com/tracescope/tracescope/aggregate/wire"
)

func TestNullReducerMergesRanksSortedByTBegin(t *testing.T) {
	r := NewNullReducer()
	r.Add(&wire.RankReportProto{
		Intervals: []*wire.IntervalProto{{TBegin: 100, TEnd: 200, Label: int32(accesspattern.STRIDED)}},
		Stats:     []*wire.PatternStatsProto{{Label: int32(accesspattern.STRIDED), IoSize: 10, TicksSpent: 20}},
	})
	r.Add(&wire.RankReportProto{
		Intervals: []*wire.IntervalProto{{TBegin: 0, TEnd: 100, Label: int32(accesspattern.CONTIGUOUS)}},
		Stats:     []*wire.PatternStatsProto{{Label: int32(accesspattern.CONTIGUOUS), IoSize: 40, TicksSpent: 100}},
	})

	result := r.Result()
	require.Len(t, result.PatternPerInterval, 2)
	assert.Equal(t, accesspattern.CONTIGUOUS, result.PatternPerInterval[0].Label)
	assert.Equal(t, accesspattern.STRIDED, result.PatternPerInterval[1].Label)
	assert.EqualValues(t, 40, result.StatsPerPattern[accesspattern.CONTIGUOUS].IOSize)
	assert.EqualValues(t, 20, result.StatsPerPattern[accesspattern.STRIDED].TicksSpent)
}

// TestReducerTotalsMatchGlobalOracle checks that folding per-rank partial
// results through NullReducer preserves the grand total of bytes and ticks
// that accesspattern.Global computes directly over the same records —
// label boundaries can shift with how the stream was split, but the sum
// across all labels cannot.
func TestReducerTotalsMatchGlobalOracle(t *testing.T) {
	rankA := []accesspattern.AccessRecord{
		{StartTime: 0, EndTime: 10, FPos: 0, Size: 10, Duration: 10},
		{StartTime: 10, EndTime: 20, FPos: 10, Size: 10, Duration: 10},
		{StartTime: 20, EndTime: 30, FPos: 20, Size: 10, Duration: 10},
	}
	rankB := []accesspattern.AccessRecord{
		{StartTime: 30, EndTime: 40, FPos: 30, Size: 10, Duration: 10},
		{StartTime: 40, EndTime: 50, FPos: 40, Size: 10, Duration: 10},
		{StartTime: 50, EndTime: 60, FPos: 50, Size: 10, Duration: 10},
	}

	resultA := accesspattern.Local(rankA)
	resultB := accesspattern.Local(rankB)

	reducer := NewNullReducer()
	reducer.Add(ToWire("input.dat", 0, resultA))
	reducer.Add(ToWire("input.dat", 1, resultB))
	folded := reducer.Result()

	oracle := accesspattern.Global([]accesspattern.HandleSequence{
		accesspattern.NewHandleSequence(0, append(append([]accesspattern.AccessRecord{}, rankA...), rankB...)),
	})

	var foldedIOSize, foldedTicks, oracleIOSize, oracleTicks uint64
	for _, stats := range folded.StatsPerPattern {
		foldedIOSize += stats.IOSize
		foldedTicks += stats.TicksSpent
	}
	for _, stats := range oracle.StatsPerPattern {
		oracleIOSize += stats.IOSize
		oracleTicks += stats.TicksSpent
	}
	assert.Equal(t, oracleIOSize, foldedIOSize)
	assert.Equal(t, oracleTicks, foldedTicks)
}

func TestToWireAndMarshalRoundTrip(t *testing.T) {
	result := accesspattern.AnalysisResult{
		PatternPerInterval: []accesspattern.IntervalLabel{
			{Interval: accesspattern.TimeInterval{TBegin: 0, TEnd: 50}, Label: accesspattern.RANDOM},
		},
		StatsPerPattern: map[accesspattern.Label]accesspattern.PatternStatistics{
			accesspattern.RANDOM: {IOSize: 7, TicksSpent: 9},
		},
	}
	report := ToWire("input.dat", 3, result)
	b, err := Marshal(report)
	require.NoError(t, err)

	round, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "input.dat", round.FilePath)
	assert.EqualValues(t, 3, round.RankId)
	require.Len(t, round.Intervals, 1)
	assert.EqualValues(t, 50, round.Intervals[0].TEnd)
	require.Len(t, round.Stats, 1)
	assert.EqualValues(t, 7, round.Stats[0].IoSize)
}
