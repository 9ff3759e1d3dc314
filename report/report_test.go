package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracescope/tracescope/accesspattern"
	"github.com/tracescope/tracescope/topology"
)

func sampleResult() accesspattern.AnalysisResult {
	return accesspattern.AnalysisResult{
		PatternPerInterval: []accesspattern.IntervalLabel{
			{Interval: accesspattern.TimeInterval{TBegin: 0, TEnd: 100}, Label: accesspattern.CONTIGUOUS},
			{Interval: accesspattern.TimeInterval{TBegin: 100, TEnd: 200}, Label: accesspattern.STRIDED},
		},
		StatsPerPattern: map[accesspattern.Label]accesspattern.PatternStatistics{
			accesspattern.CONTIGUOUS: {IOSize: 40, TicksSpent: 100},
			accesspattern.STRIDED:    {IOSize: 10, TicksSpent: 100},
		},
	}
}

func TestNewFileInfoTallies(t *testing.T) {
	fi := NewFileInfo("input.dat", sampleResult())
	assert.Equal(t, "input.dat", fi.FileName)
	assert.EqualValues(t, 100, fi.TicksSpentPerAccessPattern["CONTIGUOUS"])
	assert.EqualValues(t, 40, fi.IOSizesPerAccessPattern["CONTIGUOUS"])
	assert.EqualValues(t, 10, fi.IOSizesPerAccessPattern["STRIDED"])
	assert.EqualValues(t, 200, fi.TicksSpent)
}

func TestFileInfoLabelAt(t *testing.T) {
	fi := NewFileInfo("input.dat", sampleResult())
	label, ok := fi.LabelAt(50)
	require.True(t, ok)
	assert.Equal(t, accesspattern.CONTIGUOUS, label)

	label, ok = fi.LabelAt(150)
	require.True(t, ok)
	assert.Equal(t, accesspattern.STRIDED, label)

	_, ok = fi.LabelAt(9999)
	assert.False(t, ok)
}

func TestProfileMarshalRoundTrips(t *testing.T) {
	p := NewProfile("trace.otf2", 7, topology.Summary{
		NodeCount: 2, ProcessCount: 4, ThreadCount: 1, TimerResolution: 1_000_000,
	})
	p.Files = append(p.Files, NewFileInfo("input.dat", sampleResult()))

	b, err := p.Marshal()
	require.NoError(t, err)

	var round map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &round))
	assert.Equal(t, "trace.otf2", round["Trace"].(map[string]interface{})["FileName"])
	assert.Len(t, round["Files"], 1)
}
