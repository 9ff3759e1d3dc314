// Package report rolls per-handle accesspattern.AnalysisResults into the
// per-file and per-trace JSON artifact a tracescope-profile run produces,
// matching the key set create_json.cpp emits (spec.md §6; the additional
// top-level fields below are carried over from original_source rather than
// dropped, since nothing in spec.md's Non-goals excludes them).
package report

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tracescope/tracescope/accesspattern"
	"github.com/tracescope/tracescope/topology"
)

// ParadigmTally is the bit-exact shape of a "Ticks spent"/"I/O sizes"
// object: keyed by the string form of each accesspattern.Label.
type ParadigmTally map[string]uint64

// FileInfo is one file's entry in Profile.Files, matching FileInfo's
// WriteFileInfo output field-for-field.
type FileInfo struct {
	FileName                     string        `json:"FileName"`
	IoParadigm                   []string      `json:"IoParadigm"`
	AccessModes                  string        `json:"AccessModes"`
	ParentFile                   *FileInfo     `json:"ParentFile"`
	BytesRead                    uint64        `json:"#Bytes read"`
	BytesWrite                   uint64        `json:"#Bytes write"`
	TicksSpent                   uint64        `json:"Ticks spent"`
	NrAccessesFromDifferentLocns uint64        `json:"Nr accesses from different locations"`
	TicksSpentPerAccessPattern   ParadigmTally `json:"Ticks spent per Access Pattern"`
	IOSizesPerAccessPattern      ParadigmTally `json:"I/O sizes per Access Pattern"`

	index *intervalIndex // unexported: built lazily, see index.go
}

// NewFileInfo seeds a FileInfo from one file's merged AnalysisResult (as
// produced by accesspattern.Global over all of the file's handles).
func NewFileInfo(name string, result accesspattern.AnalysisResult) *FileInfo {
	fi := &FileInfo{
		FileName:                    name,
		TicksSpentPerAccessPattern:  make(ParadigmTally, len(result.StatsPerPattern)),
		IOSizesPerAccessPattern:     make(ParadigmTally, len(result.StatsPerPattern)),
		NrAccessesFromDifferentLocns: uint64(len(result.PatternPerInterval)),
	}
	for label, stats := range result.StatsPerPattern {
		fi.TicksSpentPerAccessPattern[label.String()] = stats.TicksSpent
		fi.IOSizesPerAccessPattern[label.String()] = stats.IOSize
		fi.TicksSpent += stats.TicksSpent
	}
	fi.index = newIntervalIndex(result.PatternPerInterval)
	return fi
}

// LabelAt answers "what pattern was active at tick t" for this file without
// a linear scan over every emitted interval.
func (fi *FileInfo) LabelAt(t accesspattern.Tick) (accesspattern.Label, bool) {
	if fi.index == nil {
		return 0, false
	}
	return fi.index.LabelAt(t)
}

// Profile is the top-level artifact, matching WorkflowProfile's JSON shape.
type Profile struct {
	Trace struct {
		FileName string `json:"FileName"`
		ID       uint64 `json:"Id"`
	} `json:"Trace"`
	JobID            uint64            `json:"JobId"`
	NodeCount        int               `json:"NodeCount"`
	ProcessCount     int               `json:"ProcessCount"`
	ThreadCount      int               `json:"ThreadCount"`
	TimerResolution  uint64            `json:"TimerResolution"`
	HardwareCounters map[string]uint64 `json:"HardwareCounters"`

	Functions            map[string]ParadigmTally `json:"Functions,omitempty"`
	Messages             map[string]ParadigmTally `json:"Messages,omitempty"`
	CollectiveOperations map[string]ParadigmTally `json:"CollectiveOperations,omitempty"`
	IOOperations         map[string]ParadigmTally `json:"IOOperations,omitempty"`

	Files []*FileInfo `json:"Files"`

	Regions map[string]ParadigmTally `json:"Regions,omitempty"`

	ParallelRegionTime uint64 `json:"ParallelRegionTime"`
	SerialRegionTime   uint64 `json:"SerialRegionTime"`
	TotalFunctions     uint64 `json:"TotalFunctions"`
	TotalCalls         uint64 `json:"TotalCalls"`
}

// NewProfile seeds a Profile from a trace's topology summary; callers then
// append Files and fill in the paradigm tables before calling Marshal.
func NewProfile(traceName string, traceID uint64, summary topology.Summary) *Profile {
	return &Profile{
		Trace: struct {
			FileName string `json:"FileName"`
			ID       uint64 `json:"Id"`
		}{FileName: traceName, ID: traceID},
		NodeCount:        summary.NodeCount,
		ProcessCount:     summary.ProcessCount,
		ThreadCount:      summary.ThreadCount,
		TimerResolution:  summary.TimerResolution,
		HardwareCounters: summary.HardwareCounters,
	}
}

// Marshal renders p as the JSON document tracescope-profile writes to
// <output_prefix>.json.
func (p *Profile) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "report: marshaling profile")
	}
	return b, nil
}
