// Package topology carries the system-level facts a trace was recorded
// under: how many nodes/processes/threads participated, the timer's
// resolution, and whatever hardware counters the trace happened to record.
// None of this is produced by the classifier; a Summary is passed through to
// the report package's JSON emission unchanged. No ingest code fills one in:
// tracescope-profile passes a zero Summary.
package topology

// Summary mirrors the top-level fields WorkflowProfile carries in the
// original JSON emitter, minus the fields (Functions, Files, Regions, ...)
// that belong to callpath and report instead.
type Summary struct {
	NodeCount       int
	ProcessCount    int
	ThreadCount     int
	TimerResolution uint64
	HardwareCounters map[string]uint64
}

// Merge combines two Summaries observed for the same trace (e.g. one per
// rank that reported in), taking the max of each count and the union of
// hardware counters, summing a counter both record. TimerResolution is expected to agree across ranks; the
// first nonzero value wins.
func (s Summary) Merge(other Summary) Summary {
	merged := Summary{
		NodeCount:       maxInt(s.NodeCount, other.NodeCount),
		ProcessCount:    maxInt(s.ProcessCount, other.ProcessCount),
		ThreadCount:     maxInt(s.ThreadCount, other.ThreadCount),
		TimerResolution: s.TimerResolution,
	}
	if merged.TimerResolution == 0 {
		merged.TimerResolution = other.TimerResolution
	}
	merged.HardwareCounters = make(map[string]uint64, len(s.HardwareCounters)+len(other.HardwareCounters))
	for k, v := range s.HardwareCounters {
		merged.HardwareCounters[k] = v
	}
	for k, v := range other.HardwareCounters {
		merged.HardwareCounters[k] += v
	}
	return merged
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
