// Package aggregate folds per-rank accesspattern.AnalysisResults — gathered
// over the wire as aggregate/wire.RankReportProto messages — into the single
// AnalysisResult per file that the report package renders. This is the
// "reduce" half of the offline, single-pass pipeline: ingest and
// classification happen per rank, and aggregate is what makes a
// multi-rank trace collapse to one profile.
package aggregate

import (
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/tracescope/tracescope/accesspattern"
	"github.com/tracescope/tracescope/aggregate/wire"
)

// Reducer folds one file's per-rank contributions into a single
// accesspattern.AnalysisResult. Implementations must be safe to call
// repeatedly as more ranks report in.
type Reducer interface {
	// Add folds one rank's report for a file into the running total.
	Add(report *wire.RankReportProto)
	// Result returns the merged AnalysisResult seen so far.
	Result() accesspattern.AnalysisResult
}

// NullReducer is the in-process reducer used without any MPI transport: it
// unions the intervals of every report it is given, re-sorted by TBegin
// since wire transit gives no ordering guarantee, and sums their per-label
// stats.
type NullReducer struct {
	intervals []accesspattern.IntervalLabel
	stats     map[accesspattern.Label]accesspattern.PatternStatistics
}

// NewNullReducer returns an empty NullReducer.
func NewNullReducer() *NullReducer {
	return &NullReducer{stats: make(map[accesspattern.Label]accesspattern.PatternStatistics)}
}

// Add implements Reducer.
func (r *NullReducer) Add(report *wire.RankReportProto) {
	for _, iv := range report.Intervals {
		r.intervals = append(r.intervals, accesspattern.IntervalLabel{
			Interval: accesspattern.TimeInterval{TBegin: iv.TBegin, TEnd: iv.TEnd},
			Label:    accesspattern.Label(iv.Label),
		})
	}
	for _, st := range report.Stats {
		label := accesspattern.Label(st.Label)
		r.stats[label] = r.stats[label].Add(accesspattern.PatternStatistics{
			IOSize:     st.IoSize,
			TicksSpent: st.TicksSpent,
		})
	}
}

// Result implements Reducer.
func (r *NullReducer) Result() accesspattern.AnalysisResult {
	sorted := make([]accesspattern.IntervalLabel, len(r.intervals))
	copy(sorted, r.intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Interval.TBegin < sorted[j].Interval.TBegin
	})
	merged := make(map[accesspattern.Label]accesspattern.PatternStatistics, len(r.stats))
	for label, stats := range r.stats {
		merged[label] = stats
	}
	return accesspattern.AnalysisResult{
		PatternPerInterval: sorted,
		StatsPerPattern:    merged,
	}
}

// ToWire converts one rank's finished AnalysisResult for a file into the
// wire message aggregate transmits between ranks.
func ToWire(filePath string, rankID uint32, result accesspattern.AnalysisResult) *wire.RankReportProto {
	report := &wire.RankReportProto{FilePath: filePath, RankId: rankID}
	for _, il := range result.PatternPerInterval {
		report.Intervals = append(report.Intervals, &wire.IntervalProto{
			TBegin: il.Interval.TBegin,
			TEnd:   il.Interval.TEnd,
			Label:  int32(il.Label),
		})
	}
	for label, stats := range result.StatsPerPattern {
		report.Stats = append(report.Stats, &wire.PatternStatsProto{
			FilePath:   filePath,
			Label:      int32(label),
			IoSize:     stats.IOSize,
			TicksSpent: stats.TicksSpent,
		})
	}
	return report
}

// Marshal and Unmarshal expose gogo/protobuf's reflection-based codec
// directly, so transport code (MPI-backed or otherwise) never needs to
// import aggregate/wire itself.

// Marshal encodes a RankReportProto for transmission.
func Marshal(report *wire.RankReportProto) ([]byte, error) {
	b, err := proto.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate: marshaling rank report")
	}
	return b, nil
}

// Unmarshal decodes bytes produced by Marshal.
func Unmarshal(b []byte) (*wire.RankReportProto, error) {
	report := &wire.RankReportProto{}
	if err := proto.Unmarshal(b, report); err != nil {
		return nil, errors.Wrap(err, "aggregate: unmarshaling rank report")
	}
	return report, nil
}
