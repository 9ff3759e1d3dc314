// Package wire defines the protobuf wire message aggregate exchanges
// between ranks: one PatternStatsProto per (file, label) pair plus its
// IntervalProto segmentation, reduced with gogo/protobuf's reflection-based
// Marshal/Unmarshal rather than a protoc-gen-gogofaster build step.
package wire

import "fmt"

// IntervalProto is the wire form of one accesspattern.IntervalLabel.
type IntervalProto struct {
	TBegin uint64 `protobuf:"varint,1,opt,name=t_begin,proto3" json:"t_begin,omitempty"`
	TEnd   uint64 `protobuf:"varint,2,opt,name=t_end,proto3" json:"t_end,omitempty"`
	Label  int32  `protobuf:"varint,3,opt,name=label,proto3" json:"label,omitempty"`
}

func (m *IntervalProto) Reset()         { *m = IntervalProto{} }
func (m *IntervalProto) String() string { return fmt.Sprintf("%+v", *m) }
func (*IntervalProto) ProtoMessage()    {}

// PatternStatsProto is the wire form of one accesspattern.PatternStatistics
// entry, tagged with the label and file it belongs to so a reducer can fold
// entries from many ranks without a side channel.
type PatternStatsProto struct {
	FilePath   string `protobuf:"bytes,1,opt,name=file_path,proto3" json:"file_path,omitempty"`
	Label      int32  `protobuf:"varint,2,opt,name=label,proto3" json:"label,omitempty"`
	IoSize     uint64 `protobuf:"varint,3,opt,name=io_size,proto3" json:"io_size,omitempty"`
	TicksSpent uint64 `protobuf:"varint,4,opt,name=ticks_spent,proto3" json:"ticks_spent,omitempty"`
}

func (m *PatternStatsProto) Reset()         { *m = PatternStatsProto{} }
func (m *PatternStatsProto) String() string { return fmt.Sprintf("%+v", *m) }
func (*PatternStatsProto) ProtoMessage()    {}

// RankReportProto is one rank's complete contribution for a single file:
// its interval segmentation plus the per-label stats rollup. aggregate
// gathers one of these per (rank, file) and reduces them into the final
// report.FileInfo.
type RankReportProto struct {
	FilePath  string               `protobuf:"bytes,1,opt,name=file_path,proto3" json:"file_path,omitempty"`
	RankId    uint32               `protobuf:"varint,2,opt,name=rank_id,proto3" json:"rank_id,omitempty"`
	Intervals []*IntervalProto     `protobuf:"bytes,3,rep,name=intervals,proto3" json:"intervals,omitempty"`
	Stats     []*PatternStatsProto `protobuf:"bytes,4,rep,name=stats,proto3" json:"stats,omitempty"`
}

func (m *RankReportProto) Reset()         { *m = RankReportProto{} }
func (m *RankReportProto) String() string { return fmt.Sprintf("%+v", *m) }
func (*RankReportProto) ProtoMessage()    {}
