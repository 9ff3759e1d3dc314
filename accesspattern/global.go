package accesspattern

import "sort"

// HandleID identifies one open-file handle within a file's handle set; it is
// opaque to the classifier beyond providing a deterministic tie-break.
type HandleID uint64

// HandleSequence pairs one handle's access records with its identity; the
// registry package hands Global a file's complete handle set this way.
type HandleSequence struct {
	Handle  HandleID
	Records []AccessRecord
}

// NewHandleSequence pairs a handle id with its records in completion order.
func NewHandleSequence(handle HandleID, records []AccessRecord) HandleSequence {
	return HandleSequence{Handle: handle, Records: records}
}

// Global merges every handle's access sequence for one file into a single
// logical stream, ordered by (EndTime, StartTime, HandleID) to break ties
// deterministically, and reuses Local to classify the merge. It makes no
// attempt to reconcile overlapping writes across handles: the union is
// treated as a single access stream, exactly as Local treats any other
// sequence.
func Global(sequences []HandleSequence) AnalysisResult {
	total := 0
	for _, seq := range sequences {
		total += len(seq.Records)
	}
	type tagged struct {
		record AccessRecord
		handle HandleID
	}
	merged := make([]tagged, 0, total)
	for _, seq := range sequences {
		for _, r := range seq.Records {
			merged = append(merged, tagged{record: r, handle: seq.Handle})
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.record.EndTime != b.record.EndTime {
			return a.record.EndTime < b.record.EndTime
		}
		if a.record.StartTime != b.record.StartTime {
			return a.record.StartTime < b.record.StartTime
		}
		return a.handle < b.handle
	})

	records := make([]AccessRecord, len(merged))
	for i, t := range merged {
		records[i] = t.record
	}
	return Local(records)
}
