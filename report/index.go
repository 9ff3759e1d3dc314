package report

import (
	"github.com/biogo/store/interval"

	"github.com/tracescope/tracescope/accesspattern"
)

// intervalIndex answers "what pattern was active at tick t" in O(log n)
// rather than a linear scan over PatternPerInterval, grounded on the
// interval.IntTree usage pattern (insert every range once, then Get a
// single-point query range).
type intervalIndex struct {
	tree interval.IntTree
}

// labeledRange adapts one IntervalLabel into interval.Interval.
type labeledRange struct {
	id    uintptr
	rng   interval.IntRange
	label accesspattern.Label
}

func (r labeledRange) ID() uintptr             { return r.id }
func (r labeledRange) Range() interval.IntRange { return r.rng }
func (r labeledRange) Overlap(b interval.IntRange) bool {
	return r.rng.Start < b.End && b.Start < r.rng.End
}

// newIntervalIndex builds a queryable index over a finished classification.
// Intervals are indexed half-open, [TBegin, TEnd), although
// accesspattern.TimeInterval is inclusive: where one interval's TEnd equals
// the next one's TBegin, a point query at that tick lands in the later
// interval, and a query at a TEnd that no later interval starts at matches
// nothing.
func newIntervalIndex(intervals []accesspattern.IntervalLabel) *intervalIndex {
	idx := &intervalIndex{}
	for i, il := range intervals {
		end := int(il.Interval.TEnd)
		if end <= int(il.Interval.TBegin) {
			end = int(il.Interval.TBegin) + 1
		}
		err := idx.tree.Insert(labeledRange{
			id:    uintptr(i),
			rng:   interval.IntRange{Start: int(il.Interval.TBegin), End: end},
			label: il.Label,
		}, true)
		if err != nil {
			continue
		}
	}
	idx.tree.AdjustRanges()
	return idx
}

// LabelAt returns the label active at tick t, if t falls within
// [TBegin, TEnd) of any emitted interval.
func (idx *intervalIndex) LabelAt(t accesspattern.Tick) (accesspattern.Label, bool) {
	point := int(t)
	matches := idx.tree.Get(labeledRange{rng: interval.IntRange{Start: point, End: point + 1}})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].(labeledRange).label, true
}
