package accesspattern

import "github.com/tracescope/tracescope/circular"

// windowCapacity is the number of records the sliding window holds: the
// classifier never needs to look back further than the current triad.
const windowCapacity = NRAccessesThreshold

// window is a fixed-capacity ring buffer holding the last three non-meta
// AccessRecords, indexed by a cursor that advances modulo windowCapacity on
// each push.
type window struct {
	buf  [windowCapacity]AccessRecord
	head int // index one past the most recently pushed record
	n    int // number of records pushed so far, saturates at windowCapacity
}

// push inserts r as the newest record, evicting the oldest once the window
// is full.
func (w *window) push(r AccessRecord) {
	w.buf[w.head] = r
	w.head = circular.WrapIndex(w.head+1, windowCapacity)
	if w.n < windowCapacity {
		w.n++
	}
}

// at returns the record offset positions back from the newest, where
// offset is in [-(windowCapacity-1), 0]; at(0) is the newest record, at(-1)
// the one before it, and so on.
func (w *window) at(offset int) AccessRecord {
	idx := circular.WrapIndex(w.head-1+offset, windowCapacity)
	return w.buf[idx]
}

// asTriad returns the three buffered records in chronological order,
// oldest first.
func (w *window) asTriad() (a, b, c AccessRecord) {
	return w.at(-2), w.at(-1), w.at(0)
}
