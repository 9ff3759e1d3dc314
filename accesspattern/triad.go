package accesspattern

// Classify3 is the pure, total triad classifier: given three consecutive
// non-meta access records (in chronological order), it returns the access
// pattern they exhibit. It depends only on FPos and Size, never on
// timestamps, so it is invariant under any uniform translation of either.
//
// - CONTIGUOUS iff a ends exactly where b begins, and b ends exactly where c
//   begins.
// - Otherwise STRIDED iff the raw-offset stride from a to b equals the
//   stride from b to c (sizes are irrelevant to this check).
// - Otherwise RANDOM.
//
// Sizes of 0 are not special-cased here; callers are responsible for
// excluding metadata records before invoking Classify3.
func Classify3(a, b, c AccessRecord) Label {
	if a.nextFPos() == b.FPos && b.nextFPos() == c.FPos {
		return CONTIGUOUS
	}
	strideAB := int64(b.FPos) - int64(a.FPos)
	strideBC := int64(c.FPos) - int64(b.FPos)
	if strideAB == strideBC {
		return STRIDED
	}
	return RANDOM
}
