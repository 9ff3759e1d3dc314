package accesspattern

// contribution returns the (IOSize, TicksSpent) pair a single record adds
// to whichever interval it ends up classified under.
func contribution(r AccessRecord) PatternStatistics {
	return PatternStatistics{IOSize: r.Size, TicksSpent: r.Duration}
}

// sub returns s minus other. Unlike Add, this is not saturating: the
// classifier only ever subtracts a contribution it just added, so going
// negative indicates a programmer error in the state machine, not bad
// input, and is reported as such.
func (s PatternStatistics) sub(other PatternStatistics) PatternStatistics {
	if other.IOSize > s.IOSize || other.TicksSpent > s.TicksSpent {
		panic("accesspattern: PatternStatistics.sub underflow — classifier invariant violated")
	}
	return PatternStatistics{
		IOSize:     s.IOSize - other.IOSize,
		TicksSpent: s.TicksSpent - other.TicksSpent,
	}
}

func zeroedStatsPerPattern() map[Label]PatternStatistics {
	return map[Label]PatternStatistics{
		NONE:       {},
		CONTIGUOUS: {},
		STRIDED:    {},
		RANDOM:     {},
	}
}
