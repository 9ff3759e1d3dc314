package accesspattern

// localState carries the streaming classifier's mutable state while it
// walks one handle's filtered access sequence. It is never shared across
// handles, so Local (below) allocates a fresh one per call — this keeps the
// classifier itself pure over its input.
type localState struct {
	win                   window
	currentState          Label
	intervalStart         Tick
	currStats             PatternStatistics
	countInCurrentPattern int

	result AnalysisResult
}

// closeInterval records a finished (TBegin, TEnd) -> label segment and
// folds stats into the running total.
func (s *localState) closeInterval(label Label, tEnd Tick, stats PatternStatistics) {
	s.result.PatternPerInterval = append(s.result.PatternPerInterval, IntervalLabel{
		Interval: TimeInterval{TBegin: s.intervalStart, TEnd: tEnd},
		Label:    label,
	})
	s.result.addStats(label, stats)
}

// reinitFromWindow re-derives currentState from the window's current triad
// after a clean close. The window still holds the two trailing records of
// the run that just closed alongside cur, so it is a fine backward-looking
// guess at the new run's pattern — but those two trailing records are not
// members of the interval now opening at cur, so countInCurrentPattern
// starts at 1 (cur alone), not 3: a close can only fire once this interval
// has accumulated NRAccessesThreshold records genuinely its own, counted
// from intervalStart forward, the same way stepContiguous/stepStrided/
// stepRandom grow it one real record at a time thereafter.
func (s *localState) reinitFromWindow() {
	a, b, c := s.win.asTriad()
	s.currentState = Classify3(a, b, c)
	s.countInCurrentPattern = 1
}

// breakCurrentRun is invoked whenever a newly-pushed record fails the active
// pattern's continuation test. A run that has accumulated more than
// NRAccessesThreshold records closes cleanly — TEnd at the record just
// before cur, TBegin of the next interval at cur's StartTime (or at the
// record before cur's EndTime, if cur began before that record completed),
// so consecutive intervals always abut rather than overlap. A run that hasn't yet outgrown
// its founding triad instead just relabels in place: there is nothing
// earlier it could hand off to a sibling interval, so the open interval
// simply continues under the newly-observed label.
//
// This replaces the "close two records back, reopen at that record's
// start_time" phrasing some distillations of this state machine use for the
// STRIDED->CONTIGUOUS and RANDOM->other transitions: reclaiming a record
// that already contributed to the closing interval's stats, while also
// being claimed as the first record of the reopened one, produces
// overlapping intervals whenever that record's StartTime precedes its own
// EndTime — which is every record with nonzero duration. Closing strictly
// between two adjacent records avoids that by construction.
func (s *localState) breakCurrentRun(prev, cur AccessRecord) {
	if s.countInCurrentPattern > NRAccessesThreshold {
		committed := s.currStats.sub(contribution(cur))
		s.closeInterval(s.currentState, prev.EndTime, committed)
		s.intervalStart = cur.StartTime
		if s.intervalStart < prev.EndTime {
			s.intervalStart = prev.EndTime
		}
		s.currStats = contribution(cur)
		s.reinitFromWindow()
		return
	}
	a, b, c := s.win.asTriad()
	s.currentState = Classify3(a, b, c)
}

// Local classifies one handle's access sequence, in completion order,
// producing an AnalysisResult that satisfies the coverage, consistency,
// NONE-usage and monotonicity invariants documented on AnalysisResult.
//
// Local never mutates or retains records; it is safe to call concurrently
// for different handles.
func Local(records []AccessRecord) AnalysisResult {
	filtered := make([]AccessRecord, 0, len(records))
	for _, r := range records {
		if !r.IsMeta {
			filtered = append(filtered, r)
		}
	}

	result := AnalysisResult{StatsPerPattern: zeroedStatsPerPattern()}

	if len(filtered) == 0 {
		return result
	}

	if len(filtered) < NRAccessesThreshold {
		var sum PatternStatistics
		for _, r := range filtered {
			sum = sum.Add(contribution(r))
		}
		result.PatternPerInterval = append(result.PatternPerInterval, IntervalLabel{
			Interval: TimeInterval{TBegin: filtered[0].StartTime, TEnd: filtered[len(filtered)-1].EndTime},
			Label:    NONE,
		})
		result.StatsPerPattern[NONE] = sum
		return result
	}

	s := &localState{result: result}
	s.win.push(filtered[0])
	s.win.push(filtered[1])
	s.win.push(filtered[2])
	s.currentState = Classify3(filtered[0], filtered[1], filtered[2])
	s.intervalStart = filtered[0].StartTime
	s.currStats = contribution(filtered[0]).Add(contribution(filtered[1])).Add(contribution(filtered[2]))
	s.countInCurrentPattern = 3

	for i := 3; i < len(filtered); i++ {
		cur := filtered[i]
		s.win.push(cur)
		s.currStats = s.currStats.Add(contribution(cur))

		switch s.currentState {
		case CONTIGUOUS:
			s.stepContiguous(cur)
		case STRIDED:
			s.stepStrided(cur)
		case RANDOM:
			s.stepRandom(cur)
		}
	}

	if s.countInCurrentPattern > 0 {
		lastEnd := filtered[len(filtered)-1].EndTime
		if n := len(s.result.PatternPerInterval); n > 0 && s.countInCurrentPattern < NRAccessesThreshold {
			// Too few records since the last close to carry a label of
			// their own: the previous interval is extended over them.
			prior := &s.result.PatternPerInterval[n-1]
			prior.Interval.TEnd = lastEnd
			s.result.addStats(prior.Label, s.currStats)
		} else {
			s.closeInterval(s.currentState, lastEnd, s.currStats)
		}
	}
	return s.result
}

// stepContiguous advances the state machine for one newly-pushed record
// while the classifier currently believes it is looking at a CONTIGUOUS
// run.
func (s *localState) stepContiguous(cur AccessRecord) {
	prev := s.win.at(-1)
	if cur.FPos == prev.nextFPos() {
		s.countInCurrentPattern++
		return
	}
	s.breakCurrentRun(prev, cur)
}

// stepStrided advances the state machine for one newly-pushed record while
// the classifier currently believes it is looking at a STRIDED run.
func (s *localState) stepStrided(cur AccessRecord) {
	prev := s.win.at(-1)
	twoBack := s.win.at(-2)
	d := int64(prev.FPos) - int64(twoBack.FPos)
	if int64(cur.FPos)-int64(prev.FPos) == d {
		s.countInCurrentPattern++
		return
	}
	s.breakCurrentRun(prev, cur)
}

// stepRandom advances the state machine for one newly-pushed record while
// the classifier currently believes it is looking at a RANDOM run.
func (s *localState) stepRandom(cur AccessRecord) {
	a, b, c := s.win.asTriad()
	if Classify3(a, b, c) == RANDOM {
		s.countInCurrentPattern++
		return
	}
	s.breakCurrentRun(s.win.at(-1), cur)
}
