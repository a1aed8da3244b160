package triage

import (
	"slices"
	"time"
)

type sample struct {
	actionID string
	elapsed  time.Duration
}

// Stats holds session-scoped triage counters.
type Stats struct {
	Processed int
	Total     int

	samples []sample
}

// Record counts one processed item and the time spent on it.
func (s *Stats) Record(actionID string, elapsed time.Duration) {
	s.Processed++
	s.samples = append(s.samples, sample{actionID: actionID, elapsed: elapsed})
}

// Rollback reverses a Record. The sample recorded for actionID is dropped;
// if it cannot be found the most recent sample is dropped instead.
// Processed never goes below zero.
func (s *Stats) Rollback(actionID string) {
	if s.Processed > 0 {
		s.Processed--
	}
	if len(s.samples) == 0 {
		return
	}

	idx := slices.IndexFunc(s.samples, func(sm sample) bool { return sm.actionID == actionID })
	if idx < 0 {
		idx = len(s.samples) - 1
	}
	s.samples = slices.Delete(s.samples, idx, idx+1)
}

// Durations returns the recorded per-item times in the order they were taken.
func (s Stats) Durations() []time.Duration {
	out := make([]time.Duration, len(s.samples))
	for i, sm := range s.samples {
		out[i] = sm.elapsed
	}
	return out
}

// Average returns the mean time spent per processed item.
func (s Stats) Average() time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, sm := range s.samples {
		sum += sm.elapsed
	}
	return sum / time.Duration(len(s.samples))
}

// Remaining returns how many items of the original total are left.
func (s Stats) Remaining() int {
	return max(s.Total-s.Processed, 0)
}

func (s Stats) clone() Stats {
	s.samples = slices.Clone(s.samples)
	return s
}
