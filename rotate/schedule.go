package rotate

import "time"

// Scheduler tracks the active day and decides when the midnight boundary
// has been crossed. Only the calendar date matters here; the minute-level
// stamp on rotated filenames exists purely to disambiguate multiple
// rotations on the same day.
type Scheduler struct {
	year  int
	month time.Month
	day   int
}

// NewScheduler creates a Scheduler with start's date as the active day.
func NewScheduler(start time.Time) *Scheduler {
	s := &Scheduler{}
	s.Advance(start)
	return s
}

// ShouldRotate reports whether now falls on a different calendar date than
// the active day. It does not advance the scheduler.
func (s *Scheduler) ShouldRotate(now time.Time) bool {
	y, m, d := now.Date()
	return y != s.year || m != s.month || d != s.day
}

// Advance records now's date as the active day.
func (s *Scheduler) Advance(now time.Time) {
	s.year, s.month, s.day = now.Date()
}
