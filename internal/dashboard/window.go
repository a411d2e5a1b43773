package dashboard

import "time"

const windowDays = 30

// Window is a half-open interval [Start, End) used to bucket timestamped
// records into the current or previous reporting period.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window: Start <= t < End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Windows derives the two comparison periods from a single reference time so
// every bucket in one aggregation run agrees on the boundaries.
func Windows(now time.Time) (current, previous Window) {
	end := now
	mid := now.AddDate(0, 0, -windowDays)
	start := now.AddDate(0, 0, -2*windowDays)
	return Window{Start: mid, End: end}, Window{Start: start, End: mid}
}
