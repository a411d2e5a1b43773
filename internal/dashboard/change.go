package dashboard

import "math"

// PctChange computes (current-previous)/previous*100. It returns nil when
// the baseline is exactly zero or either operand is not finite: there is no
// defensible percentage in those cases, and nil lets the caller distinguish
// "no comparison available" from an actual 0% movement.
//
// The sign is polarity-agnostic; whether a positive movement is good or bad
// is the presentation layer's call.
func PctChange(current, previous float64) *float64 {
	if math.IsNaN(current) || math.IsInf(current, 0) || math.IsNaN(previous) || math.IsInf(previous, 0) {
		return nil
	}
	if previous == 0 {
		return nil
	}
	change := (current - previous) / previous * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return nil
	}
	return &change
}
