package dashboard

import "time"

const monthSeriesLen = 12

// monthKeys returns the 12 most recent calendar-month keys in "YYYY-MM"
// format, oldest first, ending at the month of now. The series is always
// fully populated; sparse input only affects the values, never the axis.
func monthKeys(now time.Time) []string {
	keys := make([]string, 0, monthSeriesLen)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthSeriesLen - 1), 0)
	for i := 0; i < monthSeriesLen; i++ {
		keys = append(keys, formatMonth(first.AddDate(0, i, 0)))
	}
	return keys
}

func formatMonth(t time.Time) string {
	return t.Format("2006-01")
}

func monthKey(t time.Time) string {
	return formatMonth(t.UTC())
}
