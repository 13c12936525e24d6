// Package report builds the stats comparisons and email reports on top of
// the read-side store: period-over-period counts for the API, a monthly
// digest, and instant lead notifications.
package report

import "time"

// ValidPeriods are the comparison windows the stats API accepts, in days.
var ValidPeriods = map[int]bool{1: true, 7: true, 30: true, 90: true}

// Window returns the current comparison window for a period of the given
// number of days: day-aligned UTC, ending today at 23:59:59 and starting
// period-1 days earlier at 00:00:00.
func Window(days int, now time.Time) (from, to time.Time) {
	day := now.UTC()
	to = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(days - 1))
	return from, to
}

// PreviousWindow returns the window of the same length immediately before
// the window starting at from. It ends one second before from, so adjacent
// windows never overlap.
func PreviousWindow(from time.Time, days int) (time.Time, time.Time) {
	to := from.Add(-time.Second)
	start := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(days - 1))
	return start, to
}

// MonthWindow returns the full calendar month containing t, UTC day-aligned.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	from := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	return from, to
}

// PercentChange returns the period-over-period change in percent. Growth
// from zero reports as 100; zero to zero reports as 0.
func PercentChange(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
