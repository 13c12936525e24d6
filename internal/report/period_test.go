package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowDayAligned(t *testing.T) {
	now := time.Date(2026, 8, 15, 13, 45, 12, 0, time.UTC)

	from, to := Window(7, now)

	assert.Equal(t, time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 8, 15, 23, 59, 59, 0, time.UTC), to)
}

func TestWindowSingleDay(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 1, 0, time.UTC)

	from, to := Window(1, now)

	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 8, 15, 23, 59, 59, 0, time.UTC), to)
}

func TestPreviousWindowAdjacent(t *testing.T) {
	now := time.Date(2026, 8, 15, 13, 45, 12, 0, time.UTC)
	from, _ := Window(7, now)

	prevFrom, prevTo := PreviousWindow(from, 7)

	// The previous window ends one second before the current one starts.
	assert.Equal(t, from.Add(-time.Second), prevTo)
	assert.Equal(t, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), prevFrom)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), to)
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 50.0, PercentChange(15, 10), 0.001)
	assert.InDelta(t, -50.0, PercentChange(5, 10), 0.001)
	assert.InDelta(t, 0.0, PercentChange(10, 10), 0.001)

	// Growth from nothing reports as a flat +100%.
	assert.InDelta(t, 100.0, PercentChange(7, 0), 0.001)
	assert.InDelta(t, 0.0, PercentChange(0, 0), 0.001)
}
