package balance

import (
	"time"
)

// MonthStart returns the first day of the month, dayOffset past
// midnight in the calendar's timezone.
func (c *Calendar) MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, c.loc).Add(dayOffset)
}

// MonthEnd returns the last day of the month, dayOffset before the
// following midnight.
func (c *Calendar) MonthEnd(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, c.loc).Add(-dayOffset)
}

// MonthDays lists every calendar day of the month in ascending order.
// Days are generated from the contiguous day-of-month range, so the
// result has no gaps and no duplicates.
func (c *Calendar) MonthDays(year int, month time.Month) []time.Time {
	last := c.MonthEnd(year, month).Day()
	days := make([]time.Time, 0, last)
	for d := 1; d <= last; d++ {
		days = append(days, time.Date(year, month, d, 0, 0, 0, 0, c.loc).Add(dayOffset))
	}
	return days
}

// WorkingDays returns the month's days that are neither weekend nor
// public holiday, ascending.
func (c *Calendar) WorkingDays(year int, month time.Month) []time.Time {
	var days []time.Time
	for _, d := range c.MonthDays(year, month) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// OffDays returns the month's weekend and holiday days, ascending.
func (c *Calendar) OffDays(year int, month time.Month) []time.Time {
	var days []time.Time
	for _, d := range c.MonthDays(year, month) {
		if c.IsOffDay(d) {
			days = append(days, d)
		}
	}
	return days
}
