// Package balance computes working-time balances: how many hours an
// employee was expected to work over a period, how many they logged,
// and the signed difference. It is pure computation over records the
// caller already fetched; it performs no I/O and is safe for
// concurrent use.
package balance

import (
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/pl"
	"github.com/rickar/cal/v2/us"
)

// dayOffset keeps generated day values a few hours away from midnight
// so a UTC/local conversion can never shift them onto a neighboring
// calendar day.
const dayOffset = 3 * time.Hour

// Calendar classifies dates against weekends and the public-holiday
// calendar of a single country, in a single business timezone. Any
// date is classifiable; there are no error paths.
type Calendar struct {
	loc      *time.Location
	holidays *cal.BusinessCalendar
}

// NewCalendar builds a classifier for the given timezone and ISO
// country code. Unknown country codes fall back to PL.
func NewCalendar(loc *time.Location, country string) *Calendar {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(holidaysFor(country)...)
	return &Calendar{loc: loc, holidays: bc}
}

func holidaysFor(country string) []*cal.Holiday {
	switch strings.ToUpper(country) {
	case "DE":
		return de.Holidays
	case "GB":
		return gb.Holidays
	case "US":
		return us.Holidays
	default:
		return pl.Holidays
	}
}

// IsOffDay reports whether d falls on a weekend or a public holiday in
// the calendar's timezone.
func (c *Calendar) IsOffDay(d time.Time) bool {
	return !c.holidays.IsWorkday(d.In(c.loc))
}

// IsWorkingDay is the complement of IsOffDay.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	return !c.IsOffDay(d)
}

// Location returns the business timezone the calendar classifies in.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Week returns the ISO week number of t in the calendar's timezone.
func (c *Calendar) Week(t time.Time) int {
	_, week := t.In(c.loc).ISOWeek()
	return week
}

// SameDay reports whether a and b fall on the same calendar day in the
// calendar's timezone.
func (c *Calendar) SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	return ay == by && am == bm && ad == bd
}

// startOfDay truncates t to midnight in the calendar's timezone.
func (c *Calendar) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}
