package balance

import (
	"sort"
	"time"

	"worktime/models"
)

// DefaultDayHours is the baseline expected workload per working day
// for employees with no duration override covering a date.
const DefaultDayHours = 6

// ExpectedHours resolves the expected workload for day from the
// employee's override history: the override with the latest from-date
// on or before day wins; with no match def applies. Resolution is at
// calendar-day granularity, so an override dated anywhere within a day
// covers that whole day. The input is re-sorted descending by
// from-date rather than trusting caller order.
func (c *Calendar) ExpectedHours(day time.Time, overrides []models.DayDuration, def float64) float64 {
	if len(overrides) == 0 {
		return def
	}

	sorted := make([]models.DayDuration, len(overrides))
	copy(sorted, overrides)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FromDate.After(sorted[j].FromDate)
	})

	dayStart := c.startOfDay(day)
	for _, o := range sorted {
		if !c.startOfDay(o.FromDate).After(dayStart) {
			return o.Duration
		}
	}
	return def
}
