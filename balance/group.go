package balance

import (
	"math"
	"time"

	"worktime/models"
)

// PlaceholderJob is the job text of the synthetic zero-hour entry that
// stands in for a working day with nothing logged, so renderers can
// show a "no work logged" row without special-casing empty days.
const PlaceholderJob = "---BRAK---"

// DayGroup is one calendar day of a grouped view: the day, its ISO
// week, its classification, and the reports logged on it.
type DayGroup struct {
	Day     time.Time
	Week    int
	Off     bool
	Reports []models.Report
}

// Placeholder returns the synthetic zero-hour report for a day with no
// logged work.
func (g DayGroup) Placeholder(username string) models.Report {
	return models.Report{
		Username:  username,
		Job:       PlaceholderJob,
		Hours:     0,
		MessageAt: g.Day,
	}
}

// GroupByDay buckets reports onto the given day-set, one group per
// day, in day-set order. Days without reports stay in the output as
// empty groups. Reports falling outside the day-set are dropped.
func (c *Calendar) GroupByDay(reports []models.Report, days []time.Time) []DayGroup {
	groups := make([]DayGroup, 0, len(days))
	for _, day := range days {
		g := DayGroup{Day: day, Week: c.Week(day), Off: c.IsOffDay(day)}
		for _, r := range reports {
			if c.SameDay(r.MessageAt, day) {
				g.Reports = append(g.Reports, r)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// SumHours adds up report hours, rounded to two decimals to keep
// float noise out of displayed balances.
func SumHours(reports []models.Report) float64 {
	var sum float64
	for _, r := range reports {
		sum += r.Hours
	}
	return round2(sum)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
