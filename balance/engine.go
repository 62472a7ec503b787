package balance

import (
	"sort"
	"time"

	"worktime/models"
)

// Config carries the process-wide knobs the engine needs. Zero values
// fall back to UTC, PL holidays, DefaultDayHours and the wall clock.
type Config struct {
	Location        *time.Location
	Country         string
	DefaultDayHours float64
	// FutureGraceDays extends the "required hours stop at today"
	// cutoff by whole days; 0 makes today the last counted day.
	FutureGraceDays int
	// Now is the clock; tests inject a fixed one.
	Now func() time.Time
}

// Engine computes day, week, month and lifetime balances from report
// and duration-override snapshots. Every method is a pure function of
// its inputs and the injected clock.
type Engine struct {
	cal      *Calendar
	defHours float64
	grace    int
	now      func() time.Time
}

func New(cfg Config) *Engine {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	defHours := cfg.DefaultDayHours
	if defHours <= 0 {
		defHours = DefaultDayHours
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cal:      NewCalendar(loc, cfg.Country),
		defHours: defHours,
		grace:    cfg.FutureGraceDays,
		now:      now,
	}
}

// Calendar exposes the engine's date classifier.
func (e *Engine) Calendar() *Calendar {
	return e.cal
}

// Balance pairs the two operands with their signed difference.
// Positive means ahead of quota.
type Balance struct {
	Worked   float64 `json:"worked"`
	Required float64 `json:"required"`
	Balance  float64 `json:"balance"`
}

// FirstReportAt returns the employee's earliest report time, or the
// zero time when there are no reports.
func (e *Engine) FirstReportAt(reports []models.Report) time.Time {
	var first time.Time
	for _, r := range reports {
		if first.IsZero() || r.MessageAt.Before(first) {
			first = r.MessageAt
		}
	}
	return first
}

// countable reports whether day is one the employee owes hours for: on
// or after their first report date and, unless countFuture, no later
// than today plus the configured grace. With no first report nothing
// is owed.
func (e *Engine) countable(day, firstReport time.Time, countFuture bool) bool {
	if firstReport.IsZero() {
		return false
	}
	dayStart := e.cal.startOfDay(day)
	if dayStart.Before(e.cal.startOfDay(firstReport)) {
		return false
	}
	if countFuture {
		return true
	}
	cutoff := e.cal.startOfDay(e.now()).AddDate(0, 0, e.grace+1)
	return dayStart.Before(cutoff)
}

// RequiredHours sums the expected workload over days, skipping days
// before the employee's first report and days beyond the cutoff.
func (e *Engine) RequiredHours(days []time.Time, overrides []models.DayDuration, firstReport time.Time, countFuture bool) float64 {
	var sum float64
	for _, day := range days {
		if e.countable(day, firstReport, countFuture) {
			sum += e.cal.ExpectedHours(day, overrides, e.defHours)
		}
	}
	return round2(sum)
}

// reportsInMonth filters reports to those attributed to the given
// calendar month in the engine's timezone.
func (e *Engine) reportsInMonth(reports []models.Report, year int, month time.Month) []models.Report {
	var out []models.Report
	for _, r := range reports {
		at := r.MessageAt.In(e.cal.loc)
		if at.Year() == year && at.Month() == month {
			out = append(out, r)
		}
	}
	return out
}

// MonthBalance computes worked minus required hours for one calendar
// month. Required hours accrue on working days only; worked hours
// count every report in the month, including voluntary off-day work.
// The full report history is passed in so the first-report bound is
// the lifetime one, not the month's.
func (e *Engine) MonthBalance(year int, month time.Month, reports []models.Report, overrides []models.DayDuration, countFuture bool) Balance {
	first := e.FirstReportAt(reports)
	required := e.RequiredHours(e.cal.WorkingDays(year, month), overrides, first, countFuture)
	worked := SumHours(e.reportsInMonth(reports, year, month))
	return Balance{Worked: worked, Required: required, Balance: round2(worked - required)}
}

// WeekBalance computes the balance for one ISO week within a month
// view. Both the day-set and the reports are restricted to that week
// of that month, matching the weekly subtotal rows of the report page.
func (e *Engine) WeekBalance(year int, month time.Month, week int, reports []models.Report, overrides []models.DayDuration, countFuture bool) Balance {
	first := e.FirstReportAt(reports)

	var days []time.Time
	for _, d := range e.cal.WorkingDays(year, month) {
		if e.cal.Week(d) == week {
			days = append(days, d)
		}
	}

	var weekReports []models.Report
	for _, r := range e.reportsInMonth(reports, year, month) {
		if e.cal.Week(r.MessageAt) == week {
			weekReports = append(weekReports, r)
		}
	}

	required := e.RequiredHours(days, overrides, first, countFuture)
	worked := SumHours(weekReports)
	return Balance{Worked: worked, Required: required, Balance: round2(worked - required)}
}

// TotalBalance is the lifetime balance: the sum of monthly balances
// from the month of the employee's first report through the current
// month. Future days are never counted here, whatever the per-query
// toggle elsewhere says, so unworked time ahead of now cannot drag the
// total down. Zero reports means zero months to iterate, and a zero
// total.
func (e *Engine) TotalBalance(reports []models.Report, overrides []models.DayDuration) float64 {
	first := e.FirstReportAt(reports)
	if first.IsZero() {
		return 0
	}

	firstLocal := first.In(e.cal.loc)
	cursor := time.Date(firstLocal.Year(), firstLocal.Month(), 1, 0, 0, 0, 0, e.cal.loc)
	nowLocal := e.now().In(e.cal.loc)
	end := time.Date(nowLocal.Year(), nowLocal.Month(), 1, 0, 0, 0, 0, e.cal.loc)

	var total float64
	for !cursor.After(end) {
		b := e.MonthBalance(cursor.Year(), cursor.Month(), reports, overrides, false)
		total += b.Balance
		cursor = cursor.AddDate(0, 1, 0)
	}
	return round2(total)
}

// MonthView is what a presentation collaborator needs to render one
// month: day groups in order, weekly subtotals, and the month summary.
type MonthView struct {
	Days   []DayGroup
	Weeks  []WeekSummary
	Totals Balance
}

// WeekSummary is the subtotal row for one ISO week of a month view.
type WeekSummary struct {
	Week int
	Balance
}

// MonthView groups the month's reports by day and computes the weekly
// and monthly balances over the same day-set. Working days appear
// whether or not anything was logged, bounded by the same cutoff as
// required hours; off-days appear only when work was actually logged
// on them.
func (e *Engine) MonthView(year int, month time.Month, reports []models.Report, overrides []models.DayDuration, countFuture bool) MonthView {
	first := e.FirstReportAt(reports)
	monthReports := e.reportsInMonth(reports, year, month)

	var days []time.Time
	for _, d := range e.cal.WorkingDays(year, month) {
		if e.countable(d, first, countFuture) {
			days = append(days, d)
		}
	}
	for _, off := range e.cal.OffDays(year, month) {
		for _, r := range monthReports {
			if e.cal.SameDay(r.MessageAt, off) {
				days = append(days, off)
				break
			}
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	groups := e.cal.GroupByDay(monthReports, days)

	var weeks []WeekSummary
	seen := make(map[int]bool)
	for _, g := range groups {
		if seen[g.Week] {
			continue
		}
		seen[g.Week] = true
		weeks = append(weeks, WeekSummary{
			Week:    g.Week,
			Balance: e.WeekBalance(year, month, g.Week, reports, overrides, countFuture),
		})
	}

	return MonthView{
		Days:   groups,
		Weeks:  weeks,
		Totals: e.MonthBalance(year, month, reports, overrides, countFuture),
	}
}
