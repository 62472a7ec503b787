package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"worktime/balance"
	"worktime/config"
	"worktime/database"
	"worktime/models"

	"github.com/go-chi/chi/v5"
)

// redactedJob replaces the job text of reports flagged secret in
// viewer output.
const redactedJob = "[redacted]"

// ViewHandler serves the read side: month report views for the people
// looking at the rendered tables.
type ViewHandler struct {
	config *config.Config
	engine *balance.Engine
}

func NewViewHandler(cfg *config.Config, engine *balance.Engine) *ViewHandler {
	return &ViewHandler{config: cfg, engine: engine}
}

type reportRow struct {
	Date        string  `json:"date"`
	Week        int     `json:"week"`
	Job         string  `json:"job"`
	Hours       float64 `json:"hours"`
	OffDay      bool    `json:"off_day"`
	Reporter    string  `json:"reporter,omitempty"`
	Link        string  `json:"link,omitempty"`
	PaidTimeOff bool    `json:"paid_time_off,omitempty"`
}

type weekRow struct {
	Week     int     `json:"week"`
	Worked   float64 `json:"worked"`
	Required float64 `json:"required"`
	Balance  float64 `json:"balance"`
}

type monthResponse struct {
	Username string          `json:"username"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Rows     []reportRow     `json:"rows"`
	Weeks    []weekRow       `json:"weeks"`
	Summary  balance.Balance `json:"summary"`
}

// MonthReport renders one employee-month as day rows with weekly
// subtotals and a month summary. The month path segment is 0-based,
// matching what the bot and the old report URLs use.
func (h *ViewHandler) MonthReport(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 0 || month > 11 {
		writeError(w, http.StatusBadRequest, "invalid month (0-11)")
		return
	}
	countFuture := r.URL.Query().Get("count_future") == "true"

	reports, err := database.ReportsForUser(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load reports")
		return
	}
	durations, err := database.DurationsForUser(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load day durations")
		return
	}

	view := h.engine.MonthView(year, time.Month(month+1), reports, durations, countFuture)

	rows := make([]reportRow, 0, len(view.Days))
	for _, g := range view.Days {
		if len(g.Reports) == 0 {
			rows = append(rows, h.row(g, g.Placeholder(username)))
			continue
		}
		for _, rep := range g.Reports {
			rows = append(rows, h.row(g, rep))
		}
	}

	weeks := make([]weekRow, 0, len(view.Weeks))
	for _, ws := range view.Weeks {
		weeks = append(weeks, weekRow{Week: ws.Week, Worked: ws.Worked, Required: ws.Required, Balance: ws.Balance.Balance})
	}

	writeJSON(w, http.StatusOK, monthResponse{
		Username: username,
		Month:    month,
		Year:     year,
		Rows:     rows,
		Weeks:    weeks,
		Summary:  view.Totals,
	})
}

// ExportCSV streams the same month view as a CSV download.
func (h *ViewHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 0 || month > 11 {
		writeError(w, http.StatusBadRequest, "invalid month (0-11)")
		return
	}

	reports, err := database.ReportsForUser(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load reports")
		return
	}
	durations, err := database.DurationsForUser(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load day durations")
		return
	}

	view := h.engine.MonthView(year, time.Month(month+1), reports, durations, false)

	filename := fmt.Sprintf("report_%s_%d_%02d.csv", username, year, month+1)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"Date", "Week", "Job", "Hours", "OffDay"})

	for _, g := range view.Days {
		rows := g.Reports
		if len(rows) == 0 {
			rows = []models.Report{g.Placeholder(username)}
		}
		for _, rep := range rows {
			row := h.row(g, rep)
			writer.Write([]string{
				row.Date,
				strconv.Itoa(row.Week),
				row.Job,
				fmt.Sprintf("%.2f", row.Hours),
				strconv.FormatBool(row.OffDay),
			})
		}
	}
}

func (h *ViewHandler) row(g balance.DayGroup, rep models.Report) reportRow {
	job := rep.Job
	if rep.Secret {
		job = redactedJob
	}
	return reportRow{
		Date:        g.Day.Format("02-01-2006"),
		Week:        g.Week,
		Job:         job,
		Hours:       rep.Hours,
		OffDay:      g.Off,
		Reporter:    rep.Reporter,
		Link:        rep.Link,
		PaidTimeOff: rep.PaidTimeOff,
	}
}
