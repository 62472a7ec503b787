package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"worktime/balance"
	"worktime/config"
	"worktime/database"
	"worktime/models"

	"github.com/google/uuid"
)

// fromDateLayout is the day-duration from-date format the bot sends.
const fromDateLayout = "02.01.2006"

// BotHandler serves the ingestion API used by the chat bot: report
// upserts, day-duration upserts and lifetime balance queries.
type BotHandler struct {
	config *config.Config
	engine *balance.Engine
}

func NewBotHandler(cfg *config.Config, engine *balance.Engine) *BotHandler {
	return &BotHandler{config: cfg, engine: engine}
}

type attachmentPayload struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type reportRequest struct {
	Username    string              `json:"username"`
	Reporter    string              `json:"reporter"`
	Job         string              `json:"job"`
	Hours       float64             `json:"hours"`
	MessageID   string              `json:"message_id"`
	MessageAt   time.Time           `json:"message_at"`
	LastEditAt  *time.Time          `json:"last_edit_at"`
	Link        string              `json:"link"`
	Secret      bool                `json:"secret"`
	PaidTimeOff bool                `json:"paid_time_off"`
	Attachments []attachmentPayload `json:"attachments"`
}

// UpsertReport creates or updates one logged unit of work. A missing
// message id gets a generated one, which makes the submission
// effectively create-only.
func (h *BotHandler) UpsertReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Hours < 0 || req.Hours > 24 {
		writeError(w, http.StatusBadRequest, "hours must be between 0 and 24")
		return
	}
	if req.MessageAt.IsZero() {
		writeError(w, http.StatusBadRequest, "message_at is required")
		return
	}

	messageID := req.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	report := models.Report{
		MessageID:   messageID,
		Username:    req.Username,
		Reporter:    req.Reporter,
		Job:         req.Job,
		Hours:       req.Hours,
		MessageAt:   req.MessageAt,
		LastEditAt:  req.LastEditAt,
		Link:        req.Link,
		Secret:      req.Secret,
		PaidTimeOff: req.PaidTimeOff,
	}
	for _, a := range req.Attachments {
		report.Attachments = append(report.Attachments, models.Attachment{URL: a.URL, Name: a.Name})
	}

	if err := database.UpsertReport(&report); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message_id": report.MessageID})
}

type dayDurationRequest struct {
	Username string  `json:"username"`
	Duration float64 `json:"duration"`
	FromDate string  `json:"from_date"`
}

// UpsertDayDuration records a change to the expected hours per working
// day, effective from the given date onward. The from-date arrives as
// DD.MM.YYYY and is anchored an hour past midnight local time so it
// stays on its calendar day across timezone conversions.
func (h *BotHandler) UpsertDayDuration(w http.ResponseWriter, r *http.Request) {
	var req dayDurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Duration < 0 || req.Duration > 24 {
		writeError(w, http.StatusBadRequest, "duration must be between 0 and 24")
		return
	}

	loc := h.engine.Calendar().Location()
	fromDate, err := time.ParseInLocation(fromDateLayout, req.FromDate, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "from_date must be DD.MM.YYYY")
		return
	}

	duration := models.DayDuration{
		Username:       req.Username,
		FromDate:       fromDate.Add(time.Hour),
		Duration:       req.Duration,
		FromDateString: req.FromDate,
	}

	if err := database.UpsertDayDuration(&duration); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store day duration")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type balanceRequest struct {
	RequestedUser string `json:"requested_user"`
}

// TotalBalance answers the bot's lifetime balance query for one
// employee.
func (h *BotHandler) TotalBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RequestedUser == "" {
		writeError(w, http.StatusBadRequest, "requested_user is required")
		return
	}

	reports, err := database.ReportsForUser(req.RequestedUser)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load reports")
		return
	}
	durations, err := database.DurationsForUser(req.RequestedUser)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load day durations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{
		"balance": h.engine.TotalBalance(reports, durations),
	})
}
