package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"worktime/balance"
	"worktime/config"
	"worktime/database"
	"worktime/middleware"
	"worktime/models"
)

const testBotSecret = "hunter2"

func newTestRouter(t *testing.T, now time.Time) chi.Router {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "worktime.db")
	require.NoError(t, database.InitDialector(sqlite.Open(dbPath)))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiration:   time.Hour,
		BotSecret:       testBotSecret,
		Timezone:        "Europe/Warsaw",
		HolidayCountry:  "PL",
		DefaultDayHours: 6,
	}
	middleware.SetJWTSecret(cfg.JWTSecret)

	loc, err := cfg.Location()
	require.NoError(t, err)
	engine := balance.New(balance.Config{
		Location:        loc,
		Country:         cfg.HolidayCountry,
		DefaultDayHours: cfg.DefaultDayHours,
		Now:             func() time.Time { return now },
	})

	authHandler := NewAuthHandler(cfg)
	botHandler := NewBotHandler(cfg, engine)
	viewHandler := NewViewHandler(cfg, engine)

	router := chi.NewRouter()
	router.Post("/login", authHandler.Login)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireBotSecret(cfg.BotSecret))
		r.Post("/api/report", botHandler.UpsertReport)
		r.Post("/api/day-duration", botHandler.UpsertDayDuration)
		r.Post("/api/balance", botHandler.TotalBalance)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Get("/api/report/{username}/{year}/{month}", viewHandler.MonthReport)
		r.Get("/api/report/{username}/{year}/{month}/csv", viewHandler.ExportCSV)
	})
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, body interface{}, secret string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(middleware.BotSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func testNow(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	return time.Date(2024, time.June, 20, 12, 0, 0, 0, loc)
}

func TestUpsertReport_RequiresBotSecret(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/api/report", map[string]interface{}{
		"username":   "bob",
		"hours":      5,
		"message_at": "2024-06-17T10:00:00+02:00",
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpsertReport_CreateAndResubmit(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	body := map[string]interface{}{
		"username":   "bob",
		"reporter":   "bob",
		"job":        "backend work",
		"hours":      5,
		"message_id": "m1",
		"message_at": "2024-06-17T10:00:00+02:00",
		"attachments": []map[string]string{
			{"url": "https://files.example/a.png", "name": "a.png"},
		},
	}
	rec := postJSON(t, router, "/api/report", body, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	body["hours"] = 6
	rec = postJSON(t, router, "/api/report", body, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	reports, err := database.ReportsForUser("bob")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, 6.0, reports[0].Hours)
}

func TestUpsertReport_GeneratesMessageID(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	body := map[string]interface{}{
		"username":   "bob",
		"hours":      2,
		"message_at": "2024-06-18T09:00:00+02:00",
	}
	rec := postJSON(t, router, "/api/report", body, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["message_id"])
}

func TestUpsertReport_RejectsBadInput(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing username", map[string]interface{}{"hours": 5, "message_at": "2024-06-17T10:00:00+02:00"}},
		{"negative hours", map[string]interface{}{"username": "bob", "hours": -1, "message_at": "2024-06-17T10:00:00+02:00"}},
		{"missing message_at", map[string]interface{}{"username": "bob", "hours": 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/report", tt.body, testBotSecret)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTotalBalance_EndToEnd(t *testing.T) {
	// now is Thursday June 20; first report Monday June 17
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/api/report", map[string]interface{}{
		"username":   "bob",
		"hours":      6,
		"message_id": "m1",
		"message_at": "2024-06-17T10:00:00+02:00",
	}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	// June 17-20 at the default 6h against 6h worked
	rec = postJSON(t, router, "/api/balance", map[string]interface{}{"requested_user": "bob"}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, -18.0, resp["balance"])

	// an 8h override from the first report date deepens the deficit
	rec = postJSON(t, router, "/api/day-duration", map[string]interface{}{
		"username":  "bob",
		"duration":  8,
		"from_date": "17.06.2024",
	}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/api/balance", map[string]interface{}{"requested_user": "bob"}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, -26.0, resp["balance"])
}

func TestTotalBalance_UserWithoutReports(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/api/balance", map[string]interface{}{"requested_user": "ghost"}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Zero(t, resp["balance"])
}

func TestDayDuration_RejectsBadFromDate(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/api/day-duration", map[string]interface{}{
		"username":  "bob",
		"duration":  8,
		"from_date": "2024-06-17",
	}, testBotSecret)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func viewerToken(t *testing.T) string {
	t.Helper()
	var admin models.User
	require.NoError(t, database.GetDB().Where("username = ?", "admin").First(&admin).Error)
	token, err := middleware.GenerateToken(&admin, time.Hour)
	require.NoError(t, err)
	return token
}

func TestMonthReport_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	req := httptest.NewRequest(http.MethodGet, "/api/report/bob/2024/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMonthReport_EndToEnd(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/api/report", map[string]interface{}{
		"username":   "bob",
		"job":        "backend work",
		"hours":      6,
		"message_id": "m1",
		"message_at": "2024-06-17T10:00:00+02:00",
	}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/api/report", map[string]interface{}{
		"username":   "bob",
		"job":        "hush hush",
		"secret":     true,
		"hours":      4,
		"message_id": "m2",
		"message_at": "2024-06-18T10:00:00+02:00",
	}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	// month segment is 0-based: June is 5
	req := httptest.NewRequest(http.MethodGet, "/api/report/bob/2024/5", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken(t))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)

	var resp monthResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	require.Equal(t, "bob", resp.Username)

	// working days June 17-20: two report rows plus two placeholders
	require.Len(t, resp.Rows, 4)
	require.Equal(t, "17-06-2024", resp.Rows[0].Date)
	require.Equal(t, "backend work", resp.Rows[0].Job)
	require.Equal(t, redactedJob, resp.Rows[1].Job)
	require.Equal(t, balance.PlaceholderJob, resp.Rows[2].Job)
	require.Zero(t, resp.Rows[2].Hours)

	require.Len(t, resp.Weeks, 1)
	require.Equal(t, 25, resp.Weeks[0].Week)

	require.Equal(t, 10.0, resp.Summary.Worked)
	require.Equal(t, 24.0, resp.Summary.Required)
	require.Equal(t, -14.0, resp.Summary.Balance)
}

func TestExportCSV_EndToEnd(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/api/report", map[string]interface{}{
		"username":   "bob",
		"job":        "backend work",
		"hours":      6,
		"message_id": "m1",
		"message_at": "2024-06-17T10:00:00+02:00",
	}, testBotSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/report/bob/2024/5/csv", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken(t))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, "text/csv", rec2.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec2.Body.String()), "\n")
	// header plus June 17-20
	require.Len(t, lines, 5)
	require.Equal(t, "Date,Week,Job,Hours,OffDay", lines[0])
	require.Contains(t, lines[1], "17-06-2024")
	require.Contains(t, lines[1], "6.00")
	require.Contains(t, lines[2], balance.PlaceholderJob)
}

func TestMonthReport_RejectsBadMonth(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	req := httptest.NewRequest(http.MethodGet, "/api/report/bob/2024/12", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_IssuesToken(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/login", map[string]string{
		"username": "admin",
		"password": "admin",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])

	claims, err := middleware.ValidateToken(resp["token"])
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
}

func TestLogin_RejectsBadPassword(t *testing.T) {
	router := newTestRouter(t, testNow(t))

	rec := postJSON(t, router, "/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
