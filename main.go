package main

import (
	"log"
	"net/http"

	"worktime/balance"
	"worktime/config"
	"worktime/database"
	"worktime/handlers"
	"worktime/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize the balance engine
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Unknown timezone %q: %v", cfg.Timezone, err)
	}
	engine := balance.New(balance.Config{
		Location:        loc,
		Country:         cfg.HolidayCountry,
		DefaultDayHours: cfg.DefaultDayHours,
		FutureGraceDays: cfg.FutureGraceDays,
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	botHandler := handlers.NewBotHandler(cfg, engine)
	viewHandler := handlers.NewViewHandler(cfg, engine)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/login", authHandler.Login)
	router.Get("/logout", authHandler.Logout)

	// Bot ingestion routes, guarded by the shared secret header
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireBotSecret(cfg.BotSecret))

		r.Post("/api/report", botHandler.UpsertReport)
		r.Post("/api/day-duration", botHandler.UpsertDayDuration)
		r.Post("/api/balance", botHandler.TotalBalance)
	})

	// Viewer routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/api/report/{username}/{year}/{month}", viewHandler.MonthReport)
		r.Get("/api/report/{username}/{year}/{month}/csv", viewHandler.ExportCSV)
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
