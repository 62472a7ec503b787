package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL     string
	JWTSecret       string
	JWTExpiration   time.Duration
	ServerPort      string
	BotSecret       string
	Timezone        string
	HolidayCountry  string
	DefaultDayHours float64
	// FutureGraceDays extends the "count required hours up to today"
	// cutoff by whole days. 0 means today is the last counted day.
	FutureGraceDays int
}

func Load() *Config {
	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/worktime"),
		JWTSecret:       getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:   24 * time.Hour,
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		BotSecret:       getEnv("BOT_SECRET", ""),
		Timezone:        getEnv("TIMEZONE", "Europe/Warsaw"),
		HolidayCountry:  getEnv("HOLIDAY_COUNTRY", "PL"),
		DefaultDayHours: getEnvFloat("DEFAULT_DAY_HOURS", 6),
		FutureGraceDays: getEnvInt("FUTURE_GRACE_DAYS", 0),
	}
}

// Location resolves the configured business timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
