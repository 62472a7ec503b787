package models

import (
	"time"
)

// DayDuration changes the expected hours per working day for one
// employee from FromDate onward, until a later override supersedes it.
// One row per (username, from-date); resubmission updates the hours.
type DayDuration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"not null;size:100;uniqueIndex:idx_day_durations_user_from" json:"username"`
	FromDate  time.Time `gorm:"not null;uniqueIndex:idx_day_durations_user_from" json:"from_date"`
	Duration  float64   `gorm:"not null" json:"duration"`
	// FromDateString keeps the exact from-date text the bot submitted,
	// for display.
	FromDateString string `gorm:"size:20" json:"from_date_string"`
}
