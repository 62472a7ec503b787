package models

import (
	"time"
)

// Report is one logged unit of work, keyed by the chat message that
// produced it. Resubmitting the same MessageID updates the stored row
// instead of creating a duplicate; reports are never deleted.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	MessageID    string       `gorm:"uniqueIndex;not null;size:64" json:"message_id"`
	Username     string       `gorm:"not null;index;size:100" json:"username"`
	Reporter     string       `gorm:"size:100" json:"reporter"`
	Job          string       `gorm:"size:2000" json:"job"`
	Hours        float64      `gorm:"not null" json:"hours"`
	MessageAt    time.Time    `gorm:"not null;index" json:"message_at"`
	LastEditAt   *time.Time   `json:"last_edit_at,omitempty"`
	LastUpdateAt *time.Time   `json:"last_update_at,omitempty"`
	Link         string       `gorm:"size:500" json:"link,omitempty"`
	Secret       bool         `gorm:"default:false" json:"secret"`
	PaidTimeOff  bool         `gorm:"default:false" json:"paid_time_off"`
	Attachments  []Attachment `gorm:"foreignKey:ReportID" json:"attachments,omitempty"`
}

// Attachment is a file the reporter linked to a report. Only the URL
// and display name are stored; the file itself lives elsewhere.
type Attachment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReportID uint   `gorm:"not null;index" json:"report_id"`
	URL      string `gorm:"not null;size:500" json:"url"`
	Name     string `gorm:"size:200" json:"name"`
}
