package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a viewer account for the report pages. Report owners are
// identified by plain usernames coming from the chat system and do not
// need a User row; these accounts only gate read access.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName     string         `gorm:"size:200" json:"full_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
