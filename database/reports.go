package database

import (
	"errors"
	"time"

	"worktime/models"

	"gorm.io/gorm"
)

// ReportsForUser returns every report owned by username, oldest first,
// with attachments loaded. The slice is the consistent snapshot the
// balance engine computes over.
func ReportsForUser(username string) ([]models.Report, error) {
	var reports []models.Report
	err := DB.Preload("Attachments").
		Where("username = ?", username).
		Order("message_at asc").
		Find(&reports).Error
	return reports, err
}

// DurationsForUser returns the employee's override history, newest
// first.
func DurationsForUser(username string) ([]models.DayDuration, error) {
	var durations []models.DayDuration
	err := DB.Where("username = ?", username).
		Order("from_date desc").
		Find(&durations).Error
	return durations, err
}

// UpsertReport stores a report keyed by message id. The first
// submission creates the row; a resubmission updates the mutable
// fields and replaces the attachments wholesale, never producing a
// duplicate. in is updated to the stored row.
func UpsertReport(in *models.Report) error {
	var existing models.Report
	err := DB.Where("message_id = ?", in.MessageID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DB.Create(in).Error
	}
	if err != nil {
		return err
	}

	now := time.Now()
	existing.Reporter = in.Reporter
	existing.Job = in.Job
	existing.Hours = in.Hours
	existing.Link = in.Link
	existing.Secret = in.Secret
	existing.PaidTimeOff = in.PaidTimeOff
	if in.LastEditAt != nil {
		existing.LastEditAt = in.LastEditAt
	} else {
		existing.LastEditAt = &now
	}
	existing.LastUpdateAt = &now

	if err := DB.Save(&existing).Error; err != nil {
		return err
	}

	if err := DB.Where("report_id = ?", existing.ID).Delete(&models.Attachment{}).Error; err != nil {
		return err
	}
	if len(in.Attachments) > 0 {
		attachments := make([]models.Attachment, len(in.Attachments))
		for i, a := range in.Attachments {
			attachments[i] = models.Attachment{ReportID: existing.ID, URL: a.URL, Name: a.Name}
		}
		if err := DB.Create(&attachments).Error; err != nil {
			return err
		}
		existing.Attachments = attachments
	}

	*in = existing
	return nil
}

// UpsertDayDuration stores an override keyed by (username, from-date).
// Resubmission for the same date updates the hours and the display
// string.
func UpsertDayDuration(in *models.DayDuration) error {
	var existing models.DayDuration
	err := DB.Where("username = ? AND from_date = ?", in.Username, in.FromDate).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DB.Create(in).Error
	}
	if err != nil {
		return err
	}

	existing.Duration = in.Duration
	existing.FromDateString = in.FromDateString
	if err := DB.Save(&existing).Error; err != nil {
		return err
	}

	*in = existing
	return nil
}
