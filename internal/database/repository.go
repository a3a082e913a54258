package database

import (
	"time"

	"codewatch/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for the diagnostics
// journal. The journal holds engagement attempts and surfaced errors
// only; coding sessions are never persisted.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateEngageAttempt inserts a new engagement attempt into the journal
func (r *Repository) CreateEngageAttempt(attempt *models.EngageAttempt) error {
	result := r.db.Create(attempt)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert engage attempt")
	}
	return nil
}

// RecentEngageAttempts retrieves the most recent engagement attempts,
// newest first
func (r *Repository) RecentEngageAttempts(limit int) ([]*models.EngageAttempt, error) {
	var attempts []*models.EngageAttempt
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&attempts)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query engage attempts")
	}
	return attempts, nil
}

// LatestEngageAttempt retrieves the most recent engagement attempt
func (r *Repository) LatestEngageAttempt() (*models.EngageAttempt, error) {
	var attempt models.EngageAttempt
	result := r.db.Order("timestamp DESC").First(&attempt)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest engage attempt")
	}
	return &attempt, nil
}

// EngageAttemptsSince retrieves engagement attempts after a given time
func (r *Repository) EngageAttemptsSince(since time.Time) ([]*models.EngageAttempt, error) {
	var attempts []*models.EngageAttempt
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&attempts)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query engage attempts")
	}
	return attempts, nil
}

// CreateErrorLog inserts a new error log into the journal
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// RecentErrors retrieves the most recent error logs, newest first
func (r *Repository) RecentErrors(limit int) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// DeleteOldEntries deletes journal entries older than a specified date
// (soft delete)
func (r *Repository) DeleteOldEntries(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.EngageAttempt{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old engage attempts")
	}
	deleted := result.RowsAffected

	result = r.db.Where("timestamp < ?", before).Delete(&models.ErrorLog{})
	if result.Error != nil {
		return deleted, errors.Wrap(result.Error, "failed to delete old error logs")
	}

	return deleted + result.RowsAffected, nil
}

// Clear removes all journal entries
func (r *Repository) Clear() error {
	if result := r.db.Exec("DELETE FROM engage_attempts"); result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear engage attempts")
	}
	if result := r.db.Exec("DELETE FROM error_logs"); result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear error logs")
	}
	return nil
}
