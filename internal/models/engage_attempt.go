package models

import (
	"time"

	"gorm.io/gorm"
)

// EngageAttempt records one attempt to switch Slack into deep coding
// mode. Both remote outcomes are kept because their failures are
// independent; Engaged is true when at least one succeeded.
type EngageAttempt struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Timestamp         time.Time      `gorm:"not null;index" json:"timestamp"`
	DNDOk             bool           `gorm:"not null;default:false" json:"dnd_ok"`
	StatusOk          bool           `gorm:"not null;default:false" json:"status_ok"`
	Engaged           bool           `gorm:"not null;default:false" json:"engaged"`
	ContinuousSeconds int64          `gorm:"not null;default:0" json:"continuous_seconds"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
