package models

import "time"

// TimeEntry represents a logged work interval against a project.
type TimeEntry struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	StartTime   time.Time `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	IsBilled    bool      `gorm:"not null;default:false" json:"is_billed"`
	Version     uint      `gorm:"not null;default:1" json:"version"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// DurationSeconds returns the logged duration in whole seconds,
// zero when the interval is empty or inverted.
func (te *TimeEntry) DurationSeconds() int64 {
	if !te.EndTime.After(te.StartTime) {
		return 0
	}
	return int64(te.EndTime.Sub(te.StartTime).Seconds())
}

// DurationHours returns the logged duration in hours for display.
// Money math never uses this value.
func (te *TimeEntry) DurationHours() float64 {
	return float64(te.DurationSeconds()) / 3600
}

// AmountCents computes the billable amount for this entry at the given
// hourly rate, rounded to the nearest cent in integer math.
func (te *TimeEntry) AmountCents(hourlyRateCents int64) int64 {
	return (hourlyRateCents*te.DurationSeconds() + 1800) / 3600
}
