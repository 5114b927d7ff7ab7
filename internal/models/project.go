package models

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusInvoiced  ProjectStatus = "invoiced"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusInvoiced:
		return true
	}
	return false
}

// Project represents a work engagement for one client. The hourly rate is
// stored in cents; time entry amounts are derived from it.
type Project struct {
	Base
	UserID          uint          `gorm:"not null;uniqueIndex:idx_projects_user_title,priority:1" json:"user_id"`
	ClientID        uint          `gorm:"not null;index" json:"client_id"`
	Title           string        `gorm:"size:200;not null;uniqueIndex:idx_projects_user_title,priority:2" json:"title"`
	Description     string        `gorm:"size:2000" json:"description,omitempty"`
	HourlyRateCents int64         `gorm:"not null;default:0" json:"hourly_rate_cents"`
	Status          ProjectStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	StartDate       *time.Time    `json:"start_date,omitempty"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
	Version         uint          `gorm:"not null;default:1" json:"version"`

	Client      *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	TimeEntries []TimeEntry `gorm:"foreignKey:ProjectID" json:"time_entries,omitempty"`
}
