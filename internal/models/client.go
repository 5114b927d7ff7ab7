package models

// ClientDeleteOutcome reports which delete branch ran for a client.
type ClientDeleteOutcome string

const (
	// ClientHardDeleted means the client had no projects or invoices and
	// its row was removed.
	ClientHardDeleted ClientDeleteOutcome = "hard_deleted"
	// ClientDeactivated means dependent rows exist, so the client was
	// soft-deleted by clearing its active flag.
	ClientDeactivated ClientDeleteOutcome = "deactivated"
)

// Client represents a billable party owned by a single user.
// Names are unique per user, compared case-insensitively; the composite
// index is the exact-duplicate backstop.
type Client struct {
	Base
	UserID       uint   `gorm:"not null;uniqueIndex:idx_clients_user_name,priority:1" json:"user_id"`
	Name         string `gorm:"size:200;not null;uniqueIndex:idx_clients_user_name,priority:2" json:"name"`
	ContactEmail string `gorm:"size:256" json:"contact_email,omitempty"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number,omitempty"`
	Address      string `gorm:"size:500" json:"address,omitempty"`
	Notes        string `gorm:"size:1000" json:"notes,omitempty"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	Version      uint   `gorm:"not null;default:1" json:"version"`

	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}
