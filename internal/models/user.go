package models

// User represents the user model in the database. A user owns all clients,
// projects, time entries, and invoices created under their account.
type User struct {
	Base
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	FirstName   string `gorm:"size:100" json:"first_name"`
	LastName    string `gorm:"size:100" json:"last_name"`
	CompanyName string `gorm:"size:200" json:"company_name,omitempty"`
	Address     string `gorm:"size:500" json:"address,omitempty"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	Clients     []Client    `gorm:"foreignKey:UserID" json:"clients,omitempty"`
	Projects    []Project   `gorm:"foreignKey:UserID" json:"projects,omitempty"`
	TimeEntries []TimeEntry `gorm:"foreignKey:UserID" json:"time_entries,omitempty"`
	Invoices    []Invoice   `gorm:"foreignKey:UserID" json:"invoices,omitempty"`
}
