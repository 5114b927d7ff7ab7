package models

import "time"

// Invoice represents a billing document for a client. Invoice numbers are
// unique per user and follow the INV-{year}-{seq} format. The total is
// stored in cents.
type Invoice struct {
	Base
	UserID           uint       `gorm:"not null;uniqueIndex:idx_invoices_user_number,priority:1" json:"user_id"`
	ClientID         uint       `gorm:"not null;index" json:"client_id"`
	InvoiceNumber    string     `gorm:"size:100;not null;uniqueIndex:idx_invoices_user_number,priority:2" json:"invoice_number"`
	InvoiceDate      time.Time  `gorm:"not null;index" json:"invoice_date"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	TotalAmountCents int64      `gorm:"not null;default:0" json:"total_amount_cents"`
	IsPaid           bool       `gorm:"not null;default:false" json:"is_paid"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	Notes            string     `gorm:"size:500" json:"notes,omitempty"`
	Version          uint       `gorm:"not null;default:1" json:"version"`

	Client      *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	TimeEntries []TimeEntry `gorm:"many2many:invoice_time_entries" json:"time_entries,omitempty"`
}
