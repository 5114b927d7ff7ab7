package services

import (
	"time"

	"protrack/internal/models"
	"protrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName, companyName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// ClientDraft carries the submitted fields for creating or updating a client.
// UserID is the owner id embedded in the submitted payload; a non-zero value
// that mismatches the acting user fails with Forbidden before any write.
// Version is the optimistic concurrency token, required on updates.
type ClientDraft struct {
	UserID       uint
	Name         string
	ContactEmail string
	PhoneNumber  string
	Address      string
	Notes        string
	IsActive     bool
	Version      uint
}

// ClientServicer defines the contract for client-related business logic.
type ClientServicer interface {
	CreateClient(userID uint, draft ClientDraft) (*models.Client, error)
	GetUserClients(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.Client], error)
	GetClientByID(userID, clientID uint) (*models.Client, error)
	UpdateClient(userID, clientID uint, draft ClientDraft) (*models.Client, error)
	DeleteClient(userID, clientID uint) (models.ClientDeleteOutcome, error)
}

// ProjectDraft carries the submitted fields for creating or updating a project.
type ProjectDraft struct {
	UserID          uint
	ClientID        uint
	Title           string
	Description     string
	HourlyRateCents int64
	Status          models.ProjectStatus
	StartDate       *time.Time
	EndDate         *time.Time
	Version         uint
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(userID uint, draft ProjectDraft) (*models.Project, error)
	GetUserProjects(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(userID, projectID uint) (*models.Project, error)
	UpdateProject(userID, projectID uint, draft ProjectDraft) (*models.Project, error)
	DeleteProject(userID, projectID uint) error
}

// TimeEntryDraft carries the submitted fields for creating or updating a time entry.
type TimeEntryDraft struct {
	UserID      uint
	ProjectID   uint
	StartTime   time.Time
	EndTime     time.Time
	Description string
	IsBilled    bool
	Version     uint
}

// TimeEntryServicer defines the contract for time entry business logic.
type TimeEntryServicer interface {
	CreateTimeEntry(userID uint, draft TimeEntryDraft) (*models.TimeEntry, error)
	GetUserTimeEntries(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.TimeEntry], error)
	GetTimeEntryByID(userID, entryID uint) (*models.TimeEntry, error)
	UpdateTimeEntry(userID, entryID uint, draft TimeEntryDraft) (*models.TimeEntry, error)
	DeleteTimeEntry(userID, entryID uint) error
	ToggleBilled(userID, entryID uint) (*models.TimeEntry, error)
}

// InvoiceDraft carries the submitted fields for creating or updating an invoice.
// An empty InvoiceNumber on create lets the service allocate the next number
// in the user's current-year sequence.
type InvoiceDraft struct {
	UserID           uint
	ClientID         uint
	InvoiceNumber    string
	InvoiceDate      time.Time
	DueDate          *time.Time
	TotalAmountCents int64
	Notes            string
	TimeEntryIDs     []uint
	Version          uint
}

// InvoicePreviewEntry is one unbilled time entry in an invoice preview.
type InvoicePreviewEntry struct {
	ID           uint      `json:"id"`
	Description  string    `json:"description"`
	ProjectTitle string    `json:"project_title"`
	StartTime    time.Time `json:"start_time"`
	Hours        float64   `json:"hours"`
	AmountCents  int64     `json:"amount_cents"`
}

// InvoicePreview is the read-only result of collecting unbilled time
// entries for a prospective invoice. It creates nothing and marks nothing
// billed.
type InvoicePreview struct {
	Entries          []InvoicePreviewEntry `json:"entries"`
	EntryCount       int                   `json:"entry_count"`
	TotalAmountCents int64                 `json:"total_amount_cents"`
}

// InvoiceServicer defines the contract for invoice business logic.
type InvoiceServicer interface {
	CreateInvoice(userID uint, draft InvoiceDraft) (*models.Invoice, error)
	GetUserInvoices(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.Invoice], error)
	GetInvoiceByID(userID, invoiceID uint) (*models.Invoice, error)
	UpdateInvoice(userID, invoiceID uint, draft InvoiceDraft) (*models.Invoice, error)
	DeleteInvoice(userID, invoiceID uint) error
	TogglePaid(userID, invoiceID uint) (*models.Invoice, error)
	NextInvoiceNumber(userID uint) (string, error)
	PreviewFromTimeEntries(userID, clientID uint, projectID *uint, startDate, endDate time.Time) (*InvoicePreview, error)
}

// RecentClient is a dashboard row for a recently added client.
type RecentClient struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ProjectCount int64     `json:"project_count"`
}

// DashboardStats is the per-user dashboard rollup, computed on demand.
type DashboardStats struct {
	ActiveClients       int64   `json:"active_clients"`
	TotalProjects       int64   `json:"total_projects"`
	ActiveProjects      int64   `json:"active_projects"`
	TotalInvoices       int64   `json:"total_invoices"`
	UnpaidInvoices      int64   `json:"unpaid_invoices"`
	UnbilledHours       float64 `json:"unbilled_hours"`
	TotalRevenueCents   int64   `json:"total_revenue_cents"`
	PendingRevenueCents int64   `json:"pending_revenue_cents"`

	RecentClients     []RecentClient     `json:"recent_clients"`
	RecentProjects    []models.Project   `json:"recent_projects"`
	RecentTimeEntries []models.TimeEntry `json:"recent_time_entries"`
}

// DashboardServicer defines the contract for the dashboard rollup.
type DashboardServicer interface {
	GetDashboard(userID uint) (*DashboardStats, error)
}
