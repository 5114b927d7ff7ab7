package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "protrack/internal/errors"
	"protrack/internal/logger"
	"protrack/internal/models"
	"protrack/internal/pagination"
	"protrack/internal/search"
)

// invoiceNumberAttempts bounds the retries when two requests race for the
// same sequence number.
const invoiceNumberAttempts = 3

// maxInvoiceSequence is the largest sequence the three-digit suffix can hold.
const maxInvoiceSequence = 999

// invoiceSearchColumns are the text fields wildcard search matches against.
// Client name is reached through the join in GetUserInvoices.
var invoiceSearchColumns = []string{
	"invoices.invoice_number", "invoices.notes", "clients.name",
}

// invoiceService handles invoice business logic.
type invoiceService struct {
	db *gorm.DB
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB) InvoiceServicer {
	return &invoiceService{db: db}
}

// CreateInvoice creates a new invoice for a user. When the draft carries no
// invoice number the next number in the user's current-year sequence is
// allocated, retrying on a lost allocation race. Associated time entries are
// linked to the invoice but their billed flag is left untouched.
func (s *invoiceService) CreateInvoice(userID uint, draft InvoiceDraft) (*models.Invoice, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}
	if err := s.checkBillableClient(userID, draft.ClientID); err != nil {
		return nil, err
	}

	entries, err := s.loadOwnedEntries(userID, draft.TimeEntryIDs)
	if err != nil {
		return nil, err
	}

	autoNumber := strings.TrimSpace(draft.InvoiceNumber) == ""

	var invoice *models.Invoice
	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		number := strings.TrimSpace(draft.InvoiceNumber)
		if autoNumber {
			number, err = s.NextInvoiceNumber(userID)
			if err != nil {
				return nil, err
			}
		}

		invoice = &models.Invoice{
			UserID:           userID,
			ClientID:         draft.ClientID,
			InvoiceNumber:    number,
			InvoiceDate:      draft.InvoiceDate,
			DueDate:          draft.DueDate,
			TotalAmountCents: draft.TotalAmountCents,
			Notes:            draft.Notes,
		}

		err = s.db.Create(invoice).Error
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !autoNumber {
			return nil, apperrors.ErrDuplicateInvoiceNumber
		}
		logger.Get().Warnw("invoice number allocation race, retrying",
			"user_id", userID, "invoice_number", number, "attempt", attempt+1)
	}
	if err != nil {
		return nil, apperrors.ErrDuplicateInvoiceNumber
	}

	if len(entries) > 0 {
		if err := s.db.Model(invoice).Association("TimeEntries").Append(entries); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetInvoiceByID(userID, invoice.ID)
}

// GetUserInvoices retrieves a paginated list of the user's invoices, newest
// invoice date first, optionally filtered by a wildcard search term spanning
// the invoice number, notes and client name.
func (s *invoiceService) GetUserInvoices(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.Invoice], error) {
	page.Defaults()

	base := s.db.Model(&models.Invoice{}).
		Joins("JOIN clients ON clients.id = invoices.client_id").
		Where("invoices.user_id = ?", userID).
		Scopes(search.Scope(searchTerm, invoiceSearchColumns...))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := base.Preload("Client").
		Order("invoices.invoice_date DESC, invoices.invoice_number DESC").
		Scopes(pagination.Paginate(page)).
		Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(invoices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvoiceByID retrieves an invoice with its client and linked time
// entries for a specific user.
func (s *invoiceService) GetInvoiceByID(userID, invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Client").Preload("TimeEntries").
		Where("id = ? AND user_id = ?", invoiceID, userID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// UpdateInvoice applies a full-form update guarded by the concurrency token.
// A nil TimeEntryIDs slice leaves the linked entries untouched; a non-nil
// slice replaces them.
func (s *invoiceService) UpdateInvoice(userID, invoiceID uint, draft InvoiceDraft) (*models.Invoice, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.InvoiceNumber) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invoice number is required")
	}

	if _, err := s.GetInvoiceByID(userID, invoiceID); err != nil {
		return nil, err
	}

	if err := s.checkBillableClient(userID, draft.ClientID); err != nil {
		return nil, err
	}

	entries, err := s.loadOwnedEntries(userID, draft.TimeEntryIDs)
	if err != nil {
		return nil, err
	}

	res := s.db.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ? AND version = ?", invoiceID, userID, draft.Version).
		Updates(map[string]interface{}{
			"client_id":          draft.ClientID,
			"invoice_number":     strings.TrimSpace(draft.InvoiceNumber),
			"invoice_date":       draft.InvoiceDate,
			"due_date":           draft.DueDate,
			"total_amount_cents": draft.TotalAmountCents,
			"notes":              draft.Notes,
			"version":            gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateInvoiceNumber
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetInvoiceByID(userID, invoiceID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrConflict
	}

	if draft.TimeEntryIDs != nil {
		invoice := &models.Invoice{Base: models.Base{ID: invoiceID}}
		if err := s.db.Model(invoice).Association("TimeEntries").Replace(entries); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetInvoiceByID(userID, invoiceID)
}

// DeleteInvoice removes an invoice and its time entry links. The entries
// themselves are kept.
func (s *invoiceService) DeleteInvoice(userID, invoiceID uint) error {
	invoice, err := s.GetInvoiceByID(userID, invoiceID)
	if err != nil {
		return err
	}

	if err := s.db.Model(invoice).Association("TimeEntries").Clear(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(invoice).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TogglePaid flips the paid flag. Marking an invoice paid stamps the payment
// date; marking it unpaid clears it.
func (s *invoiceService) TogglePaid(userID, invoiceID uint) (*models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(userID, invoiceID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"is_paid": !invoice.IsPaid,
		"version": gorm.Expr("version + 1"),
	}
	if invoice.IsPaid {
		updates["payment_date"] = nil
	} else {
		now := time.Now().UTC()
		updates["payment_date"] = &now
	}

	if err := s.db.Model(invoice).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetInvoiceByID(userID, invoiceID)
}

// NextInvoiceNumber returns the next free number in the user's sequence for
// the current year, formatted as INV-{year}-{seq} with a zero-padded
// three-digit sequence.
func (s *invoiceService) NextInvoiceNumber(userID uint) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", time.Now().UTC().Year())

	var latest models.Invoice
	err := s.db.Model(&models.Invoice{}).
		Where("user_id = ? AND invoice_number LIKE ?", userID, prefix+"%").
		Order("invoice_number DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%03d", prefix, 1), nil
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	seq, parseErr := strconv.Atoi(strings.TrimPrefix(latest.InvoiceNumber, prefix))
	if parseErr != nil {
		logger.Get().Warnw("unparseable invoice number, restarting sequence",
			"user_id", userID, "invoice_number", latest.InvoiceNumber)
		seq = 0
	}
	if seq >= maxInvoiceSequence {
		return "", apperrors.ErrInvoiceNumberExhausted
	}

	return fmt.Sprintf("%s%03d", prefix, seq+1), nil
}

// PreviewFromTimeEntries collects the user's unbilled time entries for a
// client (optionally narrowed to one project) whose start date falls inside
// the inclusive date range, and totals them at each project's hourly rate.
// Nothing is created and nothing is marked billed.
func (s *invoiceService) PreviewFromTimeEntries(userID, clientID uint, projectID *uint, startDate, endDate time.Time) (*InvoicePreview, error) {
	if err := s.checkBillableClient(userID, clientID); err != nil {
		return nil, err
	}

	query := s.db.Model(&models.TimeEntry{}).
		Joins("JOIN projects ON projects.id = time_entries.project_id").
		Where("time_entries.user_id = ? AND time_entries.is_billed = ?", userID, false).
		Where("projects.client_id = ?", clientID).
		Where("DATE(time_entries.start_time) >= DATE(?) AND DATE(time_entries.start_time) <= DATE(?)", startDate, endDate)
	if projectID != nil {
		query = query.Where("time_entries.project_id = ?", *projectID)
	}

	var entries []models.TimeEntry
	if err := query.Preload("Project").
		Order("time_entries.start_time ASC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrNoUnbilledTimeEntries
	}

	preview := &InvoicePreview{Entries: make([]InvoicePreviewEntry, 0, len(entries))}
	for i := range entries {
		entry := &entries[i]
		var rate int64
		var title string
		if entry.Project != nil {
			rate = entry.Project.HourlyRateCents
			title = entry.Project.Title
		}
		amount := entry.AmountCents(rate)
		preview.Entries = append(preview.Entries, InvoicePreviewEntry{
			ID:           entry.ID,
			Description:  entry.Description,
			ProjectTitle: title,
			StartTime:    entry.StartTime,
			Hours:        entry.DurationHours(),
			AmountCents:  amount,
		})
		preview.TotalAmountCents += amount
	}
	preview.EntryCount = len(preview.Entries)

	return preview, nil
}

func (s *invoiceService) validateDraft(draft InvoiceDraft) error {
	if draft.InvoiceDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invoice date is required")
	}
	if draft.TotalAmountCents < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must not be negative")
	}
	return nil
}

// checkBillableClient verifies the referenced client exists, belongs to the
// user, and is active.
func (s *invoiceService) checkBillableClient(userID, clientID uint) error {
	var count int64
	if err := s.db.Model(&models.Client{}).
		Where("id = ? AND user_id = ? AND is_active = ?", clientID, userID, true).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrClientNotBillable
	}
	return nil
}

// loadOwnedEntries resolves time entry IDs to rows owned by the user. Any
// unknown or foreign ID fails the whole batch.
func (s *invoiceService) loadOwnedEntries(userID uint, ids []uint) ([]models.TimeEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var entries []models.TimeEntry
	if err := s.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(entries) != len(ids) {
		return nil, apperrors.ErrTimeEntryNotFound
	}
	return entries, nil
}
