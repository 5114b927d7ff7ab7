package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "protrack/internal/errors"
	"protrack/internal/models"
	"protrack/internal/pagination"
	"protrack/internal/search"
)

// clientSearchColumns are the text fields wildcard search matches against.
var clientSearchColumns = []string{
	"clients.name", "clients.contact_email", "clients.phone_number", "clients.address", "clients.notes",
}

// clientService handles client-related business logic.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// CreateClient creates a new client for a user.
func (s *clientService) CreateClient(userID uint, draft ClientDraft) (*models.Client, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if strings.TrimSpace(draft.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}

	if err := s.checkDuplicateName(userID, draft.Name, 0); err != nil {
		return nil, err
	}

	client := &models.Client{
		UserID:       userID,
		Name:         strings.TrimSpace(draft.Name),
		ContactEmail: draft.ContactEmail,
		PhoneNumber:  draft.PhoneNumber,
		Address:      draft.Address,
		Notes:        draft.Notes,
		IsActive:     true,
	}

	if err := s.db.Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateClientName
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return client, nil
}

// GetUserClients retrieves a paginated list of clients for a user, optionally
// filtered by a wildcard search term.
func (s *clientService) GetUserClients(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.Client], error) {
	page.Defaults()

	base := s.db.Model(&models.Client{}).
		Where("clients.user_id = ?", userID).
		Scopes(search.Scope(searchTerm, clientSearchColumns...))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var clients []models.Client
	if err := base.Order("clients.name").Scopes(pagination.Paginate(page)).Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(clients, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetClientByID retrieves a client by ID for a specific user.
func (s *clientService) GetClientByID(userID, clientID uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("id = ? AND user_id = ?", clientID, userID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateClient applies a full-form update guarded by the concurrency token.
func (s *clientService) UpdateClient(userID, clientID uint, draft ClientDraft) (*models.Client, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if strings.TrimSpace(draft.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}

	if _, err := s.GetClientByID(userID, clientID); err != nil {
		return nil, err
	}

	if err := s.checkDuplicateName(userID, draft.Name, clientID); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.Client{}).
		Where("id = ? AND user_id = ? AND version = ?", clientID, userID, draft.Version).
		Updates(map[string]interface{}{
			"name":          strings.TrimSpace(draft.Name),
			"contact_email": draft.ContactEmail,
			"phone_number":  draft.PhoneNumber,
			"address":       draft.Address,
			"notes":         draft.Notes,
			"is_active":     draft.IsActive,
			"version":       gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateClientName
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		// Stale token or the row vanished; re-check existence to decide.
		if _, err := s.GetClientByID(userID, clientID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrConflict
	}

	return s.GetClientByID(userID, clientID)
}

// DeleteClient removes a client without dependents, or deactivates one that
// still has projects or invoices. The outcome reports which branch ran.
func (s *clientService) DeleteClient(userID, clientID uint) (models.ClientDeleteOutcome, error) {
	client, err := s.GetClientByID(userID, clientID)
	if err != nil {
		return "", err
	}

	var projectCount, invoiceCount int64
	if err := s.db.Model(&models.Project{}).Where("client_id = ?", clientID).Count(&projectCount).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Invoice{}).Where("client_id = ?", clientID).Count(&invoiceCount).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if projectCount > 0 || invoiceCount > 0 {
		res := s.db.Model(client).Updates(map[string]interface{}{
			"is_active": false,
			"version":   gorm.Expr("version + 1"),
		})
		if res.Error != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		return models.ClientDeactivated, nil
	}

	if err := s.db.Delete(client).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return models.ClientHardDeleted, nil
}

// checkDuplicateName enforces per-user, case-insensitive name uniqueness.
// excludeID skips the client's own row on updates.
func (s *clientService) checkDuplicateName(userID uint, name string, excludeID uint) error {
	query := s.db.Model(&models.Client{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, strings.TrimSpace(name))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateClientName
	}
	return nil
}
