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

// timeEntrySearchColumns are the text fields wildcard search matches against.
// Project title and client name are reached through joins in GetUserTimeEntries.
var timeEntrySearchColumns = []string{
	"time_entries.description", "projects.title", "clients.name",
}

// timeEntryService handles time entry business logic.
type timeEntryService struct {
	db *gorm.DB
}

// NewTimeEntryService creates a new TimeEntryServicer.
func NewTimeEntryService(db *gorm.DB) TimeEntryServicer {
	return &timeEntryService{db: db}
}

// CreateTimeEntry logs a new work interval against one of the user's projects.
func (s *timeEntryService) CreateTimeEntry(userID uint, draft TimeEntryDraft) (*models.TimeEntry, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}
	if err := s.checkOwnedProject(userID, draft.ProjectID); err != nil {
		return nil, err
	}

	entry := &models.TimeEntry{
		UserID:      userID,
		ProjectID:   draft.ProjectID,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		Description: strings.TrimSpace(draft.Description),
		IsBilled:    draft.IsBilled,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTimeEntryByID(userID, entry.ID)
}

// GetUserTimeEntries retrieves a paginated list of the user's time entries,
// most recent start time first, optionally filtered by a wildcard search term
// spanning the entry description, project title and client name.
func (s *timeEntryService) GetUserTimeEntries(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.TimeEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.TimeEntry{}).
		Joins("JOIN projects ON projects.id = time_entries.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("time_entries.user_id = ?", userID).
		Scopes(search.Scope(searchTerm, timeEntrySearchColumns...))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.TimeEntry
	if err := base.Preload("Project").Preload("Project.Client").
		Order("time_entries.start_time DESC").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTimeEntryByID retrieves a time entry with its project and client for a
// specific user.
func (s *timeEntryService) GetTimeEntryByID(userID, entryID uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := s.db.Preload("Project").Preload("Project.Client").
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTimeEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateTimeEntry applies a full-form update guarded by the concurrency token.
func (s *timeEntryService) UpdateTimeEntry(userID, entryID uint, draft TimeEntryDraft) (*models.TimeEntry, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	if _, err := s.GetTimeEntryByID(userID, entryID); err != nil {
		return nil, err
	}

	if err := s.checkOwnedProject(userID, draft.ProjectID); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.TimeEntry{}).
		Where("id = ? AND user_id = ? AND version = ?", entryID, userID, draft.Version).
		Updates(map[string]interface{}{
			"project_id":  draft.ProjectID,
			"start_time":  draft.StartTime,
			"end_time":    draft.EndTime,
			"description": strings.TrimSpace(draft.Description),
			"is_billed":   draft.IsBilled,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetTimeEntryByID(userID, entryID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrConflict
	}

	return s.GetTimeEntryByID(userID, entryID)
}

// DeleteTimeEntry removes a time entry owned by the user.
func (s *timeEntryService) DeleteTimeEntry(userID, entryID uint) error {
	entry, err := s.GetTimeEntryByID(userID, entryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ToggleBilled flips the billed flag on a time entry.
func (s *timeEntryService) ToggleBilled(userID, entryID uint) (*models.TimeEntry, error) {
	entry, err := s.GetTimeEntryByID(userID, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(entry).Updates(map[string]interface{}{
		"is_billed": !entry.IsBilled,
		"version":   gorm.Expr("version + 1"),
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTimeEntryByID(userID, entryID)
}

func (s *timeEntryService) validateDraft(draft TimeEntryDraft) error {
	if draft.StartTime.IsZero() || draft.EndTime.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end time are required")
	}
	if !draft.EndTime.After(draft.StartTime) {
		return apperrors.ErrInvalidTimeRange
	}
	return nil
}

// checkOwnedProject verifies the referenced project exists and belongs to
// the user. Crossing tenants here reads the same as an unknown project.
func (s *timeEntryService) checkOwnedProject(userID, projectID uint) error {
	var count int64
	if err := s.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
