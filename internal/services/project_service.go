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

// projectSearchColumns are the text fields wildcard search matches against.
// Client name is reached through the join in GetUserProjects.
var projectSearchColumns = []string{
	"projects.title", "projects.description", "clients.name",
}

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a new project for a user after validating the
// referenced client.
func (s *projectService) CreateProject(userID uint, draft ProjectDraft) (*models.Project, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}
	if err := s.checkBillableClient(userID, draft.ClientID); err != nil {
		return nil, err
	}
	if err := s.checkDuplicateTitle(userID, draft.Title, 0); err != nil {
		return nil, err
	}

	project := &models.Project{
		UserID:          userID,
		ClientID:        draft.ClientID,
		Title:           strings.TrimSpace(draft.Title),
		Description:     draft.Description,
		HourlyRateCents: draft.HourlyRateCents,
		Status:          draft.Status,
		StartDate:       draft.StartDate,
		EndDate:         draft.EndDate,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}

	if err := s.db.Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateProjectTitle
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// GetUserProjects retrieves a paginated list of projects with their clients,
// optionally filtered by a wildcard search term spanning project and client
// text fields.
func (s *projectService) GetUserProjects(userID uint, page pagination.PageRequest, searchTerm string) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{}).
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("projects.user_id = ?", userID).
		Scopes(search.Scope(searchTerm, projectSearchColumns...))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Preload("Client").
		Order("projects.created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID retrieves a project with its client for a specific user.
func (s *projectService) GetProjectByID(userID, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Client").
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// UpdateProject applies a full-form update guarded by the concurrency token.
func (s *projectService) UpdateProject(userID, projectID uint, draft ProjectDraft) (*models.Project, error) {
	if draft.UserID != 0 && draft.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	if _, err := s.GetProjectByID(userID, projectID); err != nil {
		return nil, err
	}

	if err := s.checkBillableClient(userID, draft.ClientID); err != nil {
		return nil, err
	}
	if err := s.checkDuplicateTitle(userID, draft.Title, projectID); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ? AND version = ?", projectID, userID, draft.Version).
		Updates(map[string]interface{}{
			"client_id":         draft.ClientID,
			"title":             strings.TrimSpace(draft.Title),
			"description":       draft.Description,
			"hourly_rate_cents": draft.HourlyRateCents,
			"status":            draft.Status,
			"start_date":        draft.StartDate,
			"end_date":          draft.EndDate,
			"version":           gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateProjectTitle
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetProjectByID(userID, projectID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrConflict
	}

	return s.GetProjectByID(userID, projectID)
}

// DeleteProject removes a project. A project with logged time entries
// cannot be deleted at all.
func (s *projectService) DeleteProject(userID, projectID uint) error {
	project, err := s.GetProjectByID(userID, projectID)
	if err != nil {
		return err
	}

	var entryCount int64
	if err := s.db.Model(&models.TimeEntry{}).Where("project_id = ?", projectID).Count(&entryCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if entryCount > 0 {
		return apperrors.ErrProjectHasTimeEntries
	}

	if err := s.db.Delete(project).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *projectService) validateDraft(draft ProjectDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "project title is required")
	}
	if draft.HourlyRateCents < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "hourly rate must not be negative")
	}
	if draft.Status != "" && !draft.Status.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown project status")
	}
	return nil
}

// checkBillableClient verifies the referenced client exists, belongs to the
// user, and is active.
func (s *projectService) checkBillableClient(userID, clientID uint) error {
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

// checkDuplicateTitle enforces per-user, case-insensitive title uniqueness.
func (s *projectService) checkDuplicateTitle(userID uint, title string, excludeID uint) error {
	query := s.db.Model(&models.Project{}).
		Where("user_id = ? AND LOWER(title) = LOWER(?)", userID, strings.TrimSpace(title))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateProjectTitle
	}
	return nil
}
