package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"protrack/internal/assistant"
	apperrors "protrack/internal/errors"
	"protrack/internal/services"
)

// TimeEntryHandler handles time entry requests.
type TimeEntryHandler struct {
	timeEntryService services.TimeEntryServicer
	assistant        *assistant.Client
}

// NewTimeEntryHandler creates a new TimeEntryHandler.
func NewTimeEntryHandler(timeEntryService services.TimeEntryServicer, assistantClient *assistant.Client) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryService: timeEntryService, assistant: assistantClient}
}

// TimeEntryRequest represents the request payload for creating or updating a time entry.
type TimeEntryRequest struct {
	UserID      uint      `json:"user_id"`
	ProjectID   uint      `json:"project_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description string    `json:"description" binding:"max=1000"`
	IsBilled    bool      `json:"is_billed"`
	Version     uint      `json:"version"`
}

func (r *TimeEntryRequest) draft() services.TimeEntryDraft {
	return services.TimeEntryDraft{
		UserID:      r.UserID,
		ProjectID:   r.ProjectID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		IsBilled:    r.IsBilled,
		Version:     r.Version,
	}
}

// GenerateDescriptionRequest carries the inputs for AI description drafting.
type GenerateDescriptionRequest struct {
	Prompt       string   `json:"prompt" binding:"required,min=1,max=2000"`
	ProjectTitle string   `json:"project_title" binding:"max=200"`
	Hours        *float64 `json:"hours" binding:"omitempty,gte=0"`
	Context      string   `json:"context" binding:"max=2000"`
}

// ListTimeEntries returns the user's time entries
// @Summary     List time entries
// @Description Get a paginated list of the user's time entries, newest first
// @Tags        time-entries
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Wildcard search term"
// @Success     200 {object} pagination.PageResponse[models.TimeEntry] "Time entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /time-entries [get]
func (h *TimeEntryHandler) ListTimeEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	page, err := h.timeEntryService.GetUserTimeEntries(userID, query.PageRequest, query.Search)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetTimeEntry returns a single time entry
// @Summary     Get time entry
// @Tags        time-entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Time entry ID"
// @Success     200 {object} models.TimeEntry "Time entry"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /time-entries/{id} [get]
func (h *TimeEntryHandler) GetTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.timeEntryService.GetTimeEntryByID(userID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}

// CreateTimeEntry creates a new time entry
// @Summary     Create time entry
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TimeEntryRequest true "Time entry details"
// @Success     201 {object} models.TimeEntry "Time entry created"
// @Failure     400 {object} ErrorResponse "Invalid input or time range"
// @Router      /time-entries [post]
func (h *TimeEntryHandler) CreateTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.timeEntryService.CreateTimeEntry(userID, req.draft())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"time_entry": entry})
}

// UpdateTimeEntry updates an existing time entry
// @Summary     Update time entry
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Time entry ID"
// @Param       request body TimeEntryRequest true "Time entry details with current version"
// @Success     200 {object} models.TimeEntry "Time entry updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Version conflict"
// @Router      /time-entries/{id} [put]
func (h *TimeEntryHandler) UpdateTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.timeEntryService.UpdateTimeEntry(userID, entryID, req.draft())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}

// DeleteTimeEntry deletes a time entry
// @Summary     Delete time entry
// @Tags        time-entries
// @Security    BearerAuth
// @Param       id path int true "Time entry ID"
// @Success     204 "Time entry deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /time-entries/{id} [delete]
func (h *TimeEntryHandler) DeleteTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.timeEntryService.DeleteTimeEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleBilled flips the billed flag on a time entry
// @Summary     Toggle billed flag
// @Tags        time-entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Time entry ID"
// @Success     200 {object} models.TimeEntry "Time entry with flipped flag"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /time-entries/{id}/toggle-billed [post]
func (h *TimeEntryHandler) ToggleBilled(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.timeEntryService.ToggleBilled(userID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}

// GenerateDescription drafts a time entry description via the AI assistant
// @Summary     Generate a time entry description
// @Description Uses the configured AI provider to draft a professional work description
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body GenerateDescriptionRequest true "Generation prompt and context"
// @Success     200 {object} map[string]string "Generated text"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Failure     503 {object} ErrorResponse "Assistant disabled or not configured"
// @Router      /time-entries/generate-description [post]
func (h *TimeEntryHandler) GenerateDescription(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req GenerateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	text, err := h.assistant.Generate(c.Request.Context(), assistant.Request{
		Prompt:            req.Prompt,
		ContextLabel:      req.ProjectTitle,
		DurationHours:     req.Hours,
		AdditionalContext: req.Context,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}
