package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "protrack/internal/errors"
	"protrack/internal/pagination"
	"protrack/internal/services"
)

// ClientHandler handles client-related requests.
type ClientHandler struct {
	clientService services.ClientServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// ClientRequest represents the request payload for creating or updating a client.
type ClientRequest struct {
	UserID       uint   `json:"user_id"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=256"`
	PhoneNumber  string `json:"phone_number" binding:"max=20"`
	Address      string `json:"address" binding:"max=500"`
	Notes        string `json:"notes" binding:"max=1000"`
	IsActive     *bool  `json:"is_active"`
	Version      uint   `json:"version"`
}

func (r *ClientRequest) draft() services.ClientDraft {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return services.ClientDraft{
		UserID:       r.UserID,
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		PhoneNumber:  r.PhoneNumber,
		Address:      r.Address,
		Notes:        r.Notes,
		IsActive:     active,
		Version:      r.Version,
	}
}

// ListQuery represents the common list parameters: pagination plus an
// optional wildcard search term.
type ListQuery struct {
	pagination.PageRequest
	Search string `form:"search" binding:"max=200"`
}

// ListClients returns the user's clients
// @Summary     List clients
// @Description Get a paginated list of the user's clients, optionally filtered by a wildcard search term
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Wildcard search term (* matches any run of characters)"
// @Success     200 {object} pagination.PageResponse[models.Client] "Clients"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
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

	page, err := h.clientService.GetUserClients(userID, query.PageRequest, query.Search)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetClient returns a single client
// @Summary     Get client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Client ID"
// @Success     200 {object} models.Client "Client"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.GetClientByID(userID, clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// CreateClient creates a new client
// @Summary     Create client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClientRequest true "Client details"
// @Success     201 {object} models.Client "Client created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(userID, req.draft())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// UpdateClient updates an existing client
// @Summary     Update client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Client ID"
// @Param       request body ClientRequest true "Client details with current version"
// @Success     200 {object} models.Client "Client updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Version conflict or duplicate name"
// @Router      /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(userID, clientID, req.draft())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// DeleteClient deletes or deactivates a client
// @Summary     Delete client
// @Description Hard-deletes a client without projects or invoices; deactivates one with dependents
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Client ID"
// @Success     200 {object} map[string]string "Delete outcome"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.clientService.DeleteClient(userID, clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}
