package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"protrack/internal/assistant"
	apperrors "protrack/internal/errors"
	"protrack/internal/services"
)

// InvoiceHandler handles invoice requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
	assistant      *assistant.Client
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer, assistantClient *assistant.Client) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, assistant: assistantClient}
}

// InvoiceRequest represents the request payload for creating or updating an
// invoice. An empty invoice_number on create lets the server allocate the
// next number in the current-year sequence.
type InvoiceRequest struct {
	UserID           uint       `json:"user_id"`
	ClientID         uint       `json:"client_id" binding:"required"`
	InvoiceNumber    string     `json:"invoice_number" binding:"omitempty,invoice_number"`
	InvoiceDate      time.Time  `json:"invoice_date" binding:"required"`
	DueDate          *time.Time `json:"due_date"`
	TotalAmountCents int64      `json:"total_amount_cents" binding:"gte=0"`
	Notes            string     `json:"notes" binding:"max=500"`
	TimeEntryIDs     []uint     `json:"time_entry_ids"`
	Version          uint       `json:"version"`
}

func (r *InvoiceRequest) draft() services.InvoiceDraft {
	return services.InvoiceDraft{
		UserID:           r.UserID,
		ClientID:         r.ClientID,
		InvoiceNumber:    r.InvoiceNumber,
		InvoiceDate:      r.InvoiceDate,
		DueDate:          r.DueDate,
		TotalAmountCents: r.TotalAmountCents,
		Notes:            r.Notes,
		TimeEntryIDs:     r.TimeEntryIDs,
		Version:          r.Version,
	}
}

// InvoicePreviewRequest selects the unbilled work to preview.
type InvoicePreviewRequest struct {
	ClientID  uint      `json:"client_id" binding:"required"`
	ProjectID *uint     `json:"project_id"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// GenerateNotesRequest carries the inputs for AI invoice note drafting.
type GenerateNotesRequest struct {
	Prompt     string `json:"prompt" binding:"required,min=1,max=2000"`
	ClientName string `json:"client_name" binding:"max=200"`
	Context    string `json:"context" binding:"max=2000"`
}

// ListInvoices returns the user's invoices
// @Summary     List invoices
// @Description Get a paginated list of the user's invoices, newest first
// @Tags        invoices
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Wildcard search term"
// @Success     200 {object} pagination.PageResponse[models.Invoice] "Invoices"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
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

	page, err := h.invoiceService.GetUserInvoices(userID, query.PageRequest, query.Search)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetInvoice returns a single invoice
// @Summary     Get invoice
// @Tags        invoices
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Invoice with linked time entries"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(userID, invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// CreateInvoice creates a new invoice
// @Summary     Create invoice
// @Description Create an invoice, allocating the next INV-{year}-{seq} number when none is supplied
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InvoiceRequest true "Invoice details"
// @Success     201 {object} models.Invoice "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input or client"
// @Failure     409 {object} ErrorResponse "Duplicate invoice number"
// @Router      /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(userID, req.draft())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// UpdateInvoice updates an existing invoice
// @Summary     Update invoice
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Param       request body InvoiceRequest true "Invoice details with current version"
// @Success     200 {object} models.Invoice "Invoice updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Version conflict or duplicate number"
// @Router      /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(userID, invoiceID, req.draft())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// DeleteInvoice deletes an invoice
// @Summary     Delete invoice
// @Description Deletes an invoice and its time entry links; the entries themselves are kept
// @Tags        invoices
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     204 "Invoice deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.invoiceService.DeleteInvoice(userID, invoiceID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TogglePaid flips the paid flag on an invoice
// @Summary     Toggle paid flag
// @Description Marks an invoice paid (stamping the payment date) or unpaid (clearing it)
// @Tags        invoices
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Invoice with flipped flag"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /invoices/{id}/toggle-paid [post]
func (h *InvoiceHandler) TogglePaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.TogglePaid(userID, invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// NextNumber previews the next invoice number
// @Summary     Preview next invoice number
// @Tags        invoices
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Next number in the current-year sequence"
// @Failure     409 {object} ErrorResponse "Sequence exhausted"
// @Router      /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	number, err := h.invoiceService.NextInvoiceNumber(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice_number": number})
}

// Preview collects unbilled time entries for a prospective invoice
// @Summary     Preview an invoice from unbilled time entries
// @Description Read-only rollup of unbilled entries for a client and date range; creates nothing
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InvoicePreviewRequest true "Preview selection"
// @Success     200 {object} services.InvoicePreview "Matching entries and total"
// @Failure     404 {object} ErrorResponse "No unbilled entries"
// @Router      /invoices/preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvoicePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	preview, err := h.invoiceService.PreviewFromTimeEntries(userID, req.ClientID, req.ProjectID, req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// GenerateNotes drafts invoice notes via the AI assistant
// @Summary     Generate invoice notes
// @Description Uses the configured AI provider to draft professional invoice notes
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body GenerateNotesRequest true "Generation prompt and context"
// @Success     200 {object} map[string]string "Generated text"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Failure     503 {object} ErrorResponse "Assistant disabled or not configured"
// @Router      /invoices/generate-notes [post]
func (h *InvoiceHandler) GenerateNotes(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req GenerateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	text, err := h.assistant.Generate(c.Request.Context(), assistant.Request{
		Prompt:            req.Prompt,
		ContextLabel:      req.ClientName,
		AdditionalContext: req.Context,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}
