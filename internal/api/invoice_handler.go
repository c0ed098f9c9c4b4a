package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/biztime-api/internal/api/shared"
	"github.com/phrazzld/biztime-api/internal/domain"
	"github.com/phrazzld/biztime-api/internal/platform/logger"
	"github.com/phrazzld/biztime-api/internal/store"
)

// InvoiceSummaryResponse is the reduced invoice shape used in list responses.
type InvoiceSummaryResponse struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}

// InvoiceResponse represents the response data for an invoice.
type InvoiceResponse struct {
	ID       int64      `json:"id"`
	CompCode string     `json:"comp_code"`
	Amt      float64    `json:"amt"`
	Paid     bool       `json:"paid"`
	AddDate  time.Time  `json:"add_date"`
	PaidDate *time.Time `json:"paid_date"`
}

// InvoiceDetailResponse is the single-invoice shape with the owning company
// nested under "company". The comp_code scalar is deliberately absent from
// the top level.
type InvoiceDetailResponse struct {
	ID       int64           `json:"id"`
	Amt      float64         `json:"amt"`
	Paid     bool            `json:"paid"`
	AddDate  time.Time       `json:"add_date"`
	PaidDate *time.Time      `json:"paid_date"`
	Company  CompanyResponse `json:"company"`
}

type invoiceListEnvelope struct {
	Invoices []InvoiceSummaryResponse `json:"invoices"`
}

type invoiceEnvelope struct {
	Invoice InvoiceResponse `json:"invoice"`
}

type invoiceDetailEnvelope struct {
	Invoice InvoiceDetailResponse `json:"invoice"`
}

// CreateInvoiceRequest represents the request body for creating an invoice.
type CreateInvoiceRequest struct {
	CompCode string  `json:"comp_code" validate:"required"`
	Amt      float64 `json:"amt"       validate:"required,gt=0"`
}

// UpdateInvoiceRequest represents the request body for updating an invoice.
// Nil fields leave the stored values unchanged; the paid flag drives the
// paid_date transition.
type UpdateInvoiceRequest struct {
	Amt  *float64 `json:"amt"  validate:"omitempty,gt=0"`
	Paid *bool    `json:"paid"`
}

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceStore store.InvoiceStore
	logger       *slog.Logger

	// now is the clock used to stamp paid_date transitions.
	// Overridable in tests.
	now func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceStore store.InvoiceStore, logger *slog.Logger) *InvoiceHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InvoiceHandler")
	}

	return &InvoiceHandler{
		invoiceStore: invoiceStore,
		logger:       logger.With(slog.String("component", "invoice_handler")),
		now:          time.Now,
	}
}

// invoiceIDFromRequest extracts and parses the {id} path parameter.
func invoiceIDFromRequest(r *http.Request) (int64, error) {
	pathID := chi.URLParam(r, "id")
	return strconv.ParseInt(pathID, 10, 64)
}

// ListInvoices handles GET /invoices requests
// It returns all invoices reduced to their id and company code.
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	invoices, err := h.invoiceStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to list invoices", err)
		return
	}

	response := invoiceListEnvelope{Invoices: make([]InvoiceSummaryResponse, 0, len(invoices))}
	for _, invoice := range invoices {
		response.Invoices = append(response.Invoices, InvoiceSummaryResponse{
			ID:       invoice.ID,
			CompCode: invoice.CompCode,
		})
	}

	log.Debug("listed invoices", slog.Int("count", len(response.Invoices)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetInvoice handles GET /invoices/{id} requests
// It joins the invoice to its owning company and reshapes the flat row into
// a nested structure.
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := invoiceIDFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceStore.GetWithCompany(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrInvoiceNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Invoice not found with id %d", id))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to get invoice", err)
		return
	}

	log.Debug("retrieved invoice", slog.Int64("id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, invoiceDetailEnvelope{
		Invoice: invoiceToDetailResponse(invoice),
	})
}

// CreateInvoice handles POST /invoices requests
// The new invoice starts unpaid; the store assigns id and add_date.
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateInvoiceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	invoice, err := domain.NewInvoice(req.CompCode, req.Amt)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.invoiceStore.Create(r.Context(), invoice); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to create invoice"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Info("invoice created",
		slog.Int64("id", invoice.ID),
		slog.String("comp_code", invoice.CompCode))
	shared.RespondWithJSON(w, r, http.StatusCreated, invoiceEnvelope{
		Invoice: invoiceToResponse(invoice),
	})
}

// UpdateInvoice handles PUT /invoices/{id} requests
// It fetches the existing invoice, applies the amount and paid flag with the
// paid_date transition rule, and persists the result. The read and the write
// are separate statements, not a transaction.
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := invoiceIDFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var req UpdateInvoiceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	invoice, err := h.invoiceStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrInvoiceNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Invoice not found with id %d", id))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to get invoice", err)
		return
	}

	invoice.ApplyPayment(req.Amt, req.Paid, h.now())

	if err := h.invoiceStore.Update(r.Context(), invoice); err != nil {
		if errors.Is(err, store.ErrInvoiceNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Invoice not found with id %d", id))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to update invoice", err)
		return
	}

	log.Info("invoice updated",
		slog.Int64("id", id),
		slog.Bool("paid", invoice.Paid))
	shared.RespondWithJSON(w, r, http.StatusOK, invoiceEnvelope{
		Invoice: invoiceToResponse(invoice),
	})
}

// DeleteInvoice handles DELETE /invoices/{id} requests
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := invoiceIDFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceStore.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrInvoiceNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Invoice not found with id %d", id))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to delete invoice", err)
		return
	}

	log.Info("invoice deleted", slog.Int64("id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "deleted"})
}

// invoiceToResponse converts a domain.Invoice to an InvoiceResponse
func invoiceToResponse(invoice *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:       invoice.ID,
		CompCode: invoice.CompCode,
		Amt:      invoice.Amt,
		Paid:     invoice.Paid,
		AddDate:  invoice.AddDate,
		PaidDate: invoice.PaidDate,
	}
}

// invoiceToDetailResponse converts a joined domain.Invoice to an
// InvoiceDetailResponse, nesting the company and dropping the top-level
// comp_code.
func invoiceToDetailResponse(invoice *domain.Invoice) InvoiceDetailResponse {
	return InvoiceDetailResponse{
		ID:       invoice.ID,
		Amt:      invoice.Amt,
		Paid:     invoice.Paid,
		AddDate:  invoice.AddDate,
		PaidDate: invoice.PaidDate,
		Company:  companyToResponse(invoice.Company),
	}
}
