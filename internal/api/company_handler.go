// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/biztime-api/internal/api/shared"
	"github.com/phrazzld/biztime-api/internal/domain"
	"github.com/phrazzld/biztime-api/internal/platform/logger"
	"github.com/phrazzld/biztime-api/internal/store"
)

// CompanySummaryResponse is the reduced company shape used in list responses.
type CompanySummaryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CompanyResponse represents the response data for a company.
type CompanyResponse struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CompanyDetailResponse is the single-company shape, enriched with the ids
// of the invoices the company owns. Invoices is always an array, never null.
type CompanyDetailResponse struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Invoices    []int64 `json:"invoices"`
}

// StatusResponse confirms a destructive operation.
type StatusResponse struct {
	Status string `json:"status"`
}

type companyListEnvelope struct {
	Companies []CompanySummaryResponse `json:"companies"`
}

type companyEnvelope struct {
	Company CompanyResponse `json:"company"`
}

type companyDetailEnvelope struct {
	Company CompanyDetailResponse `json:"company"`
}

// CreateCompanyRequest represents the request body for creating a company.
// The code is derived from the name, not client-supplied.
type CreateCompanyRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
}

// UpdateCompanyRequest represents the request body for updating a company.
type UpdateCompanyRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
}

// CompanyHandler handles company-related HTTP requests
type CompanyHandler struct {
	companyStore store.CompanyStore
	invoiceStore store.InvoiceStore
	logger       *slog.Logger
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(
	companyStore store.CompanyStore,
	invoiceStore store.InvoiceStore,
	logger *slog.Logger,
) *CompanyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CompanyHandler")
	}

	return &CompanyHandler{
		companyStore: companyStore,
		invoiceStore: invoiceStore,
		logger:       logger.With(slog.String("component", "company_handler")),
	}
}

// ListCompanies handles GET /companies requests
// It returns all companies reduced to their code and name.
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	companies, err := h.companyStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to list companies", err)
		return
	}

	response := companyListEnvelope{Companies: make([]CompanySummaryResponse, 0, len(companies))}
	for _, company := range companies {
		response.Companies = append(response.Companies, CompanySummaryResponse{
			Code: company.Code,
			Name: company.Name,
		})
	}

	log.Debug("listed companies", slog.Int("count", len(response.Companies)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetCompany handles GET /companies/{code} requests
// It retrieves a company and attaches the ids of its invoices.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	code := chi.URLParam(r, "code")
	if code == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Company code is required")
		return
	}

	company, err := h.companyStore.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("No such company: %s", code))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to get company", err)
		return
	}

	// Second, non-transactional query for the invoice ids. A concurrent
	// delete between the two reads is an accepted benign inconsistency.
	invoiceIDs, err := h.invoiceStore.ListIDsByCompany(r.Context(), code)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to get company invoices", err)
		return
	}

	response := companyDetailEnvelope{
		Company: CompanyDetailResponse{
			Code:        company.Code,
			Name:        company.Name,
			Description: company.Description,
			Invoices:    invoiceIDs,
		},
	}

	log.Debug("retrieved company",
		slog.String("code", code),
		slog.Int("invoice_count", len(invoiceIDs)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateCompany handles POST /companies requests
// It derives the company code as the lowercase slug of the submitted name.
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCompanyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	company, err := domain.NewCompany(req.Name, req.Description)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.companyStore.Create(r.Context(), company); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to create company"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Info("company created", slog.String("code", company.Code))
	shared.RespondWithJSON(w, r, http.StatusCreated, companyEnvelope{
		Company: companyToResponse(company),
	})
}

// UpdateCompany handles PUT /companies/{code} requests
// It updates the name and description of an existing company; the code is
// immutable.
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	code := chi.URLParam(r, "code")
	if code == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Company code is required")
		return
	}

	var req UpdateCompanyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	company := &domain.Company{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.companyStore.Update(r.Context(), company); err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Company not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to update company", err)
		return
	}

	log.Info("company updated", slog.String("code", code))
	shared.RespondWithJSON(w, r, http.StatusOK, companyEnvelope{
		Company: companyToResponse(company),
	})
}

// DeleteCompany handles DELETE /companies/{code} requests
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	code := chi.URLParam(r, "code")
	if code == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Company code is required")
		return
	}

	if err := h.companyStore.Delete(r.Context(), code); err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Company not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to delete company", err)
		return
	}

	log.Info("company deleted", slog.String("code", code))
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "deleted"})
}

// companyToResponse converts a domain.Company to a CompanyResponse
func companyToResponse(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		Code:        company.Code,
		Name:        company.Name,
		Description: company.Description,
	}
}
