package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/biztime-api/internal/api"
	apiMiddleware "github.com/phrazzld/biztime-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's stores
	companyHandler := api.NewCompanyHandler(app.companyStore, app.invoiceStore, app.logger)
	invoiceHandler := api.NewInvoiceHandler(app.invoiceStore, app.logger)

	// Register routes
	r.Route("/companies", func(r chi.Router) {
		r.Get("/", companyHandler.ListCompanies)
		r.Post("/", companyHandler.CreateCompany)
		r.Get("/{code}", companyHandler.GetCompany)
		r.Put("/{code}", companyHandler.UpdateCompany)
		r.Delete("/{code}", companyHandler.DeleteCompany)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", invoiceHandler.ListInvoices)
		r.Post("/", invoiceHandler.CreateInvoice)
		r.Get("/{id}", invoiceHandler.GetInvoice)
		r.Put("/{id}", invoiceHandler.UpdateInvoice)
		r.Delete("/{id}", invoiceHandler.DeleteInvoice)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
