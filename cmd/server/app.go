package main

import (
	"database/sql"
	"log/slog"

	"github.com/phrazzld/biztime-api/internal/config"
	"github.com/phrazzld/biztime-api/internal/platform/postgres"
	"github.com/phrazzld/biztime-api/internal/store"
)

// application holds the long-lived dependencies shared by every request:
// configuration, the root logger, the database pool, and the stores built
// on top of it.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	companyStore store.CompanyStore
	invoiceStore store.InvoiceStore
}

// newApplication assembles the application from its leaf dependencies.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	return &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		companyStore: postgres.NewPostgresCompanyStore(db, logger),
		invoiceStore: postgres.NewPostgresInvoiceStore(db, logger),
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}
}
