package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/biztime-api/internal/domain"
	"github.com/phrazzld/biztime-api/internal/platform/logger"
	"github.com/phrazzld/biztime-api/internal/store"
)

// PostgresInvoiceStore implements the store.InvoiceStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInvoiceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInvoiceStore creates a new PostgreSQL implementation of the
// InvoiceStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresInvoiceStore(db store.DBTX, logger *slog.Logger) *PostgresInvoiceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInvoiceStore{
		db:     db,
		logger: logger.With(slog.String("component", "invoice_store")),
	}
}

// Ensure PostgresInvoiceStore implements store.InvoiceStore interface
var _ store.InvoiceStore = (*PostgresInvoiceStore)(nil)

// List implements store.InvoiceStore.List
// It retrieves the id and company code of every invoice.
func (s *PostgresInvoiceStore) List(ctx context.Context) ([]*domain.Invoice, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, comp_code
		FROM invoices
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list invoices", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var invoices []*domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(&invoice.ID, &invoice.CompCode); err != nil {
			log.Error("failed to scan invoice row", slog.String("error", err.Error()))
			return nil, err
		}
		invoices = append(invoices, &invoice)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no invoices found
	if invoices == nil {
		invoices = []*domain.Invoice{}
	}

	log.Debug("listed invoices", slog.Int("count", len(invoices)))
	return invoices, nil
}

// GetByID implements store.InvoiceStore.GetByID
// It retrieves an invoice by its unique ID.
// Returns store.ErrInvoiceNotFound if the invoice does not exist.
func (s *PostgresInvoiceStore) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, comp_code, amt, paid, add_date, paid_date
		FROM invoices
		WHERE id = $1
	`

	var invoice domain.Invoice
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.CompCode,
		&invoice.Amt,
		&invoice.Paid,
		&invoice.AddDate,
		&invoice.PaidDate,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("invoice not found", slog.Int64("id", id))
			return nil, store.ErrInvoiceNotFound
		}
		log.Error("failed to get invoice by id",
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return nil, err
	}

	return &invoice, nil
}

// GetWithCompany implements store.InvoiceStore.GetWithCompany
// It retrieves an invoice joined to its owning company and populates the
// invoice's Company field from the flat row.
// Returns store.ErrInvoiceNotFound if the invoice does not exist.
func (s *PostgresInvoiceStore) GetWithCompany(ctx context.Context, id int64) (*domain.Invoice, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT i.id, i.amt, i.paid, i.add_date, i.paid_date,
		       c.code, c.name, c.description
		FROM invoices AS i
		JOIN companies AS c ON (i.comp_code = c.code)
		WHERE i.id = $1
	`

	var invoice domain.Invoice
	var company domain.Company
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.Amt,
		&invoice.Paid,
		&invoice.AddDate,
		&invoice.PaidDate,
		&company.Code,
		&company.Name,
		&company.Description,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("invoice not found", slog.Int64("id", id))
			return nil, store.ErrInvoiceNotFound
		}
		log.Error("failed to get invoice with company",
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return nil, err
	}

	invoice.CompCode = company.Code
	invoice.Company = &company

	return &invoice, nil
}

// ListIDsByCompany implements store.InvoiceStore.ListIDsByCompany
// It retrieves the ids of all invoices owned by the given company code.
func (s *PostgresInvoiceStore) ListIDsByCompany(ctx context.Context, compCode string) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id
		FROM invoices
		WHERE comp_code = $1
	`

	rows, err := s.db.QueryContext(ctx, query, compCode)
	if err != nil {
		log.Error("failed to list invoice ids",
			slog.String("error", err.Error()),
			slog.String("comp_code", compCode))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan invoice id", slog.String("error", err.Error()))
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// The handler contract promises an array, never null
	if ids == nil {
		ids = []int64{}
	}

	return ids, nil
}

// Create implements store.InvoiceStore.Create
// It saves a new invoice, letting the database assign the id, the unpaid
// default, and the add_date, then writes the assigned values back onto the
// invoice.
// Returns store.ErrInvalidEntity if the company code does not exist.
func (s *PostgresInvoiceStore) Create(ctx context.Context, invoice *domain.Invoice) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invoice.Validate(); err != nil {
		log.Warn("invoice validation failed during create",
			slog.String("error", err.Error()),
			slog.String("comp_code", invoice.CompCode))
		return err
	}

	query := `
		INSERT INTO invoices (comp_code, amt)
		VALUES ($1, $2)
		RETURNING id, comp_code, amt, paid, add_date, paid_date
	`

	err := s.db.QueryRowContext(ctx, query, invoice.CompCode, invoice.Amt).Scan(
		&invoice.ID,
		&invoice.CompCode,
		&invoice.Amt,
		&invoice.Paid,
		&invoice.AddDate,
		&invoice.PaidDate,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("unknown company code during invoice creation",
				slog.String("comp_code", invoice.CompCode))
			return fmt.Errorf("%w: company with code %s not found",
				store.ErrInvalidEntity, invoice.CompCode)
		}

		log.Error("failed to create invoice",
			slog.String("error", err.Error()),
			slog.String("comp_code", invoice.CompCode))
		return MapError(err)
	}

	log.Info("invoice created successfully",
		slog.Int64("id", invoice.ID),
		slog.String("comp_code", invoice.CompCode))
	return nil
}

// Update implements store.InvoiceStore.Update
// It persists the amt, paid, and paid_date of an existing invoice.
// Returns store.ErrInvoiceNotFound if the invoice does not exist.
func (s *PostgresInvoiceStore) Update(ctx context.Context, invoice *domain.Invoice) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE invoices
		SET amt = $1, paid = $2, paid_date = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		invoice.Amt,
		invoice.Paid,
		invoice.PaidDate,
		invoice.ID,
	)

	if err != nil {
		log.Error("failed to update invoice",
			slog.String("error", err.Error()),
			slog.Int64("id", invoice.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrInvoiceNotFound); err != nil {
		log.Debug("invoice not found for update", slog.Int64("id", invoice.ID))
		return err
	}

	log.Info("invoice updated successfully",
		slog.Int64("id", invoice.ID),
		slog.Bool("paid", invoice.Paid))
	return nil
}

// Delete implements store.InvoiceStore.Delete
// It removes an invoice by its ID.
// Returns store.ErrInvoiceNotFound if the invoice does not exist.
func (s *PostgresInvoiceStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM invoices
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete invoice",
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrInvoiceNotFound); err != nil {
		log.Debug("invoice not found for delete", slog.Int64("id", id))
		return err
	}

	log.Info("invoice deleted successfully", slog.Int64("id", id))
	return nil
}
