// Package postgres provides PostgreSQL implementations of the store
// interfaces using parameterized SQL over database/sql.
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

// PostgresCompanyStore implements the store.CompanyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCompanyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompanyStore creates a new PostgreSQL implementation of the
// CompanyStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCompanyStore(db store.DBTX, logger *slog.Logger) *PostgresCompanyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCompanyStore{
		db:     db,
		logger: logger.With(slog.String("component", "company_store")),
	}
}

// Ensure PostgresCompanyStore implements store.CompanyStore interface
var _ store.CompanyStore = (*PostgresCompanyStore)(nil)

// List implements store.CompanyStore.List
// It retrieves the code and name of every company.
func (s *PostgresCompanyStore) List(ctx context.Context) ([]*domain.Company, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT code, name
		FROM companies
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list companies", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var companies []*domain.Company
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(&company.Code, &company.Name); err != nil {
			log.Error("failed to scan company row", slog.String("error", err.Error()))
			return nil, err
		}
		companies = append(companies, &company)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no companies found
	if companies == nil {
		companies = []*domain.Company{}
	}

	log.Debug("listed companies", slog.Int("count", len(companies)))
	return companies, nil
}

// GetByCode implements store.CompanyStore.GetByCode
// It retrieves a company by its unique code.
// Returns store.ErrCompanyNotFound if the company does not exist.
func (s *PostgresCompanyStore) GetByCode(ctx context.Context, code string) (*domain.Company, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT code, name, description
		FROM companies
		WHERE code = $1
	`

	var company domain.Company
	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&company.Code,
		&company.Name,
		&company.Description,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("company not found", slog.String("code", code))
			return nil, store.ErrCompanyNotFound
		}
		log.Error("failed to get company by code",
			slog.String("error", err.Error()),
			slog.String("code", code))
		return nil, err
	}

	return &company, nil
}

// Create implements store.CompanyStore.Create
// It saves a new company to the database, handling domain validation.
// Returns store.ErrCompanyCodeExists if the code is already taken.
func (s *PostgresCompanyStore) Create(ctx context.Context, company *domain.Company) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := company.Validate(); err != nil {
		log.Warn("company validation failed during create",
			slog.String("error", err.Error()),
			slog.String("code", company.Code))
		return err
	}

	query := `
		INSERT INTO companies (code, name, description)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.ExecContext(ctx, query, company.Code, company.Name, company.Description)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate company code during create",
				slog.String("code", company.Code))
			return fmt.Errorf("%w: %s", store.ErrCompanyCodeExists, company.Code)
		}

		log.Error("failed to create company",
			slog.String("error", err.Error()),
			slog.String("code", company.Code))
		return MapError(err)
	}

	log.Info("company created successfully", slog.String("code", company.Code))
	return nil
}

// Update implements store.CompanyStore.Update
// It updates the name and description of an existing company.
// Returns store.ErrCompanyNotFound if the company does not exist.
func (s *PostgresCompanyStore) Update(ctx context.Context, company *domain.Company) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := company.Validate(); err != nil {
		log.Warn("company validation failed during update",
			slog.String("error", err.Error()),
			slog.String("code", company.Code))
		return err
	}

	query := `
		UPDATE companies
		SET name = $1, description = $2
		WHERE code = $3
	`

	result, err := s.db.ExecContext(ctx, query, company.Name, company.Description, company.Code)
	if err != nil {
		log.Error("failed to update company",
			slog.String("error", err.Error()),
			slog.String("code", company.Code))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCompanyNotFound); err != nil {
		log.Debug("company not found for update", slog.String("code", company.Code))
		return err
	}

	log.Info("company updated successfully", slog.String("code", company.Code))
	return nil
}

// Delete implements store.CompanyStore.Delete
// It removes a company by its code. Owned invoices are removed by the
// store's ON DELETE CASCADE constraint.
// Returns store.ErrCompanyNotFound if the company does not exist.
func (s *PostgresCompanyStore) Delete(ctx context.Context, code string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM companies
		WHERE code = $1
	`

	result, err := s.db.ExecContext(ctx, query, code)
	if err != nil {
		log.Error("failed to delete company",
			slog.String("error", err.Error()),
			slog.String("code", code))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCompanyNotFound); err != nil {
		log.Debug("company not found for delete", slog.String("code", code))
		return err
	}

	log.Info("company deleted successfully", slog.String("code", code))
	return nil
}
