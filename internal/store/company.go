package store

import (
	"context"

	"github.com/phrazzld/biztime-api/internal/domain"
)

// CompanyStore defines the interface for company data persistence.
type CompanyStore interface {
	// List retrieves all companies with their code and name populated.
	// Returns an empty slice if no companies exist.
	List(ctx context.Context) ([]*domain.Company, error)

	// GetByCode retrieves a company by its unique code.
	// Returns ErrCompanyNotFound if the company does not exist.
	GetByCode(ctx context.Context, code string) (*domain.Company, error)

	// Create saves a new company to the store.
	// Returns ErrCompanyCodeExists if the code is already taken.
	Create(ctx context.Context, company *domain.Company) error

	// Update saves the name and description of an existing company.
	// The code is immutable and identifies the row.
	// Returns ErrCompanyNotFound if the company does not exist.
	Update(ctx context.Context, company *domain.Company) error

	// Delete removes a company by its code.
	// Returns ErrCompanyNotFound if the company does not exist.
	Delete(ctx context.Context, code string) error
}
