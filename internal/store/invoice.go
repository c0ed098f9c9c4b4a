package store

import (
	"context"

	"github.com/phrazzld/biztime-api/internal/domain"
)

// InvoiceStore defines the interface for invoice data persistence.
type InvoiceStore interface {
	// List retrieves all invoices with their id and company code populated.
	// Returns an empty slice if no invoices exist.
	List(ctx context.Context) ([]*domain.Invoice, error)

	// GetByID retrieves an invoice by its unique ID.
	// Returns ErrInvoiceNotFound if the invoice does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)

	// GetWithCompany retrieves an invoice joined to its owning company.
	// The returned invoice has its Company field populated.
	// Returns ErrInvoiceNotFound if the invoice does not exist.
	GetWithCompany(ctx context.Context, id int64) (*domain.Invoice, error)

	// ListIDsByCompany retrieves the ids of all invoices owned by the given
	// company code, in no guaranteed order.
	// Returns an empty slice if the company has no invoices.
	ListIDsByCompany(ctx context.Context, compCode string) ([]int64, error)

	// Create saves a new invoice to the store. The store assigns ID and
	// AddDate and writes them back onto the invoice.
	// Returns ErrInvalidEntity if the company code does not exist.
	Create(ctx context.Context, invoice *domain.Invoice) error

	// Update persists the amt, paid, and paid_date of an existing invoice.
	// Returns ErrInvoiceNotFound if the invoice does not exist.
	Update(ctx context.Context, invoice *domain.Invoice) error

	// Delete removes an invoice by its ID.
	// Returns ErrInvoiceNotFound if the invoice does not exist.
	Delete(ctx context.Context, id int64) error
}
