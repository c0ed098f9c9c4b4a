package api

import (
	"context"

	"github.com/phrazzld/biztime-api/internal/domain"
	"github.com/phrazzld/biztime-api/internal/store"
)

// MockCompanyStore is a mock implementation of store.CompanyStore for testing
type MockCompanyStore struct {
	ListFn      func(ctx context.Context) ([]*domain.Company, error)
	GetByCodeFn func(ctx context.Context, code string) (*domain.Company, error)
	CreateFn    func(ctx context.Context, company *domain.Company) error
	UpdateFn    func(ctx context.Context, company *domain.Company) error
	DeleteFn    func(ctx context.Context, code string) error
}

var _ store.CompanyStore = (*MockCompanyStore)(nil)

func (m *MockCompanyStore) List(ctx context.Context) ([]*domain.Company, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.Company{}, nil
}

func (m *MockCompanyStore) GetByCode(ctx context.Context, code string) (*domain.Company, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, store.ErrCompanyNotFound
}

func (m *MockCompanyStore) Create(ctx context.Context, company *domain.Company) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, company)
	}
	return nil
}

func (m *MockCompanyStore) Update(ctx context.Context, company *domain.Company) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, company)
	}
	return nil
}

func (m *MockCompanyStore) Delete(ctx context.Context, code string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, code)
	}
	return nil
}

// MockInvoiceStore is a mock implementation of store.InvoiceStore for testing
type MockInvoiceStore struct {
	ListFn             func(ctx context.Context) ([]*domain.Invoice, error)
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Invoice, error)
	GetWithCompanyFn   func(ctx context.Context, id int64) (*domain.Invoice, error)
	ListIDsByCompanyFn func(ctx context.Context, compCode string) ([]int64, error)
	CreateFn           func(ctx context.Context, invoice *domain.Invoice) error
	UpdateFn           func(ctx context.Context, invoice *domain.Invoice) error
	DeleteFn           func(ctx context.Context, id int64) error
}

var _ store.InvoiceStore = (*MockInvoiceStore)(nil)

func (m *MockInvoiceStore) List(ctx context.Context) ([]*domain.Invoice, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.Invoice{}, nil
}

func (m *MockInvoiceStore) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrInvoiceNotFound
}

func (m *MockInvoiceStore) GetWithCompany(ctx context.Context, id int64) (*domain.Invoice, error) {
	if m.GetWithCompanyFn != nil {
		return m.GetWithCompanyFn(ctx, id)
	}
	return nil, store.ErrInvoiceNotFound
}

func (m *MockInvoiceStore) ListIDsByCompany(ctx context.Context, compCode string) ([]int64, error) {
	if m.ListIDsByCompanyFn != nil {
		return m.ListIDsByCompanyFn(ctx, compCode)
	}
	return []int64{}, nil
}

func (m *MockInvoiceStore) Create(ctx context.Context, invoice *domain.Invoice) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, invoice)
	}
	return nil
}

func (m *MockInvoiceStore) Update(ctx context.Context, invoice *domain.Invoice) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, invoice)
	}
	return nil
}

func (m *MockInvoiceStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
