package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/biztime-api/internal/domain"
	"github.com/phrazzld/biztime-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCompanyRouter mounts a CompanyHandler on a chi router so URL
// parameters resolve the same way they do in production.
func newCompanyRouter(companyStore store.CompanyStore, invoiceStore store.InvoiceStore) http.Handler {
	h := NewCompanyHandler(companyStore, invoiceStore, slog.Default())

	r := chi.NewRouter()
	r.Get("/companies", h.ListCompanies)
	r.Post("/companies", h.CreateCompany)
	r.Get("/companies/{code}", h.GetCompany)
	r.Put("/companies/{code}", h.UpdateCompany)
	r.Delete("/companies/{code}", h.DeleteCompany)
	return r
}

func strPtr(s string) *string { return &s }

func TestCompanyHandler_ListCompanies(t *testing.T) {
	t.Parallel()

	t.Run("returns_code_name_pairs", func(t *testing.T) {
		companyStore := &MockCompanyStore{
			ListFn: func(ctx context.Context) ([]*domain.Company, error) {
				return []*domain.Company{
					{Code: "apple-inc", Name: "Apple Inc"},
					{Code: "ibm", Name: "IBM"},
				}, nil
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Companies []CompanySummaryResponse `json:"companies"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Companies, 2)
		assert.Equal(t, "apple-inc", body.Companies[0].Code)
		assert.Equal(t, "Apple Inc", body.Companies[0].Name)
	})

	t.Run("empty_store_returns_empty_array", func(t *testing.T) {
		router := newCompanyRouter(&MockCompanyStore{}, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"companies":[]}`, rec.Body.String())
	})

	t.Run("store_failure_is_500", func(t *testing.T) {
		companyStore := &MockCompanyStore{
			ListFn: func(ctx context.Context) ([]*domain.Company, error) {
				return nil, errors.New("connection refused")
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCompanyHandler_GetCompany(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		code           string
		setupCompanies func(*MockCompanyStore)
		setupInvoices  func(*MockInvoiceStore)
		expectedStatus int
		expectedErrMsg string
		expectedIDs    []int64
	}{
		{
			name: "company_with_invoices",
			code: "apple-inc",
			setupCompanies: func(cs *MockCompanyStore) {
				cs.GetByCodeFn = func(ctx context.Context, code string) (*domain.Company, error) {
					return &domain.Company{
						Code:        "apple-inc",
						Name:        "Apple Inc",
						Description: strPtr("Maker of OSX."),
					}, nil
				}
			},
			setupInvoices: func(is *MockInvoiceStore) {
				is.ListIDsByCompanyFn = func(ctx context.Context, compCode string) ([]int64, error) {
					return []int64{1, 2, 3}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int64{1, 2, 3},
		},
		{
			name: "company_without_invoices_gets_empty_array",
			code: "ibm",
			setupCompanies: func(cs *MockCompanyStore) {
				cs.GetByCodeFn = func(ctx context.Context, code string) (*domain.Company, error) {
					return &domain.Company{Code: "ibm", Name: "IBM"}, nil
				}
			},
			setupInvoices:  func(is *MockInvoiceStore) {},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int64{},
		},
		{
			name:           "unknown_company_is_404_with_code_in_message",
			code:           "nope",
			setupCompanies: func(cs *MockCompanyStore) {},
			setupInvoices:  func(is *MockInvoiceStore) {},
			expectedStatus: http.StatusNotFound,
			expectedErrMsg: "No such company: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			companyStore := &MockCompanyStore{}
			invoiceStore := &MockInvoiceStore{}
			tt.setupCompanies(companyStore)
			tt.setupInvoices(invoiceStore)
			router := newCompanyRouter(companyStore, invoiceStore)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/"+tt.code, nil))

			require.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedErrMsg != "" {
				var body struct {
					Error struct {
						Message string `json:"message"`
						Status  int    `json:"status"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedErrMsg, body.Error.Message)
				assert.Equal(t, tt.expectedStatus, body.Error.Status)
				return
			}

			var body struct {
				Company CompanyDetailResponse `json:"company"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Company.Code)
			require.NotNil(t, body.Company.Invoices)
			assert.Equal(t, tt.expectedIDs, body.Company.Invoices)
		})
	}

	t.Run("invoices_field_is_array_not_null", func(t *testing.T) {
		companyStore := &MockCompanyStore{
			GetByCodeFn: func(ctx context.Context, code string) (*domain.Company, error) {
				return &domain.Company{Code: "ibm", Name: "IBM"}, nil
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/ibm", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Equal(t, "[]", string(raw["company"]["invoices"]))
	})
}

func TestCompanyHandler_CreateCompany(t *testing.T) {
	t.Parallel()

	t.Run("derives_code_from_name", func(t *testing.T) {
		var created *domain.Company
		companyStore := &MockCompanyStore{
			CreateFn: func(ctx context.Context, company *domain.Company) error {
				created = company
				return nil
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		reqBody, err := json.Marshal(CreateCompanyRequest{Name: "Apple Inc"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/companies", bytes.NewReader(reqBody)))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, created)
		assert.Equal(t, "apple-inc", created.Code)

		var body struct {
			Company CompanyResponse `json:"company"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "apple-inc", body.Company.Code)
		assert.Equal(t, "Apple Inc", body.Company.Name)
		assert.Nil(t, body.Company.Description)
	})

	t.Run("omitted_description_serializes_null", func(t *testing.T) {
		router := newCompanyRouter(&MockCompanyStore{}, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(
			http.MethodPost, "/companies", bytes.NewReader([]byte(`{"name":"IBM"}`))))

		require.Equal(t, http.StatusCreated, rec.Code)

		var raw map[string]map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Equal(t, "null", string(raw["company"]["description"]))
	})

	t.Run("missing_name_is_400", func(t *testing.T) {
		router := newCompanyRouter(&MockCompanyStore{}, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(
			http.MethodPost, "/companies", bytes.NewReader([]byte(`{"description":"no name"}`))))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed_body_is_400", func(t *testing.T) {
		router := newCompanyRouter(&MockCompanyStore{}, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(
			http.MethodPost, "/companies", bytes.NewReader([]byte(`{not json`))))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate_code_is_409", func(t *testing.T) {
		companyStore := &MockCompanyStore{
			CreateFn: func(ctx context.Context, company *domain.Company) error {
				return store.ErrCompanyCodeExists
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		reqBody, err := json.Marshal(CreateCompanyRequest{Name: "Apple Inc"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/companies", bytes.NewReader(reqBody)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCompanyHandler_UpdateCompany(t *testing.T) {
	t.Parallel()

	t.Run("updates_name_and_description", func(t *testing.T) {
		var updated *domain.Company
		companyStore := &MockCompanyStore{
			UpdateFn: func(ctx context.Context, company *domain.Company) error {
				updated = company
				return nil
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		reqBody, err := json.Marshal(UpdateCompanyRequest{
			Name:        "Apple Computer",
			Description: strPtr("Renamed."),
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPut, "/companies/apple-inc", bytes.NewReader(reqBody)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, updated)
		// Code comes from the path and stays immutable
		assert.Equal(t, "apple-inc", updated.Code)
		assert.Equal(t, "Apple Computer", updated.Name)

		var body struct {
			Company CompanyResponse `json:"company"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "apple-inc", body.Company.Code)
		assert.Equal(t, "Apple Computer", body.Company.Name)
	})

	t.Run("unknown_company_is_404", func(t *testing.T) {
		companyStore := &MockCompanyStore{
			UpdateFn: func(ctx context.Context, company *domain.Company) error {
				return store.ErrCompanyNotFound
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		reqBody, err := json.Marshal(UpdateCompanyRequest{Name: "Ghost"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPut, "/companies/nope", bytes.NewReader(reqBody)))

		require.Equal(t, http.StatusNotFound, rec.Code)

		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Company not found", body.Error.Message)
	})
}

func TestCompanyHandler_DeleteCompany(t *testing.T) {
	t.Parallel()

	t.Run("returns_deleted_status", func(t *testing.T) {
		router := newCompanyRouter(&MockCompanyStore{}, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/companies/apple-inc", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())
	})

	t.Run("unknown_company_is_404", func(t *testing.T) {
		companyStore := &MockCompanyStore{
			DeleteFn: func(ctx context.Context, code string) error {
				return store.ErrCompanyNotFound
			},
		}
		router := newCompanyRouter(companyStore, &MockInvoiceStore{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/companies/nope", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)

		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Company not found", body.Error.Message)
	})
}
