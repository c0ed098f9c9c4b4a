// Package domain defines the core business entities and errors.
package domain

import (
	"errors"

	"github.com/gosimple/slug"
)

// Common validation errors for Company
var (
	ErrEmptyCompanyName = errors.New("company name cannot be empty")
	ErrEmptyCompanyCode = errors.New("company code cannot be empty")
)

// Company represents a business entity that owns invoices.
// The code is the only stable external identifier and is derived
// from the name at creation time; it never changes afterwards.
type Company struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// NewCompany creates a new Company with the given name and optional
// description. The code is computed as the lowercase slug of the name
// (e.g. "Apple Inc" becomes "apple-inc").
// Returns an error if validation fails.
func NewCompany(name string, description *string) (*Company, error) {
	company := &Company{
		Code:        slug.Make(name),
		Name:        name,
		Description: description,
	}

	if err := company.Validate(); err != nil {
		return nil, err
	}

	return company, nil
}

// Validate checks if the Company has valid data.
// Returns an error if any field fails validation.
func (c *Company) Validate() error {
	if c.Name == "" {
		return ErrEmptyCompanyName
	}

	if c.Code == "" {
		return ErrEmptyCompanyCode
	}

	return nil
}
