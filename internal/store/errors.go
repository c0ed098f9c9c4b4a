package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrCompanyNotFound, ErrInvoiceNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a company whose name slugs to an existing code).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails a store constraint,
	// such as an invoice referencing a company code that does not exist.
	// Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrCompanyNotFound indicates that the requested company does not exist in the store.
	ErrCompanyNotFound = fmt.Errorf("%w: company", ErrNotFound)

	// ErrInvoiceNotFound indicates that the requested invoice does not exist in the store.
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrCompanyCodeExists indicates that a company with the derived code already
	// exists. This is returned when creating a company whose name slugs to a
	// code that is already taken.
	ErrCompanyCodeExists = fmt.Errorf("%w: company code", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
// This includes the generic ErrDuplicate and all entity-specific duplicate errors.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
