package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a product cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrBrandNotFound is returned when a product has no brand attribute
	ErrBrandNotFound = errors.New("brand attribute not found")

	// ErrMissingAttribute is returned when a selected option code is absent from a variant
	ErrMissingAttribute = errors.New("missing attribute code")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogAPIFailure is returned when the upstream catalog request fails
	ErrCatalogAPIFailure = errors.New("catalog API request failed")
)

// MissingAttributeError reports which variant lacked which selected attribute code
type MissingAttributeError struct {
	Code     string
	Position int
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: variant %d has no attribute %q", ErrMissingAttribute, e.Position, e.Code)
}

func (e *MissingAttributeError) Unwrap() error {
	return ErrMissingAttribute
}
