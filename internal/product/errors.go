package product

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("product not found")
	ErrNameAndPriceRequired = errors.New("name and price are required")
	ErrNegativePrice        = errors.New("price must not be negative")
	ErrBarcodeTaken         = errors.New("barcode already exists")
	ErrInvalidField         = errors.New("invalid product field")
)

// FieldError names the catalogue field that failed validation.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return fmt.Sprintf("invalid product field: %s", e.Field) }

func (e *FieldError) Is(target error) bool { return target == ErrInvalidField }
