package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name             string
	Description      *string
	Manufacturer     *string
	Dosage           *string
	Price            *decimal.Decimal
	DosageForm       string
	Quantity         int
	ReorderThreshold *int
	ExpiresAt        *time.Time
	Barcode          *string
	Controlled       bool
	Active           *bool
}

// UpdateProductInput carries only the fields present in the request.
type UpdateProductInput struct {
	ID               string
	Name             *string
	Description      *string
	Manufacturer     *string
	Dosage           *string
	Price            *decimal.Decimal
	DosageForm       *string
	ReorderThreshold *int
	ExpiresAt        *time.Time
	Barcode          *string
	Controlled       *bool
	Active           *bool
}
