package product

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type Repository interface {
	// Create stores the product together with its initial ledger.
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// Update writes catalogue fields only. Quantity, version and ledger are left alone.
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error)
}
