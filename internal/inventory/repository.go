package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type Repository interface {
	// GetProduct returns nil, nil when the product does not exist.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// ApplyMovement stores p.Quantity and appends m as one unit, provided the stored
	// version still equals p.Version. On success p.Version is advanced; otherwise
	// store.ErrVersionConflict is returned and nothing is written.
	ApplyMovement(ctx context.Context, p *model.Product, m *model.Movement) error

	// ListMovements returns the ledger oldest first, or nil when the product is absent.
	ListMovements(ctx context.Context, productID string) ([]model.Movement, error)

	ListCriticalStock(ctx context.Context) ([]model.Product, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]model.Product, error)
}
