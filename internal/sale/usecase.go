package sale

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/dto"
)

type UseCase interface {
	RegisterSale(ctx context.Context, input *dto.RegisterSaleInput) (*model.Sale, error)
	ListSales(ctx context.Context) ([]model.Sale, error)
}

// IdempotencyStore claims request keys for a limited time.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
