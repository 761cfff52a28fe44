package inventory

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type UseCase interface {
	RecordEntry(ctx context.Context, input *dto.MovementInput) (*model.Product, error)
	RecordExit(ctx context.Context, input *dto.MovementInput) (*model.Product, error)
	ListMovements(ctx context.Context, productID string) ([]model.Movement, error)
	CriticalStock(ctx context.Context) ([]model.Product, error)
	CriticalExpiry(ctx context.Context) ([]model.Product, error)
}
