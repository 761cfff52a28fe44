package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Move applies one movement of kind to p and translates ledger rule violations
// into inventory errors.
func Move(p *model.Product, kind model.MovementType, qty int, note string, at time.Time) (*model.Movement, error) {
	var (
		m   *model.Movement
		err error
	)
	available := p.Quantity
	if kind == model.MovementEntry {
		m, err = p.Receive(uuid.New().String(), qty, note, at)
	} else {
		m, err = p.Withdraw(uuid.New().String(), qty, note, at)
	}

	switch {
	case errors.Is(err, model.ErrNonPositiveQuantity), errors.Is(err, model.ErrStockOverflow):
		return nil, ErrInvalidQuantity
	case errors.Is(err, model.ErrNotEnoughStock):
		return nil, &InsufficientStockError{ProductName: p.Name, Available: available, Requested: qty}
	case err != nil:
		return nil, err
	}
	return m, nil
}

// PublishLowStock emits a LowStock event. Failures are only logged.
func PublishLowStock(ctx context.Context, pub events.Publisher, log logger.ZapLogger, p *model.Product) {
	err := pub.Publish(ctx, p.ID, events.TypeLowStock, events.LowStockPayload{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Threshold: p.ReorderThreshold,
	})
	if err != nil {
		log.Error("failed to publish low stock event", zap.String("product_id", p.ID), zap.Error(err))
	}
}
