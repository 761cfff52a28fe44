package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"go.uber.org/zap"
)

type Options struct {
	ExpiryWindowDays   int
	MaxConflictRetries int
	Now                func() time.Time
}

type inventoryUseCase struct {
	repo      inventory.Repository
	tx        store.Transactor
	publisher events.Publisher
	opts      Options
	logger    logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, tx store.Transactor, publisher events.Publisher, opts Options, log logger.ZapLogger) inventory.UseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExpiryWindowDays <= 0 {
		opts.ExpiryWindowDays = 7
	}
	return &inventoryUseCase{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

func (uc *inventoryUseCase) RecordEntry(ctx context.Context, input *dto.MovementInput) (*model.Product, error) {
	return uc.adjust(ctx, input, model.MovementEntry)
}

func (uc *inventoryUseCase) RecordExit(ctx context.Context, input *dto.MovementInput) (*model.Product, error) {
	return uc.adjust(ctx, input, model.MovementExit)
}

func (uc *inventoryUseCase) adjust(ctx context.Context, input *dto.MovementInput, kind model.MovementType) (*model.Product, error) {
	if input.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	var (
		product *model.Product
		before  int
	)
	err := store.RetryOnConflict(ctx, uc.tx, uc.opts.MaxConflictRetries, func(ctx context.Context) error {
		// 1. Load current state
		p, err := uc.repo.GetProduct(ctx, input.ProductID)
		if err != nil {
			return store.Wrap("load product", err)
		}
		if p == nil {
			return &inventory.ProductNotFoundError{ProductID: input.ProductID}
		}
		before = p.Quantity

		// 2. Apply ledger rule
		m, err := inventory.Move(p, kind, input.Quantity, input.Note, uc.opts.Now().UTC())
		if err != nil {
			return err
		}

		// 3. Persist quantity + movement
		if err := uc.repo.ApplyMovement(ctx, p, m); err != nil {
			return store.Wrap("apply movement", err)
		}
		product = p
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			uc.logger.Warn("stock movement gave up after version conflicts", zap.String("product_id", input.ProductID))
			return nil, inventory.ErrConcurrentUpdate
		}
		return nil, err
	}

	if model.CrossedThreshold(before, product.Quantity, product.ReorderThreshold) {
		inventory.PublishLowStock(ctx, uc.publisher, uc.logger, product)
	}
	return product, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, productID string) ([]model.Movement, error) {
	movements, err := uc.repo.ListMovements(ctx, productID)
	if err != nil {
		return nil, store.Wrap("list movements", err)
	}
	if movements == nil {
		return nil, &inventory.ProductNotFoundError{ProductID: productID}
	}
	return movements, nil
}

func (uc *inventoryUseCase) CriticalStock(ctx context.Context) ([]model.Product, error) {
	items, err := uc.repo.ListCriticalStock(ctx)
	if err != nil {
		return nil, store.Wrap("list critical stock", err)
	}
	return items, nil
}

// CriticalExpiry lists products expiring from today through today + window days,
// both calendar days included, in UTC.
func (uc *inventoryUseCase) CriticalExpiry(ctx context.Context) ([]model.Product, error) {
	from, to := ExpiryWindow(uc.opts.Now(), uc.opts.ExpiryWindowDays)
	items, err := uc.repo.ListExpiring(ctx, from, to)
	if err != nil {
		return nil, store.Wrap("list expiring products", err)
	}
	return items, nil
}

// ExpiryWindow returns [00:00 today, 00:00 of today+days+1) in UTC.
func ExpiryWindow(now time.Time, days int) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, days+1)
}
