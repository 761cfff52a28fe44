package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultIdempotencyTTL = 24 * time.Hour

type Options struct {
	MaxConflictRetries int
	IdempotencyTTL     time.Duration
	Now                func() time.Time
}

type saleUseCase struct {
	sales       sale.Repository
	products    inventory.Repository
	tx          store.Transactor
	publisher   events.Publisher
	idempotency sale.IdempotencyStore
	opts        Options
	logger      logger.ZapLogger
}

// NewSaleUseCase wires the sale engine. idempotency may be nil, which disables
// Idempotency-Key handling.
func NewSaleUseCase(
	sales sale.Repository,
	products inventory.Repository,
	tx store.Transactor,
	publisher events.Publisher,
	idempotency sale.IdempotencyStore,
	opts Options,
	log logger.ZapLogger,
) sale.UseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = defaultIdempotencyTTL
	}
	return &saleUseCase{
		sales:       sales,
		products:    products,
		tx:          tx,
		publisher:   publisher,
		idempotency: idempotency,
		opts:        opts,
		logger:      log,
	}
}

func (uc *saleUseCase) RegisterSale(ctx context.Context, input *dto.RegisterSaleInput) (*model.Sale, error) {
	// 1. Validate request
	if input.Actor.ID == "" || strings.TrimSpace(input.Actor.Name) == "" {
		return nil, sale.ErrActorRequired
	}
	if len(input.Items) == 0 {
		return nil, sale.ErrEmptyCart
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, inventory.ErrInvalidQuantity
		}
	}

	// 2. Claim idempotency key
	key, err := uc.reserve(ctx, input)
	if err != nil {
		return nil, err
	}

	// 3. Decrement stock and persist the sale in one transaction
	s, low, err := uc.register(ctx, input)
	if err != nil {
		if key != "" {
			if relErr := uc.idempotency.Release(ctx, key); relErr != nil {
				uc.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
		}
		if errors.Is(err, store.ErrVersionConflict) {
			uc.logger.Warn("sale gave up after version conflicts", zap.String("actor_id", input.Actor.ID))
			return nil, inventory.ErrConcurrentUpdate
		}
		return nil, err
	}

	uc.logger.Info("sale registered",
		zap.String("sale_id", s.ID),
		zap.String("actor_id", s.ActorID),
		zap.Int("items", len(s.Items)),
		zap.String("total", s.Total.StringFixed(2)),
	)

	// 4. Publish events
	uc.publishSale(ctx, s)
	for _, p := range low {
		inventory.PublishLowStock(ctx, uc.publisher, uc.logger, p)
	}
	return s, nil
}

// reserve returns the claimed key, or "" when no key applies. A store outage
// lets the sale through unprotected.
func (uc *saleUseCase) reserve(ctx context.Context, input *dto.RegisterSaleInput) (string, error) {
	if input.IdempotencyKey == "" || uc.idempotency == nil {
		return "", nil
	}

	key := fmt.Sprintf("sale:idempotency:%s:%s", input.Actor.ID, input.IdempotencyKey)
	ok, err := uc.idempotency.Reserve(ctx, key, uc.opts.IdempotencyTTL)
	if err != nil {
		uc.logger.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
		return "", nil
	}
	if !ok {
		return "", sale.ErrDuplicateRequest
	}
	return key, nil
}

func (uc *saleUseCase) register(ctx context.Context, input *dto.RegisterSaleInput) (*model.Sale, []*model.Product, error) {
	var (
		result *model.Sale
		low    []*model.Product
	)
	err := store.RetryOnConflict(ctx, uc.tx, uc.opts.MaxConflictRetries, func(ctx context.Context) error {
		now := uc.opts.Now().UTC()
		s := &model.Sale{
			ID:        uuid.New().String(),
			ActorName: input.Actor.Name,
			ActorID:   input.Actor.ID,
			ActorRole: string(input.Actor.Role),
			Items:     make([]model.SaleItem, 0, len(input.Items)),
			Total:     decimal.Zero,
			CreatedAt: now,
		}
		low = low[:0]
		note := "Venda para " + input.Actor.Name

		for _, line := range input.Items {
			p, err := uc.products.GetProduct(ctx, line.ProductID)
			if err != nil {
				return store.Wrap("load product", err)
			}
			if p == nil {
				return &inventory.ProductNotFoundError{ProductID: line.ProductID}
			}
			before := p.Quantity

			m, err := inventory.Move(p, model.MovementExit, line.Quantity, note, now)
			if err != nil {
				return err
			}
			if err := uc.products.ApplyMovement(ctx, p, m); err != nil {
				return store.Wrap("apply movement", err)
			}

			s.AddItem(p.ID, p.Name, p.Price, line.Quantity)
			if model.CrossedThreshold(before, p.Quantity, p.ReorderThreshold) {
				low = append(low, p)
			}
		}

		if err := uc.sales.Create(ctx, s); err != nil {
			return store.Wrap("create sale", err)
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, low, nil
}

func (uc *saleUseCase) publishSale(ctx context.Context, s *model.Sale) {
	items := make([]events.SaleItemPayload, len(s.Items))
	for i, it := range s.Items {
		items[i] = events.SaleItemPayload{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	err := uc.publisher.Publish(ctx, s.ID, events.TypeSaleRegistered, events.SaleRegisteredPayload{
		SaleID:  s.ID,
		ActorID: s.ActorID,
		Total:   s.Total.String(),
		Items:   items,
	})
	if err != nil {
		uc.logger.Error("failed to publish sale event", zap.String("sale_id", s.ID), zap.Error(err))
	}
}

func (uc *saleUseCase) ListSales(ctx context.Context) ([]model.Sale, error) {
	sales, err := uc.sales.FindAll(ctx)
	if err != nil {
		return nil, store.Wrap("list sales", err)
	}
	return sales, nil
}
