package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/product"
	"github.com/fekuna/omnipos-pharmacy-service/internal/product/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const initialStockNote = "Estoque inicial"

type Options struct {
	DefaultReorderThreshold int
	Now                     func() time.Time
}

type productUseCase struct {
	repo   product.Repository
	opts   Options
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, opts Options, log logger.ZapLogger) product.UseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultReorderThreshold <= 0 {
		opts.DefaultReorderThreshold = model.DefaultReorderThreshold
	}
	return &productUseCase{
		repo:   repo,
		opts:   opts,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price == nil {
		return nil, product.ErrNameAndPriceRequired
	}
	if input.Price.IsNegative() {
		return nil, product.ErrNegativePrice
	}
	if input.Quantity < 0 {
		return nil, &product.FieldError{Field: "quantidadeEmEstoque"}
	}

	form := model.FormOther
	if input.DosageForm != "" {
		form = model.DosageForm(input.DosageForm)
		if !form.Valid() {
			return nil, &product.FieldError{Field: "formaFarmaceutica"}
		}
	}

	threshold := uc.opts.DefaultReorderThreshold
	if input.ReorderThreshold != nil {
		if *input.ReorderThreshold < 0 {
			return nil, &product.FieldError{Field: "alertaMinimo"}
		}
		threshold = *input.ReorderThreshold
	}

	barcode := normalizeBarcode(input.Barcode)
	if err := uc.ensureBarcodeUnique(ctx, barcode, ""); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := uc.opts.Now().UTC()
	p := &model.Product{
		ID:               uuid.New().String(),
		Name:             name,
		Description:      input.Description,
		Manufacturer:     input.Manufacturer,
		Dosage:           input.Dosage,
		Price:            *input.Price,
		DosageForm:       form,
		ReorderThreshold: threshold,
		ExpiresAt:        input.ExpiresAt,
		Barcode:          barcode,
		Controlled:       input.Controlled,
		Active:           active,
		Version:          1,
		CreatedAt:        now,
		Movements:        []model.Movement{},
	}

	// Opening stock goes through the ledger like any other entry.
	if input.Quantity > 0 {
		if _, err := p.Receive(uuid.New().String(), input.Quantity, initialStockNote, now); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, product.ErrBarcodeTaken
		}
		return nil, store.Wrap("create product", err)
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.Int("quantity", p.Quantity))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.Wrap("find product", err)
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, product.ErrNameAndPriceRequired
		}
		p.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, product.ErrNegativePrice
		}
		p.Price = *input.Price
	}
	if input.DosageForm != nil {
		form := model.DosageForm(*input.DosageForm)
		if !form.Valid() {
			return nil, &product.FieldError{Field: "formaFarmaceutica"}
		}
		p.DosageForm = form
	}
	if input.ReorderThreshold != nil {
		if *input.ReorderThreshold < 0 {
			return nil, &product.FieldError{Field: "alertaMinimo"}
		}
		p.ReorderThreshold = *input.ReorderThreshold
	}
	if input.Barcode != nil {
		barcode := normalizeBarcode(input.Barcode)
		if err := uc.ensureBarcodeUnique(ctx, barcode, p.ID); err != nil {
			return nil, err
		}
		p.Barcode = barcode
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Manufacturer != nil {
		p.Manufacturer = input.Manufacturer
	}
	if input.Dosage != nil {
		p.Dosage = input.Dosage
	}
	if input.ExpiresAt != nil {
		p.ExpiresAt = input.ExpiresAt
	}
	if input.Controlled != nil {
		p.Controlled = *input.Controlled
	}
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, product.ErrBarcodeTaken
		}
		return nil, store.Wrap("update product", err)
	}
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uc.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return store.Wrap("delete product", err)
	}

	uc.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (uc *productUseCase) ensureBarcodeUnique(ctx context.Context, barcode *string, excludeID string) error {
	if barcode == nil {
		return nil
	}
	unique, err := uc.repo.IsBarcodeUnique(ctx, *barcode, excludeID)
	if err != nil {
		return store.Wrap("check barcode", err)
	}
	if !unique {
		return product.ErrBarcodeTaken
	}
	return nil
}

// normalizeBarcode maps blank barcodes to nil so they never collide.
func normalizeBarcode(b *string) *string {
	if b == nil {
		return nil
	}
	v := strings.TrimSpace(*b)
	if v == "" {
		return nil
	}
	return &v
}
