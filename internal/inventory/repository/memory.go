package repository

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/hashicorp/go-memdb"
)

type MemRepository struct {
	db *store.MemDB
}

func NewMemRepository(db *store.MemDB) *MemRepository {
	return &MemRepository{db: db}
}

func (r *MemRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return r.db.Product(r.db.Read(ctx), id)
}

func (r *MemRepository) ApplyMovement(ctx context.Context, p *model.Product, m *model.Movement) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		current, err := txn.First(store.TableProduct, "id", p.ID)
		if err != nil {
			return err
		}
		if current == nil || current.(*model.Product).Version != p.Version {
			return store.ErrVersionConflict
		}

		next := *p
		next.Version++
		if err := r.db.PutProduct(txn, &next); err != nil {
			return err
		}
		if err := r.db.AppendMovement(txn, *m); err != nil {
			return err
		}

		p.Version = next.Version
		return nil
	})
}

func (r *MemRepository) ListMovements(ctx context.Context, productID string) ([]model.Movement, error) {
	txn := r.db.Read(ctx)
	raw, err := txn.First(store.TableProduct, "id", productID)
	if err != nil || raw == nil {
		return nil, err
	}
	return r.db.Movements(txn, productID)
}

func (r *MemRepository) ListCriticalStock(ctx context.Context) ([]model.Product, error) {
	items, err := r.db.Products(r.db.Read(ctx), (*model.Product).IsCriticalStock)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity < items[j].Quantity
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *MemRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	items, err := r.db.Products(r.db.Read(ctx), func(p *model.Product) bool {
		return p.ExpiresWithin(from, to)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ExpiresAt.Equal(*items[j].ExpiresAt) {
			return items[i].ExpiresAt.Before(*items[j].ExpiresAt)
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}
