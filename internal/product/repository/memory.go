package repository

import (
	"context"

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

func (r *MemRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		taken, err := barcodeTaken(txn, p)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrDuplicate
		}
		if err := r.db.PutProduct(txn, p); err != nil {
			return err
		}
		for _, m := range p.Movements {
			if err := r.db.AppendMovement(txn, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MemRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.db.Product(r.db.Read(ctx), id)
}

func (r *MemRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		raw, err := txn.First(store.TableProduct, "id", p.ID)
		if err != nil || raw == nil {
			return err
		}
		taken, err := barcodeTaken(txn, p)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrDuplicate
		}

		current := raw.(*model.Product)
		next := *p
		next.Quantity = current.Quantity
		next.Version = current.Version
		next.CreatedAt = current.CreatedAt
		return r.db.PutProduct(txn, &next)
	})
}

func (r *MemRepository) Delete(ctx context.Context, id string) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		raw, err := txn.First(store.TableProduct, "id", id)
		if err != nil || raw == nil {
			return err
		}
		return r.db.DeleteProduct(txn, id)
	})
}

func (r *MemRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	raw, err := r.db.Read(ctx).First(store.TableProduct, "barcode", barcode)
	if err != nil {
		return false, err
	}
	return raw == nil || raw.(*model.Product).ID == excludeID, nil
}

// barcodeTaken enforces uniqueness, which go-memdb indexes do not check on insert.
func barcodeTaken(txn *memdb.Txn, p *model.Product) (bool, error) {
	if p.Barcode == nil {
		return false, nil
	}
	raw, err := txn.First(store.TableProduct, "barcode", *p.Barcode)
	if err != nil {
		return false, err
	}
	return raw != nil && raw.(*model.Product).ID != p.ID, nil
}
