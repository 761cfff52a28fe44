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

func (r *MemRepository) Create(ctx context.Context, u *model.User) error {
	return r.put(ctx, u)
}

func (r *MemRepository) Update(ctx context.Context, u *model.User) error {
	return r.put(ctx, u)
}

func (r *MemRepository) put(ctx context.Context, u *model.User) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		raw, err := txn.First(store.TableUser, "email", u.Email)
		if err != nil {
			return err
		}
		if raw != nil && raw.(*model.User).ID != u.ID {
			return store.ErrDuplicate
		}
		cp := *u
		return txn.Insert(store.TableUser, &cp)
	})
}

func (r *MemRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id", id)
}

func (r *MemRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email", email)
}

func (r *MemRepository) first(ctx context.Context, index, value string) (*model.User, error) {
	raw, err := r.db.Read(ctx).First(store.TableUser, index, value)
	if err != nil || raw == nil {
		return nil, err
	}
	u := *raw.(*model.User)
	return &u, nil
}

func (r *MemRepository) Delete(ctx context.Context, id string) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		raw, err := txn.First(store.TableUser, "id", id)
		if err != nil || raw == nil {
			return err
		}
		return txn.Delete(store.TableUser, raw)
	})
}
