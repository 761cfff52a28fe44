package repository

import (
	"context"
	"sort"

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

func (r *MemRepository) Create(ctx context.Context, s *model.Sale) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		stored := *s
		stored.Items = append([]model.SaleItem(nil), s.Items...)
		return txn.Insert(store.TableSale, &stored)
	})
}

func (r *MemRepository) FindAll(ctx context.Context) ([]model.Sale, error) {
	it, err := r.db.Read(ctx).Get(store.TableSale, "id")
	if err != nil {
		return nil, err
	}

	sales := []model.Sale{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		s := *raw.(*model.Sale)
		s.Items = append([]model.SaleItem{}, s.Items...)
		sales = append(sales, s)
	}
	sort.SliceStable(sales, func(i, j int) bool {
		if !sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].CreatedAt.After(sales[j].CreatedAt)
		}
		return sales[i].ID < sales[j].ID
	})
	return sales, nil
}
