package repository

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const saleColumns = `id, actor_id, actor_name, actor_role, total, created_at`

const itemColumns = `sale_id, position, product_id, name, unit_price, quantity, subtotal`

type PGRepository struct {
	DB *sqlx.DB
	tx *postgres.Transactor
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db, tx: postgres.NewTransactor(db)}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Sale) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := postgres.Conn(ctx, r.DB)

		_, err := q.NamedExecContext(ctx, `
            INSERT INTO sales (`+saleColumns+`)
            VALUES (:id, :actor_id, :actor_name, :actor_role, :total, :created_at)`, s)
		if err != nil {
			return err
		}
		if len(s.Items) == 0 {
			return nil
		}

		_, err = q.NamedExecContext(ctx, `
            INSERT INTO sale_items (`+itemColumns+`)
            VALUES (:sale_id, :position, :product_id, :name, :unit_price, :quantity, :subtotal)`, s.Items)
		return err
	})
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Sale, error) {
	q := postgres.Conn(ctx, r.DB)

	sales := []model.Sale{}
	if err := q.SelectContext(ctx, &sales, `SELECT `+saleColumns+` FROM sales
        ORDER BY created_at DESC, id`); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]string, len(sales))
	index := make(map[string]int, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
		index[sales[i].ID] = i
		sales[i].Items = []model.SaleItem{}
	}

	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM sale_items
        WHERE sale_id IN (?) ORDER BY sale_id, position`, ids)
	if err != nil {
		return nil, err
	}

	var items []model.SaleItem
	if err := q.SelectContext(ctx, &items, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, it := range items {
		i := index[it.SaleID]
		sales[i].Items = append(sales[i].Items, it)
	}
	return sales, nil
}
