package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, name, description, manufacturer, dosage, price, dosage_form, quantity,
    reorder_threshold, expires_at, barcode, controlled, active, version, created_at`

const movementColumns = `id, product_id, type, quantity, note, created_at`

type PGRepository struct {
	DB *sqlx.DB
	tx *postgres.Transactor
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db, tx: postgres.NewTransactor(db)}
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	// ids are uuid columns; a malformed id would abort the surrounding tx
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var p model.Product
	q := postgres.Conn(ctx, r.DB)

	err := q.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if p.Movements, err = r.movements(ctx, q, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ApplyMovement(ctx context.Context, p *model.Product, m *model.Movement) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := postgres.Conn(ctx, r.DB)

		res, err := q.ExecContext(ctx, `
            UPDATE products SET quantity = $1, version = version + 1
            WHERE id = $2 AND version = $3`, p.Quantity, p.ID, p.Version)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrVersionConflict
		}

		_, err = q.NamedExecContext(ctx, `
            INSERT INTO product_movements (id, product_id, type, quantity, note, created_at)
            VALUES (:id, :product_id, :type, :quantity, :note, :created_at)`, m)
		if err != nil {
			return err
		}

		p.Version++
		return nil
	})
}

func (r *PGRepository) ListMovements(ctx context.Context, productID string) ([]model.Movement, error) {
	q := postgres.Conn(ctx, r.DB)

	var exists bool
	if err := q.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID); err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return r.movements(ctx, q, productID)
}

func (r *PGRepository) ListCriticalStock(ctx context.Context) ([]model.Product, error) {
	return r.selectProducts(ctx, `SELECT `+productColumns+` FROM products
        WHERE active AND quantity <= reorder_threshold
        ORDER BY quantity ASC, name ASC`)
}

func (r *PGRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	return r.selectProducts(ctx, `SELECT `+productColumns+` FROM products
        WHERE expires_at >= $1 AND expires_at < $2
        ORDER BY expires_at ASC, name ASC`, from, to)
}

func (r *PGRepository) selectProducts(ctx context.Context, query string, args ...interface{}) ([]model.Product, error) {
	q := postgres.Conn(ctx, r.DB)

	var items []model.Product
	if err := q.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
		items[i].Movements = []model.Movement{}
	}

	query, args, err := sqlx.In(`SELECT `+movementColumns+` FROM product_movements
        WHERE product_id IN (?) ORDER BY seq`, ids)
	if err != nil {
		return nil, err
	}

	var movements []model.Movement
	if err := q.SelectContext(ctx, &movements, q.Rebind(query), args...); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(items))
	for i := range items {
		index[items[i].ID] = i
	}
	for _, m := range movements {
		i := index[m.ProductID]
		items[i].Movements = append(items[i].Movements, m)
	}
	return items, nil
}

func (r *PGRepository) movements(ctx context.Context, q postgres.Querier, productID string) ([]model.Movement, error) {
	out := []model.Movement{}
	err := q.SelectContext(ctx, &out, `SELECT `+movementColumns+` FROM product_movements
        WHERE product_id = $1 ORDER BY seq`, productID)
	return out, err
}
