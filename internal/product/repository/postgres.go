package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
	tx *postgres.Transactor
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db, tx: postgres.NewTransactor(db)}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := postgres.Conn(ctx, r.DB)

		_, err := q.NamedExecContext(ctx, `
            INSERT INTO products (
                id, name, description, manufacturer, dosage, price, dosage_form, quantity,
                reorder_threshold, expires_at, barcode, controlled, active, version, created_at
            ) VALUES (
                :id, :name, :description, :manufacturer, :dosage, :price, :dosage_form, :quantity,
                :reorder_threshold, :expires_at, :barcode, :controlled, :active, :version, :created_at
            )`, p)
		if err != nil {
			return err
		}

		for i := range p.Movements {
			_, err := q.NamedExecContext(ctx, `
                INSERT INTO product_movements (id, product_id, type, quantity, note, created_at)
                VALUES (:id, :product_id, :type, :quantity, :note, :created_at)`, &p.Movements[i])
			if err != nil {
				return err
			}
		}
		return nil
	})
	if postgres.IsUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var p model.Product
	q := postgres.Conn(ctx, r.DB)

	err := q.GetContext(ctx, &p, `
        SELECT id, name, description, manufacturer, dosage, price, dosage_form, quantity,
               reorder_threshold, expires_at, barcode, controlled, active, version, created_at
        FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p.Movements = []model.Movement{}
	err = q.SelectContext(ctx, &p.Movements, `
        SELECT id, product_id, type, quantity, note, created_at
        FROM product_movements WHERE product_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	q := postgres.Conn(ctx, r.DB)
	_, err := q.NamedExecContext(ctx, `
        UPDATE products SET
            name = :name,
            description = :description,
            manufacturer = :manufacturer,
            dosage = :dosage,
            price = :price,
            dosage_form = :dosage_form,
            reorder_threshold = :reorder_threshold,
            expires_at = :expires_at,
            barcode = :barcode,
            controlled = :controlled,
            active = :active
        WHERE id = :id`, p)
	if postgres.IsUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	q := postgres.Conn(ctx, r.DB)
	_, err := q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	q := postgres.Conn(ctx, r.DB)

	query := `SELECT count(*) FROM products WHERE barcode = $1`
	args := []interface{}{barcode}
	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}

	var count int
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}
