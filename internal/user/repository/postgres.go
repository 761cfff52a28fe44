package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password, role, active, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, `
        INSERT INTO users (id, name, email, password, role, active, created_at)
        VALUES (:id, :name, :email, :password, :role, :active, :created_at)`, u)
	if postgres.IsUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	if err := postgres.Conn(ctx, r.DB).GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) Update(ctx context.Context, u *model.User) error {
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, `
        UPDATE users SET name = :name, email = :email, password = :password, role = :role, active = :active
        WHERE id = :id`, u)
	if postgres.IsUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
