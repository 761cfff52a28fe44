package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const appointmentColumns = `id, user_id, user_name, scheduled_at, type, note, status, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.Appointment) error {
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, `
        INSERT INTO appointments (`+appointmentColumns+`)
        VALUES (:id, :user_id, :user_name, :scheduled_at, :type, :note, :status, :created_at)`, a)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &a, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY scheduled_at ASC, id`

	items := []model.Appointment{}
	if err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	return err
}
