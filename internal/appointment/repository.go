package appointment

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, a *model.Appointment) error

	// FindByID returns nil, nil when the appointment does not exist.
	FindByID(ctx context.Context, id string) (*model.Appointment, error)

	// List returns appointments ordered by scheduled time. An empty userID lists all.
	List(ctx context.Context, userID string) ([]model.Appointment, error)

	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
}
