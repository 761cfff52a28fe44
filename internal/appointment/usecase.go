package appointment

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/appointment/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type UseCase interface {
	CreateAppointment(ctx context.Context, input *dto.AppointmentInput) (*model.Appointment, error)
	ListAppointments(ctx context.Context, actor auth.Actor, userID string) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id string, status string) (*model.Appointment, error)
}
