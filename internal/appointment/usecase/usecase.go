package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/appointment"
	"github.com/fekuna/omnipos-pharmacy-service/internal/appointment/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type appointmentUseCase struct {
	repo   appointment.Repository
	now    func() time.Time
	logger logger.ZapLogger
}

func NewAppointmentUseCase(repo appointment.Repository, now func() time.Time, log logger.ZapLogger) appointment.UseCase {
	if now == nil {
		now = time.Now
	}
	return &appointmentUseCase{
		repo:   repo,
		now:    now,
		logger: log,
	}
}

func (uc *appointmentUseCase) CreateAppointment(ctx context.Context, input *dto.AppointmentInput) (*model.Appointment, error) {
	if input.ScheduledAt.IsZero() || strings.TrimSpace(input.Type) == "" {
		return nil, appointment.ErrFieldsRequired
	}
	if input.Actor.ID == "" || input.Actor.Name == "" {
		return nil, appointment.ErrActorRequired
	}
	kind := model.AppointmentType(strings.TrimSpace(input.Type))
	if !kind.Valid() {
		return nil, appointment.ErrInvalidType
	}

	a := &model.Appointment{
		ID:          uuid.New().String(),
		UserName:    input.Actor.Name,
		UserID:      input.Actor.ID,
		ScheduledAt: input.ScheduledAt.UTC(),
		Type:        kind,
		Note:        strings.TrimSpace(input.Note),
		Status:      model.StatusPending,
		CreatedAt:   uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, store.Wrap("create appointment", err)
	}

	uc.logger.Info("appointment created", zap.String("appointment_id", a.ID), zap.String("user_id", a.UserID))
	return a, nil
}

// ListAppointments shows a USER only their own appointments. Admins see all of
// them, or one user's when userID is set.
func (uc *appointmentUseCase) ListAppointments(ctx context.Context, actor auth.Actor, userID string) ([]model.Appointment, error) {
	if !actor.IsAdmin() {
		userID = actor.ID
	}
	items, err := uc.repo.List(ctx, userID)
	if err != nil {
		return nil, store.Wrap("list appointments", err)
	}
	return items, nil
}

// UpdateStatus lets admins change any appointment and users change their own.
// Someone else's appointment is reported as not found.
func (uc *appointmentUseCase) UpdateStatus(ctx context.Context, actor auth.Actor, id string, status string) (*model.Appointment, error) {
	s := model.AppointmentStatus(strings.TrimSpace(status))
	if !s.Valid() {
		return nil, appointment.ErrInvalidStatus
	}

	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.Wrap("find appointment", err)
	}
	if a == nil || (!actor.IsAdmin() && a.UserID != actor.ID) {
		return nil, appointment.ErrNotFound
	}

	if err := uc.repo.UpdateStatus(ctx, id, s); err != nil {
		return nil, store.Wrap("update appointment status", err)
	}
	a.Status = s
	return a, nil
}
