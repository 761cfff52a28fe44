package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-pharmacy-service/internal/appointment"
	"github.com/fekuna/omnipos-pharmacy-service/internal/appointment/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	uc     appointment.UseCase
	logger logger.ZapLogger
}

func NewAppointmentHandler(uc appointment.UseCase, log logger.ZapLogger) *AppointmentHandler {
	return &AppointmentHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req dto.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	input := &dto.AppointmentInput{Type: req.Type, Note: req.Note}
	input.Actor, _ = auth.ActorFromContext(c.Request.Context())
	if strings.TrimSpace(req.ScheduledAt) != "" {
		at, ok := dto.ParseDateTime(req.ScheduledAt)
		if !ok {
			response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
			return
		}
		input.ScheduledAt = at
	}

	a, err := h.uc.CreateAppointment(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err, i18n.MsgAppointmentCreateFailed)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	actor, _ := auth.ActorFromContext(c.Request.Context())

	items, err := h.uc.ListAppointments(c.Request.Context(), actor, c.Query("userId"))
	if err != nil {
		h.fail(c, err, i18n.MsgAppointmentListFailed)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	actor, _ := auth.ActorFromContext(c.Request.Context())
	a, err := h.uc.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		h.fail(c, err, i18n.MsgStatusUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AppointmentHandler) fail(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, appointment.ErrFieldsRequired):
		response.Fail(c, http.StatusBadRequest, i18n.MsgAppointmentFieldsRequired, nil)
	case errors.Is(err, appointment.ErrActorRequired):
		response.Fail(c, http.StatusBadRequest, i18n.MsgActorRequired, nil)
	case errors.Is(err, appointment.ErrInvalidType):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidAppointmentType, nil)
	case errors.Is(err, appointment.ErrInvalidStatus):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidStatus, nil)
	case errors.Is(err, appointment.ErrNotFound):
		response.Fail(c, http.StatusNotFound, i18n.MsgAppointmentNotFound, nil)
	default:
		h.logger.Error("appointment request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, internalMsg, nil)
	}
}
