package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/user"
	"github.com/fekuna/omnipos-pharmacy-service/internal/user/dto"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: log,
	}
}

// CreateUser is public; only an authenticated admin may pick a role other than USER.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	actor, _ := auth.ActorFromContext(c.Request.Context())
	if req.Role != "" && model.Role(strings.ToUpper(req.Role)) != model.RoleUser && !actor.IsAdmin() {
		response.Fail(c, http.StatusForbidden, i18n.MsgForbidden, nil)
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), &dto.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), &dto.UserInput{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": response.Message(c, i18n.MsgUserDeleted, nil)})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	res, err := h.uc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: response.Message(c, i18n.MsgLoginSuccess, nil),
		User: dto.LoginUser{
			ID:    res.User.ID,
			Email: res.User.Email,
			Role:  res.User.Role,
		},
		Token: res.Token,
	})
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		response.Fail(c, http.StatusNotFound, i18n.MsgUserNotFound, nil)
	case errors.Is(err, user.ErrFieldsRequired):
		response.Fail(c, http.StatusBadRequest, i18n.MsgUserFieldsRequired, nil)
	case errors.Is(err, user.ErrPasswordTooShort):
		response.Fail(c, http.StatusBadRequest, i18n.MsgPasswordTooShort, nil)
	case errors.Is(err, user.ErrInvalidRole):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidRole, nil)
	case errors.Is(err, user.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, i18n.MsgEmailTaken, nil)
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, i18n.MsgInvalidCredentials, nil)
	default:
		h.logger.Error("user request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, i18n.MsgInternalError, nil)
	}
}
