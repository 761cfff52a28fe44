package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Entry(c *gin.Context) {
	h.move(c, h.uc.RecordEntry)
}

func (h *InventoryHandler) Exit(c *gin.Context) {
	h.move(c, h.uc.RecordExit)
}

func (h *InventoryHandler) move(c *gin.Context, record func(ctx context.Context, input *dto.MovementInput) (*model.Product, error)) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	product, err := record(c.Request.Context(), &dto.MovementInput{
		ProductID: id,
		Quantity:  req.Quantity,
		Note:      req.Note,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	movements, err := h.uc.ListMovements(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *InventoryHandler) CriticalStock(c *gin.Context) {
	items, err := h.uc.CriticalStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(items) == 0 {
		response.Fail(c, http.StatusNotFound, i18n.MsgNoCriticalStock, nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CriticalExpiry(c *gin.Context) {
	items, err := h.uc.CriticalExpiry(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(items) == 0 {
		response.Fail(c, http.StatusNotFound, i18n.MsgNoCriticalExpiry, nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidQuantity):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidQuantity, nil)
	case errors.Is(err, inventory.ErrProductNotFound):
		response.Fail(c, http.StatusNotFound, i18n.MsgProductNotFound, nil)
	case errors.Is(err, inventory.ErrInsufficientStock):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInsufficientStock, nil)
	case errors.Is(err, inventory.ErrConcurrentUpdate):
		response.Fail(c, http.StatusConflict, i18n.MsgConcurrentUpdate, nil)
	default:
		h.logger.Error("inventory request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, i18n.MsgInternalError, nil)
	}
}
