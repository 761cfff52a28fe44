package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/dto"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const idempotencyHeader = "Idempotency-Key"

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterSale records the sale on behalf of the authenticated actor. Identity
// fields in the body are ignored.
func (h *SaleHandler) RegisterSale(c *gin.Context) {
	var req dto.RegisterSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	actor, _ := auth.ActorFromContext(c.Request.Context())
	lines := make([]dto.CartLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = dto.CartLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	s, err := h.uc.RegisterSale(c.Request.Context(), &dto.RegisterSaleInput{
		Actor:          actor,
		Items:          lines,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyHeader)),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	sales, err := h.uc.ListSales(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list sales", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, i18n.MsgSalesListFailed, nil)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) fail(c *gin.Context, err error) {
	var (
		notFound     *inventory.ProductNotFoundError
		insufficient *inventory.InsufficientStockError
	)
	switch {
	case errors.Is(err, sale.ErrActorRequired):
		response.Fail(c, http.StatusBadRequest, i18n.MsgActorRequired, nil)
	case errors.Is(err, sale.ErrEmptyCart):
		response.Fail(c, http.StatusBadRequest, i18n.MsgEmptyCart, nil)
	case errors.Is(err, inventory.ErrInvalidQuantity):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidQuantity, nil)
	case errors.As(err, &notFound):
		response.Fail(c, http.StatusBadRequest, i18n.MsgSaleProductNotFound, map[string]any{"ProductID": notFound.ProductID})
	case errors.As(err, &insufficient):
		response.Fail(c, http.StatusBadRequest, i18n.MsgSaleInsufficientStock, map[string]any{
			"ProductName": insufficient.ProductName,
			"Available":   insufficient.Available,
		})
	case errors.Is(err, sale.ErrDuplicateRequest):
		response.Fail(c, http.StatusConflict, i18n.MsgDuplicateRequest, nil)
	case errors.Is(err, inventory.ErrConcurrentUpdate):
		response.Fail(c, http.StatusConflict, i18n.MsgConcurrentUpdate, nil)
	default:
		h.logger.Error("failed to register sale", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, i18n.MsgSaleInternal, nil)
	}
}
