package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-pharmacy-service/internal/product"
	"github.com/fekuna/omnipos-pharmacy-service/internal/product/dto"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	input := &dto.CreateProductInput{
		Description:      req.Description,
		Manufacturer:     req.Manufacturer,
		Dosage:           req.Dosage,
		Price:            req.Price,
		ReorderThreshold: req.ReorderThreshold,
		Barcode:          req.Barcode,
		Active:           req.Active,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.DosageForm != nil {
		input.DosageForm = *req.DosageForm
	}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}
	if req.Controlled != nil {
		input.Controlled = *req.Controlled
	}
	if req.ExpiresAt != nil {
		t, ok := dto.ParseDate(*req.ExpiresAt)
		if !ok {
			response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidProductField, map[string]any{"Field": "validade"})
			return
		}
		input.ExpiresAt = &t
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": response.Message(c, i18n.MsgProductCreated, nil),
		"product": p,
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	p, err := h.uc.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidBody, nil)
		return
	}

	input := &dto.UpdateProductInput{
		ID:               id,
		Name:             req.Name,
		Description:      req.Description,
		Manufacturer:     req.Manufacturer,
		Dosage:           req.Dosage,
		Price:            req.Price,
		DosageForm:       req.DosageForm,
		ReorderThreshold: req.ReorderThreshold,
		Barcode:          req.Barcode,
		Controlled:       req.Controlled,
		Active:           req.Active,
	}
	if req.ExpiresAt != nil {
		t, ok := dto.ParseDate(*req.ExpiresAt)
		if !ok {
			response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidProductField, map[string]any{"Field": "validade"})
			return
		}
		input.ExpiresAt = &t
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": response.Message(c, i18n.MsgProductUpdated, nil),
		"product": p,
	})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := response.ID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": response.Message(c, i18n.MsgProductDeleted, nil)})
}

func (h *ProductHandler) fail(c *gin.Context, err error) {
	var fieldErr *product.FieldError
	switch {
	case errors.Is(err, product.ErrNotFound):
		response.Fail(c, http.StatusNotFound, i18n.MsgProductNotFound, nil)
	case errors.Is(err, product.ErrNameAndPriceRequired):
		response.Fail(c, http.StatusBadRequest, i18n.MsgNameAndPriceRequired, nil)
	case errors.Is(err, product.ErrNegativePrice):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidPrice, nil)
	case errors.As(err, &fieldErr):
		response.Fail(c, http.StatusBadRequest, i18n.MsgInvalidProductField, map[string]any{"Field": fieldErr.Field})
	case errors.Is(err, product.ErrBarcodeTaken):
		response.Fail(c, http.StatusConflict, i18n.MsgBarcodeTaken, nil)
	default:
		h.logger.Error("product request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, i18n.MsgInternalError, nil)
	}
}
