package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type QuotationHandlersParams struct {
	fx.In

	QuotationService *biz.QuotationService
}

func NewQuotationHandlers(params QuotationHandlersParams) *QuotationHandlers {
	return &QuotationHandlers{
		QuotationService: params.QuotationService,
	}
}

type QuotationHandlers struct {
	QuotationService *biz.QuotationService
}

func (h *QuotationHandlers) CreateQuotation(c *gin.Context) {
	var req biz.CreateQuotationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	quotation, err := h.QuotationService.CreateQuotation(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(quotation))
}

func (h *QuotationHandlers) ListQuotations(c *gin.Context) {
	quotations, err := h.QuotationService.ListQuotations(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(quotations))
}

func (h *QuotationHandlers) GetQuotation(c *gin.Context) {
	quotation, err := h.QuotationService.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(quotation))
}

type UpdateQuotationStatusRequest struct {
	Status models.QuotationStatus `json:"status" binding:"required"`
}

func (h *QuotationHandlers) UpdateQuotationStatus(c *gin.Context) {
	var req UpdateQuotationStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	quotation, err := h.QuotationService.UpdateQuotationStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(quotation))
}
