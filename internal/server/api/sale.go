package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type SaleHandlersParams struct {
	fx.In

	SaleService *biz.SaleService
}

func NewSaleHandlers(params SaleHandlersParams) *SaleHandlers {
	return &SaleHandlers{
		SaleService: params.SaleService,
	}
}

type SaleHandlers struct {
	SaleService *biz.SaleService
}

func (h *SaleHandlers) CreateSale(c *gin.Context) {
	var req biz.CreateSaleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	sale, err := h.SaleService.CreateSale(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(sale))
}

func (h *SaleHandlers) ListSales(c *gin.Context) {
	var filters biz.SaleFilters

	if err := c.ShouldBindQuery(&filters); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid filter"))
		return
	}

	sales, err := h.SaleService.ListSales(c.Request.Context(), filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(sales))
}

func (h *SaleHandlers) GetSale(c *gin.Context) {
	sale, err := h.SaleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(sale))
}

func (h *SaleHandlers) UpdateSale(c *gin.Context) {
	var req biz.UpdateSaleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	sale, err := h.SaleService.UpdateSale(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(sale))
}

type UpdateSaleStatusRequest struct {
	Status models.SaleStatus `json:"status" binding:"required"`
}

func (h *SaleHandlers) UpdateSaleStatus(c *gin.Context) {
	var req UpdateSaleStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	sale, err := h.SaleService.UpdateSaleStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(sale))
}

func (h *SaleHandlers) UpdateSalePayment(c *gin.Context) {
	var req biz.UpdateSalePaymentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	sale, err := h.SaleService.UpdateSalePayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(sale))
}

type AssignSaleRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *SaleHandlers) AssignSale(c *gin.Context) {
	var req AssignSaleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	sale, err := h.SaleService.AssignSale(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(sale))
}

func (h *SaleHandlers) DeleteSale(c *gin.Context) {
	if err := h.SaleService.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OKMessage("sale deleted", nil))
}

type saleStatsQuery struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

func (h *SaleHandlers) GetSaleStats(c *gin.Context) {
	var query saleStatsQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid date filter"))
		return
	}

	stats, err := h.SaleService.GetSaleStats(c.Request.Context(), query.StartDate, query.EndDate)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(stats))
}
