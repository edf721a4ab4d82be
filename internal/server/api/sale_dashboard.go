package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type SaleDashboardHandlersParams struct {
	fx.In

	SaleDashboardService *biz.SaleDashboardService
}

func NewSaleDashboardHandlers(params SaleDashboardHandlersParams) *SaleDashboardHandlers {
	return &SaleDashboardHandlers{
		SaleDashboardService: params.SaleDashboardService,
	}
}

type SaleDashboardHandlers struct {
	SaleDashboardService *biz.SaleDashboardService
}

func bindSaleFilters(c *gin.Context) (biz.SaleFilters, bool) {
	var filters biz.SaleFilters

	if err := c.ShouldBindQuery(&filters); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid filter"))
		return filters, false
	}

	return filters, true
}

func (h *SaleDashboardHandlers) Dashboard(c *gin.Context) {
	filters, ok := bindSaleFilters(c)
	if !ok {
		return
	}

	dashboard, err := h.SaleDashboardService.GetDashboard(c.Request.Context(), filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(dashboard))
}

func (h *SaleDashboardHandlers) Trends(c *gin.Context) {
	filters, ok := bindSaleFilters(c)
	if !ok {
		return
	}

	period := biz.TrendPeriod(c.DefaultQuery("period", string(biz.TrendPeriodDaily)))

	trends, err := h.SaleDashboardService.GetTrends(c.Request.Context(), period, filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(trends))
}

func limitQuery(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(fallback)))
	if err != nil || limit <= 0 {
		return fallback
	}

	return limit
}

func (h *SaleDashboardHandlers) TopProducts(c *gin.Context) {
	filters, ok := bindSaleFilters(c)
	if !ok {
		return
	}

	products, err := h.SaleDashboardService.GetTopProducts(c.Request.Context(), filters, limitQuery(c, 10))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(products))
}

func (h *SaleDashboardHandlers) TopCustomers(c *gin.Context) {
	filters, ok := bindSaleFilters(c)
	if !ok {
		return
	}

	customers, err := h.SaleDashboardService.GetTopCustomers(c.Request.Context(), filters, limitQuery(c, 10))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(customers))
}

func (h *SaleDashboardHandlers) Performance(c *gin.Context) {
	filters, ok := bindSaleFilters(c)
	if !ok {
		return
	}

	performance, err := h.SaleDashboardService.GetPerformance(c.Request.Context(), filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(performance))
}

func (h *SaleDashboardHandlers) PendingDeliveries(c *gin.Context) {
	deliveries, err := h.SaleDashboardService.GetPendingDeliveries(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(deliveries))
}
