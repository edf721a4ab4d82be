package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type MarketingDashboardHandlersParams struct {
	fx.In

	MarketingDashboardService *biz.MarketingDashboardService
}

func NewMarketingDashboardHandlers(params MarketingDashboardHandlersParams) *MarketingDashboardHandlers {
	return &MarketingDashboardHandlers{
		MarketingDashboardService: params.MarketingDashboardService,
	}
}

type MarketingDashboardHandlers struct {
	MarketingDashboardService *biz.MarketingDashboardService
}

func (h *MarketingDashboardHandlers) Analytics(c *gin.Context) {
	analytics, err := h.MarketingDashboardService.GetAnalytics(c.Request.Context(), c.DefaultQuery("period", "30d"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(analytics))
}

func (h *MarketingDashboardHandlers) Dashboard(c *gin.Context) {
	dashboard, err := h.MarketingDashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(dashboard))
}
