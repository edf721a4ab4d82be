package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type DashboardHandlersParams struct {
	fx.In

	DashboardService *biz.DashboardService
}

func NewDashboardHandlers(params DashboardHandlersParams) *DashboardHandlers {
	return &DashboardHandlers{
		DashboardService: params.DashboardService,
	}
}

// DashboardHandlers serves the CRM dashboard. Every endpoint accepts an
// optional from/to window and narrows to the caller's own records for sales
// roles.
type DashboardHandlers struct {
	DashboardService *biz.DashboardService
}

func bindWindow(c *gin.Context) (biz.DashboardWindow, bool) {
	var window biz.DashboardWindow

	if err := c.ShouldBindQuery(&window); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid date filter"))
		return window, false
	}

	return window, true
}

func (h *DashboardHandlers) Summary(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	summary, err := h.DashboardService.GetSummary(c.Request.Context(), window)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(summary))
}

func (h *DashboardHandlers) LeadsBreakdown(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	breakdown, err := h.DashboardService.GetLeadsBreakdown(c.Request.Context(), window)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(breakdown))
}

func (h *DashboardHandlers) FollowupsBreakdown(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	breakdown, err := h.DashboardService.GetFollowupsBreakdown(c.Request.Context(), window)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(breakdown))
}

func (h *DashboardHandlers) RevenueBreakdown(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	breakdown, err := h.DashboardService.GetRevenueBreakdown(c.Request.Context(), window)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(breakdown))
}

func (h *DashboardHandlers) TeamBreakdown(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	breakdown, err := h.DashboardService.GetTeamBreakdown(c.Request.Context(), window)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(breakdown))
}
