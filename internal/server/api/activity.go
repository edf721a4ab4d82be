package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type ActivityHandlersParams struct {
	fx.In

	ActivityService *biz.ActivityService
}

func NewActivityHandlers(params ActivityHandlersParams) *ActivityHandlers {
	return &ActivityHandlers{
		ActivityService: params.ActivityService,
	}
}

type ActivityHandlers struct {
	ActivityService *biz.ActivityService
}

func (h *ActivityHandlers) CreateActivity(c *gin.Context) {
	var req biz.CreateActivityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	activity, err := h.ActivityService.CreateActivity(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(activity))
}

func (h *ActivityHandlers) ListActivities(c *gin.Context) {
	activities, err := h.ActivityService.ListActivities(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(activities))
}

func (h *ActivityHandlers) CompleteActivity(c *gin.Context) {
	activity, err := h.ActivityService.CompleteActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(activity))
}
