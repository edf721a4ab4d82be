package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/build"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
)

type SystemHandlersParams struct {
	fx.In

	DB *gorm.DB
}

func NewSystemHandlers(params SystemHandlersParams) *SystemHandlers {
	return &SystemHandlers{
		DB: params.DB,
	}
}

type SystemHandlers struct {
	DB *gorm.DB
}

// Health reports process liveness and database reachability.
func (h *SystemHandlers) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}

	if err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, objects.OK(gin.H{
		"status":  status,
		"version": build.Version,
		"uptime":  time.Since(build.StartTime).String(),
	}))
}
