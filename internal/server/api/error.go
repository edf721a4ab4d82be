package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

// JSONError returns a JSON error response and adds the error to the gin
// context for access logging.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.ErrorResponse{
		Success: false,
		Message: err.Error(),
	})
}

// ServiceError maps service sentinels to HTTP statuses. Unknown errors become
// opaque 500s so internals never leak into response bodies.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrNotFound):
		JSONError(c, http.StatusNotFound, err)
	case errors.Is(err, biz.ErrForbidden):
		JSONError(c, http.StatusForbidden, err)
	case errors.Is(err, biz.ErrInvalidPassword), errors.Is(err, biz.ErrInvalidOTP),
		errors.Is(err, biz.ErrUserInactive):
		JSONError(c, http.StatusUnauthorized, err)
	case errors.Is(err, biz.ErrMissingToken), errors.Is(err, biz.ErrInvalidToken),
		errors.Is(err, biz.ErrUserNotFound):
		JSONError(c, http.StatusUnauthorized, err)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, objects.ErrorResponse{
			Success: false,
			Message: biz.ErrInternal.Error(),
		})
	}
}
