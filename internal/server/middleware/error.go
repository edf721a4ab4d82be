package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
)

// AbortWithError aborts the request with a JSON error response and adds the
// error to the gin context for access logging.
func AbortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, objects.ErrorResponse{
		Success: false,
		Message: err.Error(),
	})
}

// AbortWithMessage aborts with a fixed message, keeping the underlying error
// out of the response body while still recording it for the access log.
func AbortWithMessage(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, objects.ErrorResponse{
		Success: false,
		Message: message,
	})
}
