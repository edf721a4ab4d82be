package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

// Messages returned to unauthenticated callers. Fixed strings: the response
// never distinguishes a bad signature from an expired token, a deleted user,
// or a blocked one.
const (
	MsgMissingToken = "Authorization token missing"
	MsgInvalidToken = "Invalid or expired token"
)

// WithAuth authenticates every request on the group: it extracts the bearer
// token, verifies it, re-reads the user record, and derives the tenant
// filter. The resolved identity and filter are stored on the request context
// for the role gate and the handlers. Any failure aborts with 401.
func WithAuth(auth *biz.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractBearerToken(c.Request)
		if err != nil {
			AbortWithMessage(c, http.StatusUnauthorized, MsgMissingToken, err)
			return
		}

		identity, filter, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, biz.ErrMissingToken) {
				AbortWithMessage(c, http.StatusUnauthorized, MsgMissingToken, err)
				return
			}

			if !errors.Is(err, biz.ErrInvalidToken) &&
				!errors.Is(err, biz.ErrUserNotFound) &&
				!errors.Is(err, biz.ErrUserInactive) {
				log.Error(c.Request.Context(), "authentication failed unexpectedly", log.Cause(err))
			}

			AbortWithMessage(c, http.StatusUnauthorized, MsgInvalidToken, err)

			return
		}

		ctx := contexts.WithIdentity(c.Request.Context(), identity)
		ctx = contexts.WithTenantFilter(ctx, filter)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
