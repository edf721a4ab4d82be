package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
)

// RequireOperation is the role gate for a single registered operation. It
// runs after WithAuth and checks the resolved identity's role against the
// operation's allow-list; no role, including super_admin, bypasses the list.
// Routes without a registered policy are denied for everyone.
func RequireOperation(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := contexts.WithOperationName(c.Request.Context(), string(op))
		c.Request = c.Request.WithContext(ctx)

		identity, ok := contexts.GetIdentity(ctx)
		if !ok {
			AbortWithMessage(c, http.StatusUnauthorized, MsgInvalidToken,
				fmt.Errorf("no identity resolved for %s", op))

			return
		}

		if err := authz.Authorize(identity, op); err != nil {
			AbortWithMessage(c, http.StatusForbidden,
				fmt.Sprintf("Access denied: not allowed to perform %s", op), err)

			return
		}

		c.Next()
	}
}
