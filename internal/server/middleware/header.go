package middleware

import (
	"net/http"
	"strings"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

// ExtractBearerToken pulls the bearer credential out of the Authorization
// header. An absent header, a non-Bearer scheme, and an empty credential are
// all the same failure: there is no usable token.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", biz.ErrMissingToken
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", biz.ErrMissingToken
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", biz.ErrMissingToken
	}

	return token, nil
}
