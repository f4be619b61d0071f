package auth

import (
	"net/http"
	"strings"
)

// authorizationHeader is the canonical MIME key used by net/http.
const authorizationHeader = "Authorization"

// BearerToken returns the raw token carried in the Authorization header.
//
// The header must be exactly two single-space separated parts and the
// first must be "bearer" in any case. The token is returned verbatim.
func BearerToken(h http.Header) (string, error) {
	values, ok := h[http.CanonicalHeaderKey(authorizationHeader)]
	if !ok || len(values) == 0 {
		return "", ErrAuthHeaderMissing
	}

	parts := strings.Split(values[0], " ")
	if len(parts) != 2 {
		return "", ErrNotBearerShape
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return "", ErrNotBearerScheme
	}

	return parts[1], nil
}
