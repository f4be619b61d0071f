package auth

import (
	"context"
	"net/http"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Guard chains header extraction, token verification and the permission
// check. The first failure stops the chain.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard creates a Guard
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authorize returns the verified claims if h carries a token granting
// permission.
func (g *Guard) Authorize(ctx context.Context, h http.Header, permission string) (Claims, error) {
	token, err := BearerToken(h)
	if err != nil {
		return nil, err
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := CheckPermission(claims, permission); err != nil {
		return nil, err
	}
	return claims, nil
}
