package middleware

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// Authorizer runs the full guard chain for one request
type Authorizer interface {
	Authorize(ctx context.Context, h http.Header, permission string) (auth.Claims, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	authorizer Authorizer
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authorizer Authorizer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// RequirePermission returns a middleware that only calls next when the
// request carries a valid token granting permission.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims, err := m.authorizer.Authorize(ctx, r.Header, permission)
			if err != nil {
				m.reject(w, requestID, permission, err)
				return
			}

			m.logger.Debug("authorization successful",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Subject()),
				zap.String("permission", permission))

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, requestID, permission string, err error) {
	authErr, ok := auth.AsError(err)
	if !ok {
		m.logger.Error("authorization failed unexpectedly",
			zap.String("request_id", requestID),
			zap.String("permission", permission),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("permission", permission),
		zap.String("code", authErr.Code),
		zap.Int("status", authErr.Status),
	}
	if authErr.Err != nil {
		fields = append(fields, zap.Error(authErr.Err))
	}
	if authErr.Status >= http.StatusInternalServerError {
		m.logger.Error("authorization unavailable", fields...)
	} else {
		m.logger.Warn("authorization rejected", fields...)
	}

	_ = utils.WriteAuthError(w, authErr.Status, authErr.Code, authErr.Description)
}
