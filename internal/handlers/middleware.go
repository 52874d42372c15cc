package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

type authContextKey struct{}

type MiddlewareProvider struct {
	jwtService primary.JWTService
	enabled    bool
	logger     primary.Logger
}

// New creates the middleware provider. When enabled is false every request
// runs as the anonymous user.
func New(jwtService primary.JWTService, enabled bool, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService: jwtService,
		enabled:    enabled,
		logger:     logger,
	}
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ResponseError(w, errs.MissingToken.Error(), http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		payload, err := m.jwtService.Authenticate(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected token", "error", err)
			ResponseError(w, errs.InvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), payload)))
	})
}

// WithAuth stores the caller's identity in ctx.
func WithAuth(ctx context.Context, payload domain.AuthPayload) context.Context {
	return context.WithValue(ctx, authContextKey{}, payload)
}

// AuthFromContext returns the caller's identity, anonymous when none is set.
func AuthFromContext(ctx context.Context) domain.AuthPayload {
	payload, _ := ctx.Value(authContextKey{}).(domain.AuthPayload)
	return payload
}
