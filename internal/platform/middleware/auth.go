package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating admin bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	Username string
	Role     string
}

type contextKeyAdminUsername struct{}
type contextKeyAdminRole struct{}

// GetAdminUsername retrieves the authenticated admin username from the context.
func GetAdminUsername(ctx context.Context) string {
	if username, ok := ctx.Value(contextKeyAdminUsername{}).(string); ok {
		return username
	}
	return ""
}

// GetAdminRole retrieves the authenticated admin role from the context.
func GetAdminRole(ctx context.Context) string {
	if role, ok := ctx.Value(contextKeyAdminRole{}).(string); ok {
		return role
	}
	return ""
}

// WithAdmin injects admin identity into a context for handler tests.
func WithAdmin(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, contextKeyAdminUsername{}, username)
	return context.WithValue(ctx, contextKeyAdminRole{}, role)
}

// RequireAuth gates mutation endpoints behind a valid bearer token. Failures
// are rejected before the handler runs.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, contextKeyAdminUsername{}, claims.Username)
			ctx = context.WithValue(ctx, contextKeyAdminRole{}, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
