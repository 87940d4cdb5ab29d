package testutil

import (
	"net/http"

	"matadan/internal/platform/middleware"
)

// WithAdmin stamps an authenticated admin identity onto the request context,
// simulating what the auth middleware does for a valid bearer token.
func WithAdmin(req *http.Request, username, role string) *http.Request {
	ctx := middleware.WithAdmin(req.Context(), username, role)
	return req.WithContext(ctx)
}

// WithClientMetadata stamps a client IP and user agent onto the request
// context, simulating the metadata middleware.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	ctx := middleware.WithClientMetadata(req.Context(), clientIP, userAgent)
	return req.WithContext(ctx)
}
