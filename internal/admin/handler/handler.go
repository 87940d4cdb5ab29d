// Package handler exposes the admin endpoints: login, password change and
// the audit trail.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"matadan/internal/admin/service"
	"matadan/internal/audit"
	"matadan/internal/http/shared"
	"matadan/internal/platform/middleware"
)

// Service defines the interface for admin operations.
type Service interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
	AuditTrail(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the admin routes. Login is the only public one.
func (h *Handler) Register(r chi.Router) {
	requireAuth := middleware.RequireAuth(h.jwtValidator, h.logger)

	r.Post("/api/admin/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/api/admin/change-password", h.handleChangePassword)
		r.Get("/api/admin/audit", h.handleAuditTrail)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "login successful",
		"token":     result.Token,
		"username":  result.Username,
		"role":      result.Role,
		"expiresIn": int64(result.ExpiresIn / time.Second),
	})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	username := middleware.GetAdminUsername(r.Context())
	if err := h.service.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "password changed successfully",
	})
}

func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.service.AuditTrail(r.Context(), limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, events)
}
