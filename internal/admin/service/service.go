// Package service holds admin account logic: login, bootstrap seeding and
// password changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"matadan/internal/admin/device"
	"matadan/internal/admin/models"
	"matadan/internal/admin/store"
	"matadan/internal/audit"
	"matadan/internal/platform/middleware"
	dErrors "matadan/pkg/domain-errors"
	"matadan/pkg/platform/sentinel"
)

// TokenIssuer mints signed tokens for authenticated admins.
type TokenIssuer interface {
	GenerateToken(username, role string) (string, error)
	TTL() time.Duration
}

// AuditPublisher queues an audit event without blocking.
type AuditPublisher interface {
	Emit(event audit.Event)
}

// AuditReader lists recent audit trail entries.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Service implements admin operations over the admin store.
type Service struct {
	admins  store.Store
	tokens  TokenIssuer
	auditor AuditPublisher
	trail   AuditReader
	logger  *slog.Logger
}

func New(admins store.Store, tokens TokenIssuer, auditor AuditPublisher, trail AuditReader, logger *slog.Logger) *Service {
	return &Service{
		admins:  admins,
		tokens:  tokens,
		auditor: auditor,
		trail:   trail,
		logger:  logger,
	}
}

// LoginResult carries the issued token back to the handler.
type LoginResult struct {
	Token     string        `json:"token"`
	Username  string        `json:"username"`
	Role      string        `json:"role"`
	ExpiresIn time.Duration `json:"-"`
}

// Login verifies credentials and issues a JWT. Failed attempts are audited
// with the caller's address so brute forcing leaves a trace.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.emitLoginAudit(ctx, audit.ActionAdminLoginFailed, username)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		s.emitLoginAudit(ctx, audit.ActionAdminLoginFailed, username)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateToken(admin.Username, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.emitLoginAudit(ctx, audit.ActionAdminLogin, username)
	return &LoginResult{
		Token:     token,
		Username:  admin.Username,
		Role:      admin.Role,
		ExpiresIn: s.tokens.TTL(),
	}, nil
}

// ChangePassword re-verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return dErrors.New(dErrors.CodeBadRequest, "new password must be at least 6 characters")
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return fmt.Errorf("look up admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)) != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.UpdatePassword(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	s.emitLoginAudit(ctx, audit.ActionPasswordChanged, username)
	return nil
}

// Seed creates the bootstrap admin account when the store is empty, so a
// fresh deployment is reachable without manual setup.
func (s *Service) Seed(ctx context.Context, username, password string) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		// Two instances racing the seed is fine; one of them won.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	s.logger.InfoContext(ctx, "bootstrap admin created", "username", username)
	return nil
}

// AuditTrail returns the most recent audit events, newest first.
func (s *Service) AuditTrail(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events, err := s.trail.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

func (s *Service) emitLoginAudit(ctx context.Context, action, username string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(audit.Event{
		Action:   action,
		Actor:    username,
		ClientIP: middleware.GetClientIP(ctx),
		Device:   device.ParseUserAgent(middleware.GetUserAgent(ctx)),
	})
}
