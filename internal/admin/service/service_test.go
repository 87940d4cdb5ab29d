package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"matadan/internal/admin/store"
	"matadan/internal/audit"
	jwttoken "matadan/internal/jwt_token"
	dErrors "matadan/pkg/domain-errors"
)

type captureAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *captureAuditor) Emit(event audit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureAuditor) actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Action)
	}
	return out
}

type AdminServiceSuite struct {
	suite.Suite
	store   *store.MemoryStore
	auditor *captureAuditor
	trail   *audit.MemoryStore
	service *Service
}

func (s *AdminServiceSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.auditor = &captureAuditor{}
	s.trail = audit.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwttoken.NewJWTService("test-signing-key", "matadan-test", time.Hour)
	s.service = New(s.store, tokens, s.auditor, s.trail, logger)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) TestSeed() {
	ctx := context.Background()

	s.Run("seed creates the bootstrap admin", func() {
		s.Require().NoError(s.service.Seed(ctx, "admin", "admin123"))
		admin, err := s.store.FindByUsername(ctx, "admin")
		s.Require().NoError(err)
		s.Equal("admin", admin.Role)
		s.NotEqual("admin123", admin.PasswordHash, "password must be hashed")
	})

	s.Run("seed is a no-op when an admin exists", func() {
		s.Require().NoError(s.service.Seed(ctx, "other", "password"))
		count, err := s.store.Count(ctx)
		s.Require().NoError(err)
		s.Equal(1, count)
	})
}

func (s *AdminServiceSuite) TestLogin() {
	ctx := context.Background()
	s.Require().NoError(s.service.Seed(ctx, "admin", "admin123"))

	s.Run("missing credentials return bad request", func() {
		_, err := s.service.Login(ctx, "", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown username returns unauthorized", func() {
		_, err := s.service.Login(ctx, "nobody", "whatever")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Contains(s.auditor.actions(), audit.ActionAdminLoginFailed)
	})

	s.Run("wrong password returns unauthorized", func() {
		_, err := s.service.Login(ctx, "admin", "wrong")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("valid credentials issue a token", func() {
		result, err := s.service.Login(ctx, "admin", "admin123")
		s.Require().NoError(err)
		s.NotEmpty(result.Token)
		s.Equal("admin", result.Username)
		s.Equal(time.Hour, result.ExpiresIn)
		s.Contains(s.auditor.actions(), audit.ActionAdminLogin)
	})
}

func (s *AdminServiceSuite) TestChangePassword() {
	ctx := context.Background()
	s.Require().NoError(s.service.Seed(ctx, "admin", "admin123"))

	s.Run("short new password is rejected", func() {
		err := s.service.ChangePassword(ctx, "admin", "admin123", "abc")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("wrong current password is rejected", func() {
		err := s.service.ChangePassword(ctx, "admin", "nope", "newpassword")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("valid change rotates the credential", func() {
		s.Require().NoError(s.service.ChangePassword(ctx, "admin", "admin123", "newpassword"))

		_, err := s.service.Login(ctx, "admin", "admin123")
		s.Require().Error(err, "old password must stop working")

		result, err := s.service.Login(ctx, "admin", "newpassword")
		s.Require().NoError(err)
		s.NotEmpty(result.Token)
		s.Contains(s.auditor.actions(), audit.ActionPasswordChanged)
	})
}

func (s *AdminServiceSuite) TestAuditTrail() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.trail.Append(ctx, audit.Event{
			ID:        string(rune('a' + i)),
			Action:    audit.ActionBallotCast,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	s.Run("returns recorded events", func() {
		events, err := s.service.AuditTrail(ctx, 10)
		s.Require().NoError(err)
		s.Len(events, 3)
	})

	s.Run("limit caps the result", func() {
		events, err := s.service.AuditTrail(ctx, 2)
		s.Require().NoError(err)
		s.Len(events, 2)
	})

	s.Run("nonsense limit falls back to the default", func() {
		events, err := s.service.AuditTrail(ctx, -5)
		s.Require().NoError(err)
		s.Len(events, 3)
	})
}
