package store

import (
	"context"
	"sync"

	"matadan/internal/admin/models"
	"matadan/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	admins map[string]*models.Admin
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{admins: make(map[string]*models.Admin)}
}

func (s *MemoryStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[admin.Username]; ok {
		return sentinel.ErrConflict
	}
	cp := *admin
	s.admins[admin.Username] = &cp
	return nil
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.admins[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *admin
	return &cp, nil
}

func (s *MemoryStore) UpdatePassword(_ context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[username]
	if !ok {
		return sentinel.ErrNotFound
	}
	admin.PasswordHash = passwordHash
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}
