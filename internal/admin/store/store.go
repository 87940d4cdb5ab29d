// Package store provides persistence for admin accounts.
package store

import (
	"context"

	"matadan/internal/admin/models"
)

// Store persists admin accounts. Implementations return sentinel errors
// from pkg/platform/sentinel for not-found and conflict conditions.
type Store interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	Count(ctx context.Context) (int, error)
}
