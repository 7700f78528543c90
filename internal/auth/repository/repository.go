package repository

import (
	"context"

	authdomain "notify-backend/internal/auth/domain"
)

// UserRepository defines the user lookups needed by messaging
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error

	// FindByID returns nil, nil when the user does not exist
	FindByID(ctx context.Context, id string) (*authdomain.User, error)

	// FindMissingIDs returns the subset of ids with no users row
	FindMissingIDs(ctx context.Context, ids []string) ([]string, error)

	// ListIDs returns every user id, ordered for stable batching
	ListIDs(ctx context.Context) ([]string, error)
}
