package repository

import (
	"context"

	"notify-backend/internal/push/domain"
)

// TokenRepository defines the interface for device token operations
type TokenRepository interface {
	// Upsert inserts (userID, token) or merges enabled/updated_at into the existing row.
	// An empty platform leaves the stored platform untouched.
	Upsert(ctx context.Context, userID, token, platform string, enabled bool) (*domain.DeviceToken, error)

	// FindLatestEnabled returns the most recently updated enabled token, or nil
	FindLatestEnabled(ctx context.Context, userID string) (*domain.DeviceToken, error)

	// ListByUserID returns all tokens of a user
	ListByUserID(ctx context.Context, userID string) ([]domain.DeviceToken, error)
}

// PreferenceRepository defines the interface for notification preference rows
type PreferenceRepository interface {
	// Find returns nil, nil when the user has no row
	Find(ctx context.Context, userID string) (*domain.NotificationPreference, error)

	// Upsert merges only the supplied fields, creating the row from defaults if needed
	Upsert(ctx context.Context, userID string, update domain.PreferenceUpdate) (*domain.NotificationPreference, error)

	// CreateIfAbsent inserts pref unless a row for the user already exists
	CreateIfAbsent(ctx context.Context, pref *domain.NotificationPreference) error
}

// RecipientRepository resolves broadcast recipients
type RecipientRepository interface {
	// ResolveRecipients joins enabled tokens with opted-in preferences. Order is unspecified.
	ResolveRecipients(ctx context.Context) ([]domain.Recipient, error)
}
