package repository

import (
	"context"
	"time"

	"notify-backend/internal/inbox/domain"
)

// InboxRepository defines the interface for inbox message persistence.
// Every read and write is scoped to the recipient.
type InboxRepository interface {
	// CreateMany inserts all rows in one transaction, batchSize rows per statement
	CreateMany(ctx context.Context, messages []domain.InboxMessage, batchSize int) error

	// List returns one page newest first plus the total matching the filter
	List(ctx context.Context, recipientID string, q domain.ListQuery) ([]domain.InboxMessage, int64, error)

	CountUnread(ctx context.Context, recipientID string) (int64, error)

	// FindForRecipient returns nil, nil when the message does not exist or is not owned
	FindForRecipient(ctx context.Context, id, recipientID string) (*domain.InboxMessage, error)

	// MarkRead flips an unread owned message; returns rows affected
	MarkRead(ctx context.Context, id, recipientID string, at time.Time) (int64, error)

	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)

	Delete(ctx context.Context, id, recipientID string) (int64, error)
}
