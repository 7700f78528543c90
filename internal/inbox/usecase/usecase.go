package usecase

import (
	"context"

	"notify-backend/internal/inbox/domain"
)

// InboxUsecase defines the interface for inbox business logic
type InboxUsecase interface {
	// SendToUsers writes one message per distinct recipient, all or nothing.
	// Unknown ids fail the whole send.
	SendToUsers(ctx context.Context, userIDs []string, draft domain.Draft) (int, error)

	// BroadcastToAll writes one message per user in sequential batches. On a
	// batch failure earlier batches stay committed and their count is returned.
	BroadcastToAll(ctx context.Context, draft domain.Draft) (int, error)

	// List returns a page newest first with independently computed counts
	List(ctx context.Context, userID string, q domain.ListQuery) (*domain.Page, error)

	UnreadCount(ctx context.Context, userID string) (int64, error)

	// MarkRead is idempotent; a message not owned by userID is not found
	MarkRead(ctx context.Context, userID, messageID string) (*domain.InboxMessage, error)

	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// Delete removes a message owned by userID
	Delete(ctx context.Context, userID, messageID string) error
}
