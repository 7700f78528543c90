package usecase

import (
	"context"
	"strings"
	"time"

	authrepo "notify-backend/internal/auth/repository"
	"notify-backend/internal/inbox/domain"
	"notify-backend/internal/inbox/repository"
	"notify-backend/pkg/apperror"
	"notify-backend/pkg/events"
	"notify-backend/pkg/metrics"
	"notify-backend/pkg/validation"
	"notify-backend/pkg/zlog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	kindTargeted  = "targeted"
	kindBroadcast = "broadcast"
)

type draftInput struct {
	Title     string  `json:"title" validate:"required,max=255"`
	Body      string  `json:"message" validate:"required"`
	ActionURL *string `json:"action_url" validate:"omitempty,max=2048"`
}

// CreatedEvent is the payload published after a send
type CreatedEvent struct {
	Kind     string  `json:"kind"`
	Count    int     `json:"count"`
	SenderID *string `json:"sender_id,omitempty"`
}

// inboxUsecase implements InboxUsecase interface
type inboxUsecase struct {
	inboxRepo repository.InboxRepository
	userRepo  authrepo.UserRepository
	batchSize int
	metrics   *metrics.Metrics
	publisher events.Publisher
	now       func() time.Time
}

// NewInboxUsecase creates a new instance of inboxUsecase. m and publisher may be nil.
func NewInboxUsecase(
	inboxRepo repository.InboxRepository,
	userRepo authrepo.UserRepository,
	batchSize int,
	m *metrics.Metrics,
	publisher events.Publisher,
) InboxUsecase {
	if batchSize < 1 {
		batchSize = 100
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &inboxUsecase{
		inboxRepo: inboxRepo,
		userRepo:  userRepo,
		batchSize: batchSize,
		metrics:   m,
		publisher: publisher,
		now:       time.Now,
	}
}

func (u *inboxUsecase) SendToUsers(ctx context.Context, userIDs []string, draft domain.Draft) (int, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return 0, apperror.Validation("at least one recipient is required")
	}
	if blank := blankIDs(ids); len(blank) > 0 {
		return 0, apperror.Validation("unknown recipients").WithDetail("invalid_ids", blank)
	}

	missing, err := u.userRepo.FindMissingIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	if len(missing) > 0 {
		return 0, apperror.Validation("unknown recipients").WithDetail("invalid_ids", missing)
	}

	if draft.Type == "" {
		draft.Type = domain.TypeAdminMessage
	}
	rows := u.buildRows(ids, draft)
	if err := u.inboxRepo.CreateMany(ctx, rows, u.batchSize); err != nil {
		return 0, err
	}

	u.created(ctx, kindTargeted, len(rows), draft.SenderID)
	return len(rows), nil
}

func (u *inboxUsecase) BroadcastToAll(ctx context.Context, draft domain.Draft) (int, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	ids, err := u.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, apperror.NotFound("no users to broadcast to")
	}

	if draft.Type == "" {
		draft.Type = domain.TypeAdminBroadcast
	}

	created := 0
	for start := 0; start < len(ids); start += u.batchSize {
		end := min(start+u.batchSize, len(ids))
		rows := u.buildRows(ids[start:end], draft)
		if err := u.inboxRepo.CreateMany(ctx, rows, u.batchSize); err != nil {
			zlog.Error("[Inbox] Broadcast batch failed",
				zap.Int("created", created),
				zap.Int("total", len(ids)),
				zap.Error(err))
			u.created(ctx, kindBroadcast, created, draft.SenderID)
			return created, err
		}
		created += len(rows)
	}

	u.created(ctx, kindBroadcast, created, draft.SenderID)
	return created, nil
}

func (u *inboxUsecase) List(ctx context.Context, userID string, q domain.ListQuery) (*domain.Page, error) {
	q = q.Normalize()

	messages, total, err := u.inboxRepo.List(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	unread, err := u.inboxRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.InboxMessage{}
	}

	return &domain.Page{
		Messages:    messages,
		Total:       total,
		UnreadCount: unread,
		Page:        q.Page,
		Limit:       q.Limit,
		TotalPages:  int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

func (u *inboxUsecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return u.inboxRepo.CountUnread(ctx, userID)
}

func (u *inboxUsecase) MarkRead(ctx context.Context, userID, messageID string) (*domain.InboxMessage, error) {
	if _, err := u.inboxRepo.MarkRead(ctx, messageID, userID, u.now()); err != nil {
		return nil, err
	}

	msg, err := u.inboxRepo.FindForRecipient(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, apperror.NotFound("message %s not found", messageID)
	}
	return msg, nil
}

func (u *inboxUsecase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return u.inboxRepo.MarkAllRead(ctx, userID, u.now())
}

func (u *inboxUsecase) Delete(ctx context.Context, userID, messageID string) error {
	n, err := u.inboxRepo.Delete(ctx, messageID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("message %s not found", messageID)
	}
	return nil
}

func (u *inboxUsecase) buildRows(recipientIDs []string, draft domain.Draft) []domain.InboxMessage {
	now := u.now()
	rows := make([]domain.InboxMessage, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		rows = append(rows, domain.InboxMessage{
			ID:          uuid.New().String(),
			RecipientID: id,
			SenderID:    draft.SenderID,
			Title:       draft.Title,
			Body:        draft.Body,
			Type:        draft.Type,
			ActionURL:   draft.ActionURL,
			CreatedAt:   now,
		})
	}
	return rows
}

func (u *inboxUsecase) created(ctx context.Context, kind string, count int, senderID *string) {
	if count == 0 {
		return
	}
	u.metrics.RecordInboxCreated(kind, count)
	zlog.Info("[Inbox] Messages created", zap.String("kind", kind), zap.Int("count", count))

	err := u.publisher.Publish(ctx, events.TypeInboxMessagesCreated, CreatedEvent{Kind: kind, Count: count, SenderID: senderID})
	if err != nil {
		zlog.Warn("[Inbox] Failed to publish event", zap.Error(err))
	}
}

func validateDraft(d domain.Draft) error {
	return validation.Struct(draftInput{Title: d.Title, Body: d.Body, ActionURL: d.ActionURL})
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func blankIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			out = append(out, id)
		}
	}
	return out
}
