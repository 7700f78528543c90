package repository

import (
	"context"
	"errors"
	"time"

	"notify-backend/internal/inbox/domain"
	"notify-backend/pkg/apperror"

	"gorm.io/gorm"
)

type inboxRepository struct {
	db *gorm.DB
}

// NewInboxRepository creates a new instance of inboxRepository
func NewInboxRepository(db *gorm.DB) InboxRepository {
	return &inboxRepository{db: db}
}

func (r *inboxRepository) CreateMany(ctx context.Context, messages []domain.InboxMessage, batchSize int) error {
	if len(messages) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(messages, batchSize).Error
	})
	return apperror.StoreUnavailable(err, "create inbox messages")
}

func (r *inboxRepository) List(ctx context.Context, recipientID string, q domain.ListQuery) ([]domain.InboxMessage, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.InboxMessage{}).Where("recipient_id = ?", recipientID)
	if q.UnreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.StoreUnavailable(err, "count inbox messages")
	}

	var messages []domain.InboxMessage
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, apperror.StoreUnavailable(err, "list inbox messages")
	}
	return messages, total, nil
}

func (r *inboxRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.InboxMessage{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperror.StoreUnavailable(err, "count unread")
	}
	return count, nil
}

func (r *inboxRepository) FindForRecipient(ctx context.Context, id, recipientID string) (*domain.InboxMessage, error) {
	var msg domain.InboxMessage
	err := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.StoreUnavailable(err, "find inbox message")
	}
	return &msg, nil
}

func (r *inboxRepository) MarkRead(ctx context.Context, id, recipientID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.InboxMessage{}).
		Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, apperror.StoreUnavailable(res.Error, "mark read")
	}
	return res.RowsAffected, nil
}

func (r *inboxRepository) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.InboxMessage{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, apperror.StoreUnavailable(res.Error, "mark all read")
	}
	return res.RowsAffected, nil
}

func (r *inboxRepository) Delete(ctx context.Context, id, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).Delete(&domain.InboxMessage{})
	if res.Error != nil {
		return 0, apperror.StoreUnavailable(res.Error, "delete inbox message")
	}
	return res.RowsAffected, nil
}
