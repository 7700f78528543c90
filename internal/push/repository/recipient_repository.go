package repository

import (
	"context"

	"notify-backend/internal/push/domain"
	"notify-backend/pkg/apperror"

	"gorm.io/gorm"
)

type recipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

// ResolveRecipients is a strict inner join: a user needs an enabled token AND
// an opted-in preference row. Language comes from users and may be empty.
func (r *recipientRepository) ResolveRecipients(ctx context.Context) ([]domain.Recipient, error) {
	var recipients []domain.Recipient
	err := r.db.WithContext(ctx).
		Table("device_tokens AS dt").
		Select("dt.user_id AS user_id, dt.token AS token, COALESCE(u.language, '') AS language").
		Joins("JOIN notification_preferences np ON np.user_id = dt.user_id AND np.random_books_enabled = ?", true).
		Joins("LEFT JOIN users u ON u.id = dt.user_id").
		Where("dt.enabled = ?", true).
		Scan(&recipients).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "resolve recipients")
	}
	return recipients, nil
}
