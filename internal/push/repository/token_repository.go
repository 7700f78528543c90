package repository

import (
	"context"
	"errors"
	"time"

	"notify-backend/internal/push/domain"
	"notify-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new instance of tokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

// Upsert saves or updates a device token for a user (atomic upsert)
func (r *tokenRepository) Upsert(ctx context.Context, userID, token, platform string, enabled bool) (*domain.DeviceToken, error) {
	now := time.Now()
	updates := []string{"enabled", "updated_at"}
	if platform != "" {
		updates = append(updates, "platform")
	} else {
		platform = domain.PlatformMobile
	}

	row := &domain.DeviceToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// INSERT ... ON CONFLICT (user_id, token) DO UPDATE
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(row).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "upsert device token")
	}

	var stored domain.DeviceToken
	err = r.db.WithContext(ctx).Where("user_id = ? AND token = ?", userID, token).First(&stored).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "reload device token")
	}
	return &stored, nil
}

func (r *tokenRepository) FindLatestEnabled(ctx context.Context, userID string) (*domain.DeviceToken, error) {
	var token domain.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Order("updated_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.StoreUnavailable(err, "find latest token")
	}
	return &token, nil
}

// ListByUserID returns all device tokens for a user
func (r *tokenRepository) ListByUserID(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	var tokens []domain.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "list device tokens")
	}
	return tokens, nil
}
