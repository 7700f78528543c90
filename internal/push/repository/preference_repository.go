package repository

import (
	"context"
	"errors"
	"time"

	"notify-backend/internal/push/domain"
	"notify-backend/pkg/apperror"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Find(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.StoreUnavailable(err, "find preferences")
	}
	return &pref, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, userID string, update domain.PreferenceUpdate) (*domain.NotificationPreference, error) {
	now := time.Now()
	row := domain.DefaultPreference(userID)
	row.CreatedAt = now
	row.UpdatedAt = now
	cols := append(update.Apply(&row), "updated_at")

	// The insert carries defaults plus the supplied fields; on conflict only
	// the supplied columns are overwritten.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&row).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "upsert preferences")
	}

	stored, err := r.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperror.StoreUnavailable(errors.New("row missing after upsert"), "upsert preferences")
	}
	return stored, nil
}

func (r *preferenceRepository) CreateIfAbsent(ctx context.Context, pref *domain.NotificationPreference) error {
	now := time.Now()
	pref.CreatedAt = now
	pref.UpdatedAt = now
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(pref).Error
	return apperror.StoreUnavailable(err, "create preferences")
}
