package usecase

import (
	"context"

	"notify-backend/internal/push/domain"
	"notify-backend/internal/push/repository"
	"notify-backend/pkg/apperror"
	"notify-backend/pkg/validation"
	"notify-backend/pkg/zlog"

	"go.uber.org/zap"
)

// PreferenceService reads and merges per-user notification preferences
type PreferenceService struct {
	prefs repository.PreferenceRepository
}

func NewPreferenceService(prefs repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// GetPreferences never fails for a missing row: absence means all-disabled defaults
func (s *PreferenceService) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	pref, err := s.prefs.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		def := domain.DefaultPreference(userID)
		return &def, nil
	}
	return pref, nil
}

// SetPreferences merges the supplied fields into the user's single row
func (s *PreferenceService) SetPreferences(ctx context.Context, userID string, update domain.PreferenceUpdate) (*domain.NotificationPreference, error) {
	if userID == "" {
		return nil, apperror.Validation("user id is required")
	}
	if err := validation.Struct(update); err != nil {
		return nil, err
	}
	return s.prefs.Upsert(ctx, userID, update)
}

// SetRandomBroadcast toggles the random content broadcast. The platform is
// informational only.
func (s *PreferenceService) SetRandomBroadcast(ctx context.Context, userID string, enabled bool, intervalMinutes *int, platform string) (*domain.NotificationPreference, error) {
	pref, err := s.SetPreferences(ctx, userID, domain.PreferenceUpdate{
		RandomBooksEnabled:         &enabled,
		RandomBooksIntervalMinutes: intervalMinutes,
	})
	if err != nil {
		return nil, err
	}

	zlog.Info("[Push] Random broadcast preference updated",
		zap.String("user_id", userID),
		zap.Bool("enabled", enabled),
		zap.Int("interval_minutes", pref.RandomBooksIntervalMinutes),
		zap.String("platform", platform))
	return pref, nil
}
