package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"notify-backend/internal/push/domain"
	"notify-backend/internal/push/repository"
	"notify-backend/internal/testutil"
	"notify-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRegistry(t *testing.T) (*TokenRegistry, *gorm.DB) {
	db := testutil.NewTestDB(t)
	reg := NewTokenRegistry(repository.NewTokenRepository(db), repository.NewPreferenceRepository(db), time.Hour)
	return reg, db
}

func TestRegisterTokenRequiresToken(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.RegisterToken(context.Background(), "u1", "   ", domain.PlatformMobile, true)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRegisterTokenCreatesDefaultEnabledPreference(t *testing.T) {
	reg, db := newRegistry(t)
	ctx := context.Background()

	_, err := reg.RegisterToken(ctx, "u1", "token-u1-aaaaaaaa", domain.PlatformWeb, true)
	require.NoError(t, err)

	var pref domain.NotificationPreference
	require.NoError(t, db.First(&pref, "user_id = ?", "u1").Error)
	assert.True(t, pref.RandomBooksEnabled)

	// an explicit opt-out is never overwritten by a later registration
	testutil.SeedPreference(t, db, "u2", false)
	_, err = reg.RegisterToken(ctx, "u2", "token-u2-aaaaaaaa", "", true)
	require.NoError(t, err)
	require.NoError(t, db.First(&pref, "user_id = ?", "u2").Error)
	assert.False(t, pref.RandomBooksEnabled)
}

func TestRegisterDisabledTokenSkipsPreference(t *testing.T) {
	reg, db := newRegistry(t)

	_, err := reg.RegisterToken(context.Background(), "u1", "token-u1-aaaaaaaa", "", false)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.NotificationPreference{}).Count(&count).Error)
	assert.Zero(t, count)
}

type failingPreferenceRepo struct {
	repository.PreferenceRepository
}

func (failingPreferenceRepo) CreateIfAbsent(context.Context, *domain.NotificationPreference) error {
	return apperror.StoreUnavailable(errors.New("connection reset"), "create preference")
}

func TestRegisterTokenKeepsTokenWhenPreferenceFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	prefs := failingPreferenceRepo{repository.NewPreferenceRepository(db)}
	reg := NewTokenRegistry(repository.NewTokenRepository(db), prefs, time.Hour)
	ctx := context.Background()

	saved, err := reg.RegisterToken(ctx, "u1", "token-u1-aaaaaaaa", domain.PlatformWeb, true)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, saved.Enabled)

	tok, err := reg.LatestToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "token-u1-aaaaaaaa", tok)
}

func TestLatestTokenUsesCacheAndEvictsOnDisable(t *testing.T) {
	reg, db := newRegistry(t)
	ctx := context.Background()

	_, err := reg.RegisterToken(ctx, "u1", "first-token-aaaa", "", true)
	require.NoError(t, err)
	_, err = reg.RegisterToken(ctx, "u1", "second-token-aaa", "", true)
	require.NoError(t, err)

	tok, err := reg.LatestToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second-token-aaa", tok)

	_, err = reg.SetEnabled(ctx, "u1", "second-token-aaa", false)
	require.NoError(t, err)

	tok, err = reg.LatestToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "first-token-aaaa", tok, "falls back to the store after eviction")

	// cache hit does not consult the store
	require.NoError(t, db.Model(&domain.DeviceToken{}).Where("user_id = ?", "u1").Update("enabled", false).Error)
	tok, err = reg.LatestToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "first-token-aaaa", tok)

	none, err := reg.LatestToken(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPreferenceService(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db))
	ctx := context.Background()

	pref, err := svc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, pref.RandomBooksEnabled)
	assert.Equal(t, domain.DefaultRandomBooksIntervalMinutes, pref.RandomBooksIntervalMinutes)

	zero := 0
	_, err = svc.SetPreferences(ctx, "u1", domain.PreferenceUpdate{RandomBooksIntervalMinutes: &zero})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details["fields"], "random_books_interval_minutes")

	bad := "25:99"
	_, err = svc.SetPreferences(ctx, "u1", domain.PreferenceUpdate{DailyReminderTime: &bad})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	interval := 45
	pref, err = svc.SetRandomBroadcast(ctx, "u1", true, &interval, domain.PlatformWeb)
	require.NoError(t, err)
	assert.True(t, pref.RandomBooksEnabled)
	assert.Equal(t, 45, pref.RandomBooksIntervalMinutes)

	pref, err = svc.SetRandomBroadcast(ctx, "u1", false, nil, "")
	require.NoError(t, err)
	assert.False(t, pref.RandomBooksEnabled)
	assert.Equal(t, 45, pref.RandomBooksIntervalMinutes)

	var count int64
	require.NoError(t, db.Model(&domain.NotificationPreference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
