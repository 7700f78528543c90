package usecase

import (
	"context"
	"strings"
	"time"

	"notify-backend/internal/push/domain"
	"notify-backend/internal/push/repository"
	"notify-backend/pkg/validation"
	"notify-backend/pkg/zlog"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type tokenRegistration struct {
	UserID   string `json:"user_id" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,max=20"`
}

// TokenRegistry owns device tokens and the userID -> latest token hot cache.
// The cache is best effort; the store is authoritative.
type TokenRegistry struct {
	tokens repository.TokenRepository
	prefs  repository.PreferenceRepository
	latest *cache.Cache
}

// NewTokenRegistry creates a registry whose cache entries live for ttl
func NewTokenRegistry(tokens repository.TokenRepository, prefs repository.PreferenceRepository, ttl time.Duration) *TokenRegistry {
	return &TokenRegistry{
		tokens: tokens,
		prefs:  prefs,
		latest: cache.New(ttl, ttl/2),
	}
}

// RegisterToken upserts (userID, token). Registering an enabled token also
// opts the user into random broadcasts unless a preference row already exists.
// A failure to create that row is logged; the saved token is still returned.
func (r *TokenRegistry) RegisterToken(ctx context.Context, userID, token, platform string, enabled bool) (*domain.DeviceToken, error) {
	token = strings.TrimSpace(token)
	if err := validation.Struct(tokenRegistration{UserID: userID, Token: token, Platform: platform}); err != nil {
		return nil, err
	}

	saved, err := r.tokens.Upsert(ctx, userID, token, platform, enabled)
	if err != nil {
		return nil, err
	}
	r.remember(saved)

	if enabled {
		pref := domain.DefaultPreference(userID)
		pref.RandomBooksEnabled = true
		if err := r.prefs.CreateIfAbsent(ctx, &pref); err != nil {
			zlog.Warn("[Push] Failed to create default preference",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	zlog.Info("[Push] Token registered",
		zap.String("user_id", userID),
		zap.String("token", zlog.MaskToken(token)),
		zap.Bool("enabled", enabled))
	return saved, nil
}

// SetEnabled flips a token through the same upsert path without touching preferences
func (r *TokenRegistry) SetEnabled(ctx context.Context, userID, token string, enabled bool) (*domain.DeviceToken, error) {
	token = strings.TrimSpace(token)
	if err := validation.Struct(tokenRegistration{UserID: userID, Token: token}); err != nil {
		return nil, err
	}

	saved, err := r.tokens.Upsert(ctx, userID, token, "", enabled)
	if err != nil {
		return nil, err
	}
	r.remember(saved)
	return saved, nil
}

// LatestToken returns the user's most recent enabled token, or "" if none
func (r *TokenRegistry) LatestToken(ctx context.Context, userID string) (string, error) {
	if cached, ok := r.latest.Get(userID); ok {
		return cached.(string), nil
	}

	tok, err := r.tokens.FindLatestEnabled(ctx, userID)
	if err != nil {
		return "", err
	}
	if tok == nil {
		return "", nil
	}
	r.latest.SetDefault(userID, tok.Token)
	return tok.Token, nil
}

func (r *TokenRegistry) remember(t *domain.DeviceToken) {
	if t.Enabled {
		r.latest.SetDefault(t.UserID, t.Token)
		return
	}
	if cached, ok := r.latest.Get(t.UserID); ok && cached.(string) == t.Token {
		r.latest.Delete(t.UserID)
	}
}
