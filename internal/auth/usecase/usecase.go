package usecase

import (
	"context"

	authdomain "notify-backend/internal/auth/domain"
)

// AuthUsecase resolves callers from bearer tokens
type AuthUsecase interface {
	// ValidateToken parses an access token and loads its user
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error)

	// IssueAccessToken signs a short-lived access token for userID
	IssueAccessToken(ctx context.Context, userID string) (string, error)
}
