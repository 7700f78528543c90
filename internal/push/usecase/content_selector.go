package usecase

import (
	"context"
	"math/rand/v2"

	contentdomain "notify-backend/internal/content/domain"
	contentrepo "notify-backend/internal/content/repository"
	"notify-backend/pkg/config"
)

// ContentSelector picks one item to promote per cycle. It samples a bounded
// pool of featured, new or highly rated items and falls back to any item.
type ContentSelector struct {
	repo         contentrepo.ContentRepository
	poolSize     int
	fallbackSize int
	minRating    float64
	intn         func(n int) int
}

func NewContentSelector(repo contentrepo.ContentRepository, cfg *config.Config) *ContentSelector {
	return &ContentSelector{
		repo:         repo,
		poolSize:     cfg.ContentPoolSize,
		fallbackSize: cfg.ContentFallbackSize,
		minRating:    cfg.ContentMinRating,
		intn:         rand.IntN,
	}
}

// Select returns nil, nil when the store holds no content at all
func (s *ContentSelector) Select(ctx context.Context) (*contentdomain.PromotableContent, error) {
	pool, err := s.repo.SamplePromotable(ctx, s.minRating, s.poolSize)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		pool, err = s.repo.SampleAny(ctx, s.fallbackSize)
		if err != nil {
			return nil, err
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	picked := pool[s.intn(len(pool))]
	return &picked, nil
}
