package repository

import (
	"context"

	"notify-backend/internal/content/domain"
	"notify-backend/pkg/apperror"

	"gorm.io/gorm"
)

// ContentRepository samples promotable content from the books table
type ContentRepository interface {
	// SamplePromotable returns up to limit random featured, new-release or
	// highly rated items (rating >= minRating)
	SamplePromotable(ctx context.Context, minRating float64, limit int) ([]domain.PromotableContent, error)

	// SampleAny returns up to limit random items with no tier restriction
	SampleAny(ctx context.Context, limit int) ([]domain.PromotableContent, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) SamplePromotable(ctx context.Context, minRating float64, limit int) ([]domain.PromotableContent, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).
		Where("is_featured = ? OR is_new_release = ? OR rating >= ?", true, true, minRating).
		Order("RANDOM()").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "sample promotable content")
	}
	return toContent(books), nil
}

func (r *bookRepository) SampleAny(ctx context.Context, limit int) ([]domain.PromotableContent, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).Order("RANDOM()").Limit(limit).Find(&books).Error
	if err != nil {
		return nil, apperror.StoreUnavailable(err, "sample content")
	}
	return toContent(books), nil
}

func toContent(books []domain.Book) []domain.PromotableContent {
	out := make([]domain.PromotableContent, 0, len(books))
	for _, b := range books {
		out = append(out, domain.FromBook(b))
	}
	return out
}
