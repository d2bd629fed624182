package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/review/domain"
)

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
