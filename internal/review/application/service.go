package application

import (
	"context"

	"github.com/wyfcoding/zenstore/internal/review/domain"
)

// ReviewService 评论应用服务
type ReviewService struct {
	repo domain.ReviewRepository
}

func NewReviewService(repo domain.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

// Add 追加评论。同一用户可对同一商品多次评论，也不要求已购买。
func (s *ReviewService) Add(ctx context.Context, userID, productID uint, rating int, comment string) (*domain.Review, error) {
	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct 返回某商品的全部评论，最新在前
func (s *ReviewService) ListByProduct(ctx context.Context, productID uint) ([]domain.Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}
