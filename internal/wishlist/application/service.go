package application

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/wishlist/domain"
)

// WishlistService 收藏夹应用服务
type WishlistService struct {
	repo domain.WishlistRepository
}

func NewWishlistService(repo domain.WishlistRepository) *WishlistService {
	return &WishlistService{repo: repo}
}

// Toggle 切换收藏状态：已收藏则删除并返回 removed，否则创建并返回 added
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uint) (domain.ToggleStatus, error) {
	item, err := s.repo.Get(ctx, userID, productID)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, item); err != nil {
			return "", err
		}
		return domain.StatusRemoved, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.repo.Create(ctx, &domain.Item{UserID: userID, ProductID: productID}); err != nil {
			return "", err
		}
		return domain.StatusAdded, nil
	default:
		return "", err
	}
}

// List 返回用户收藏的全部条目（含商品）
func (s *WishlistService) List(ctx context.Context, userID uint) ([]domain.Item, error) {
	return s.repo.ListByUser(ctx, userID)
}

// IDs 返回用户收藏的商品 ID 集合，供列表页标记收藏状态
func (s *WishlistService) IDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.repo.IDsByUser(ctx, userID)
}
