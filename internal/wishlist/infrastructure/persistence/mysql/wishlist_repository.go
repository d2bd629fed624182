package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/wishlist/domain"
)

type wishlistRepository struct{ db *gorm.DB }

func NewWishlistRepository(db *gorm.DB) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Get(ctx context.Context, userID, productID uint) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	return &item, err
}

func (r *wishlistRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *wishlistRepository) Delete(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Unscoped().Delete(item).Error
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *wishlistRepository) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	return ids, err
}
