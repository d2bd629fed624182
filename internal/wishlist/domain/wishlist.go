// Package domain 包含收藏夹的领域模型
package domain

import (
	"context"

	"gorm.io/gorm"

	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
)

// ToggleStatus 切换结果
type ToggleStatus string

const (
	StatusAdded   ToggleStatus = "added"
	StatusRemoved ToggleStatus = "removed"
)

// Item 收藏条目，(user, product) 唯一
type Item struct {
	gorm.Model
	UserID    uint                   `gorm:"column:user_id;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint                   `gorm:"column:product_id;not null;uniqueIndex:idx_wishlist_user_product"`
	Product   *catalogdomain.Product `gorm:"foreignKey:ProductID"`
}

func (Item) TableName() string { return "wishlist_items" }

// WishlistRepository 收藏夹仓储接口
type WishlistRepository interface {
	Get(ctx context.Context, userID, productID uint) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Delete(ctx context.Context, item *Item) error
	ListByUser(ctx context.Context, userID uint) ([]Item, error)
	IDsByUser(ctx context.Context, userID uint) ([]uint, error)
}
