// Package domain 包含商品评论的领域模型
package domain

import (
	"context"

	"gorm.io/gorm"

	userdomain "github.com/wyfcoding/zenstore/internal/user/domain"
)

// Review 商品评论，创建后不可修改
type Review struct {
	gorm.Model
	ProductID uint             `gorm:"column:product_id;index;not null"`
	UserID    uint             `gorm:"column:user_id;index;not null"`
	User      *userdomain.User `gorm:"foreignKey:UserID"`
	Rating    int              `gorm:"column:rating;not null;default:5"`
	Comment   string           `gorm:"column:comment;type:text"`
}

func (Review) TableName() string { return "reviews" }

// ReviewRepository 评论仓储接口
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	// ListByProduct 按创建时间倒序返回某商品的全部评论
	ListByProduct(ctx context.Context, productID uint) ([]Review, error)
}
