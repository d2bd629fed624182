// Package domain 包含商品目录的领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrProductNotFound 商品不存在
var ErrProductNotFound = errors.New("product not found")

// Category 商品分类
type Category struct {
	gorm.Model
	Name     string `gorm:"column:name;type:varchar(100);not null"`
	ImageURL string `gorm:"column:image_url;type:varchar(255)"`
}

func (Category) TableName() string { return "categories" }

// Product 商品实体。分类可为空，分类删除后商品保留
type Product struct {
	gorm.Model
	CategoryID  *uint           `gorm:"column:category_id;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	Name        string          `gorm:"column:name;type:varchar(200);not null"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Digital     bool            `gorm:"column:digital;not null;default:false"`
	ImageURL    string          `gorm:"column:image_url;type:varchar(255)"`
	Description string          `gorm:"column:description;type:text"`
}

func (Product) TableName() string { return "products" }

// ProductView 列表/详情视图：商品加上读取时聚合出的评分与收藏标记。
// 评分不落库，始终由评论表聚合得出。
type ProductView struct {
	Product
	// AvgRating 无评论时为 nil（未评分）
	AvgRating    *float64 `gorm:"column:avg_rating"`
	ReviewCount  int64    `gorm:"column:review_count"`
	IsWishlisted bool     `gorm:"-"`
}

// Filters 商品列表过滤条件，各条件为 AND 关系，缺省不限制
type Filters struct {
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	// MinRating 评分下限；无评论的商品不满足任何评分下限
	MinRating *float64
}

// CatalogRepository 目录仓储接口
type CatalogRepository interface {
	SaveCategory(ctx context.Context, category *Category) error
	ListCategories(ctx context.Context) ([]Category, error)
	SaveProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id uint) (*Product, error)
	// GetProductView 返回带评分聚合的单个商品
	GetProductView(ctx context.Context, id uint) (*ProductView, error)
	// ListFiltered 按过滤条件返回带评分聚合的商品列表，按 id 升序
	ListFiltered(ctx context.Context, filters Filters) ([]ProductView, error)
}
