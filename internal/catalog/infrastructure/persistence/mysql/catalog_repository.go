package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/catalog/domain"
)

type catalogRepository struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) domain.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) SaveCategory(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (r *catalogRepository) SaveProduct(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *catalogRepository) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	return &product, err
}

// ratingSelect 聚合评论得出平均评分与评论数，评分不落库
const ratingSelect = "products.*, AVG(reviews.rating) AS avg_rating, COUNT(reviews.id) AS review_count"

func (r *catalogRepository) ratingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Select(ratingSelect).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id AND reviews.deleted_at IS NULL").
		Group("products.id")
}

func (r *catalogRepository) GetProductView(ctx context.Context, id uint) (*domain.ProductView, error) {
	var view domain.ProductView
	err := r.ratingQuery(ctx).Where("products.id = ?", id).Take(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if view.CategoryID != nil {
		var category domain.Category
		if err := r.db.WithContext(ctx).First(&category, *view.CategoryID).Error; err == nil {
			view.Category = &category
		}
	}
	return &view, nil
}

func (r *catalogRepository) ListFiltered(ctx context.Context, filters domain.Filters) ([]domain.ProductView, error) {
	query := r.ratingQuery(ctx)

	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.MinPrice != nil {
		query = query.Where("products.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filters.MaxPrice)
	}
	if filters.MinRating != nil {
		// HAVING 对 NULL 平均分恒为假，未评分商品自然被排除
		query = query.Having("AVG(reviews.rating) >= ?", *filters.MinRating)
	}

	var views []domain.ProductView
	if err := query.Order("products.id").Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
