package application

import (
	"context"
	"time"

	"github.com/wyfcoding/zenstore/internal/catalog/domain"
	"github.com/wyfcoding/zenstore/pkg/logger"
)

// WishlistProvider 提供用户已收藏的商品 ID 集合
type WishlistProvider interface {
	IDs(ctx context.Context, userID uint) ([]uint, error)
}

// CategoryCache 分类列表缓存，实现见 pkg/cache
type CategoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	categoriesCacheKey = "catalog:categories"
	categoriesCacheTTL = 5 * time.Minute
)

// CatalogService 目录应用服务
type CatalogService struct {
	repo     domain.CatalogRepository
	wishlist WishlistProvider
	cache    CategoryCache
}

func NewCatalogService(repo domain.CatalogRepository, wishlist WishlistProvider) *CatalogService {
	return &CatalogService{repo: repo, wishlist: wishlist}
}

// WithCache 启用分类列表缓存
func (s *CatalogService) WithCache(cache CategoryCache) *CatalogService {
	s.cache = cache
	return s
}

// Categories 返回全部分类。分类每页都要渲染且极少变化，
// 缓存短 TTL，缓存故障时直接回源。
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	if s.cache != nil {
		var cached []domain.Category
		if err := s.cache.Get(ctx, categoriesCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, categories, categoriesCacheTTL); err != nil {
			logger.Warn(ctx, "categories cache write failed", "error", err)
		}
	}
	return categories, nil
}

// GetProduct 返回商品原始记录
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// GetProductView 返回带评分聚合与收藏标记的商品详情。
// userID 为 0 表示匿名访问，收藏标记恒为 false。
func (s *CatalogService) GetProductView(ctx context.Context, id uint, userID uint) (*domain.ProductView, error) {
	view, err := s.repo.GetProductView(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != 0 {
		ids, err := s.wishlist.IDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if id == view.ID {
				view.IsWishlisted = true
				break
			}
		}
	}
	return view, nil
}

// ListProducts 按过滤条件返回商品列表并标记收藏状态
func (s *CatalogService) ListProducts(ctx context.Context, filters domain.Filters, userID uint) ([]domain.ProductView, error) {
	views, err := s.repo.ListFiltered(ctx, filters)
	if err != nil {
		return nil, err
	}

	if userID != 0 && len(views) > 0 {
		ids, err := s.wishlist.IDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		wishlisted := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			wishlisted[id] = struct{}{}
		}
		for i := range views {
			_, views[i].IsWishlisted = wishlisted[views[i].ID]
		}
	}
	return views, nil
}

// CreateCategory 新建分类并使缓存失效
func (s *CatalogService) CreateCategory(ctx context.Context, name, imageURL string) (*domain.Category, error) {
	category := &domain.Category{Name: name, ImageURL: imageURL}
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
			logger.Warn(ctx, "categories cache invalidation failed", "error", err)
		}
	}
	return category, nil
}

// CreateProduct 新建商品
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	return s.repo.SaveProduct(ctx, product)
}
