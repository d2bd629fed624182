// Package http 暴露商品目录的 HTTP 接口
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/zenstore/internal/catalog/domain"
	orderapp "github.com/wyfcoding/zenstore/internal/order/application"
	reviewdomain "github.com/wyfcoding/zenstore/internal/review/domain"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

// Catalog 目录查询能力
type Catalog interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	ListProducts(ctx context.Context, filters domain.Filters, userID uint) ([]domain.ProductView, error)
	GetProductView(ctx context.Context, id uint, userID uint) (*domain.ProductView, error)
}

// Reviews 商品评论读取能力
type Reviews interface {
	ListByProduct(ctx context.Context, productID uint) ([]reviewdomain.Review, error)
}

// Purchases 详情页展示用的已购标记
type Purchases interface {
	HasPurchased(ctx context.Context, userID, productID uint) (bool, error)
}

// CartSummary 导航栏购物车件数，每次请求从存储重新计算
type CartSummary interface {
	Totals(ctx context.Context, userID uint) (orderapp.CartTotals, error)
}

// CatalogHandler 目录 HTTP 处理器
type CatalogHandler struct {
	catalog Catalog
	reviews Reviews
	orders  Purchases
	carts   CartSummary
}

func NewCatalogHandler(catalog Catalog, reviews Reviews, orders Purchases, carts CartSummary) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, reviews: reviews, orders: orders, carts: carts}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Home)
	router.GET("/products", h.Products)
	router.GET("/product/:id", h.ProductDetail)
}

// CategoryResponse 分类视图
type CategoryResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// ProductResponse 商品视图
type ProductResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Price        float64           `json:"price"`
	Stock        int               `json:"stock"`
	Digital      bool              `json:"digital"`
	ImageURL     string            `json:"imageUrl"`
	Description  string            `json:"description"`
	Category     *CategoryResponse `json:"category"`
	AvgRating    *float64          `json:"avgRating"`
	ReviewCount  int64             `json:"reviewCount"`
	IsWishlisted bool              `json:"isWishlisted"`
}

func productResponse(view *domain.ProductView) ProductResponse {
	resp := ProductResponse{
		ID:           view.ID,
		Name:         view.Name,
		Price:        view.Price.InexactFloat64(),
		Stock:        view.Stock,
		Digital:      view.Digital,
		ImageURL:     view.ImageURL,
		Description:  view.Description,
		AvgRating:    view.AvgRating,
		ReviewCount:  view.ReviewCount,
		IsWishlisted: view.IsWishlisted,
	}
	if view.Category != nil {
		resp.Category = &CategoryResponse{
			ID:       view.Category.ID,
			Name:     view.Category.Name,
			ImageURL: view.Category.ImageURL,
		}
	}
	return resp
}

func (h *CatalogHandler) cartItems(c *gin.Context) int {
	userID, _ := middleware.CurrentUserID(c)
	totals, err := h.carts.Totals(c.Request.Context(), userID)
	if err != nil {
		return 0
	}
	return totals.ItemCount
}

// Home 首页：分类列表
func (h *CatalogHandler) Home(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load categories"})
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, CategoryResponse{ID: cat.ID, Name: cat.Name, ImageURL: cat.ImageURL})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": resp,
		"cartItems":  h.cartItems(c),
		"flash":      middleware.TakeFlash(c),
	})
}

// parseFilters 解析列表过滤参数，非法值按缺省处理
func parseFilters(c *gin.Context) domain.Filters {
	var filters domain.Filters

	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filters.CategoryID = &categoryID
		}
	}
	if raw := c.Query("min_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filters.MinPrice = &price
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filters.MaxPrice = &price
		}
	}
	if raw := c.Query("rating"); raw != "" {
		if rating, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MinRating = &rating
		}
	}
	return filters
}

func isPartialRequest(c *gin.Context) bool {
	return c.Query("ajax") == "true" || c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// Products 过滤商品列表；AJAX 请求仅返回商品片段
func (h *CatalogHandler) Products(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	filters := parseFilters(c)

	views, err := h.catalog.ListProducts(c.Request.Context(), filters, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load products"})
		return
	}

	products := make([]ProductResponse, 0, len(views))
	for i := range views {
		products = append(products, productResponse(&views[i]))
	}

	if isPartialRequest(c) {
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load categories"})
		return
	}
	categoryResp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		categoryResp = append(categoryResp, CategoryResponse{ID: cat.ID, Name: cat.Name, ImageURL: cat.ImageURL})
	}

	c.JSON(http.StatusOK, gin.H{
		"products":       products,
		"categories":     categoryResp,
		"cartItems":      h.cartItems(c),
		"activeCategory": c.Query("category"),
		"activeMin":      c.Query("min_price"),
		"activeMax":      c.Query("max_price"),
		"activeRating":   c.Query("rating"),
	})
}

// ReviewResponse 评论视图
type ReviewResponse struct {
	ID        uint   `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Reviewer  string `json:"reviewer"`
	CreatedAt string `json:"createdAt"`
}

// ProductDetail 商品详情：评分聚合、评论、已购与收藏标记
func (h *CatalogHandler) ProductDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Product not found"})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	view, err := h.catalog.GetProductView(c.Request.Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load product"})
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load reviews"})
		return
	}
	reviewResp := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		r := ReviewResponse{
			ID:        reviews[i].ID,
			Rating:    reviews[i].Rating,
			Comment:   reviews[i].Comment,
			CreatedAt: reviews[i].CreatedAt.Format("2006-01-02 15:04"),
		}
		if reviews[i].User != nil {
			r.Reviewer = reviews[i].User.Email
		}
		reviewResp = append(reviewResp, r)
	}

	hasPurchased := false
	if userID != 0 {
		hasPurchased, _ = h.orders.HasPurchased(c.Request.Context(), userID, uint(id))
	}

	c.JSON(http.StatusOK, gin.H{
		"product":      productResponse(view),
		"reviews":      reviewResp,
		"hasPurchased": hasPurchased,
		"isWishlisted": view.IsWishlisted,
		"cartItems":    h.cartItems(c),
	})
}
