// Package http 暴露收藏夹的 HTTP 接口
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/wyfcoding/zenstore/internal/order/application"
	"github.com/wyfcoding/zenstore/internal/wishlist/domain"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

// Wishlist 收藏夹能力
type Wishlist interface {
	Toggle(ctx context.Context, userID, productID uint) (domain.ToggleStatus, error)
	List(ctx context.Context, userID uint) ([]domain.Item, error)
}

// CartSummary 导航栏购物车件数
type CartSummary interface {
	Totals(ctx context.Context, userID uint) (orderapp.CartTotals, error)
}

// WishlistHandler 收藏夹 HTTP 处理器
type WishlistHandler struct {
	wishlist Wishlist
	carts    CartSummary
}

func NewWishlistHandler(wishlist Wishlist, carts CartSummary) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, carts: carts}
}

// RegisterRoutes 注册路由
func (h *WishlistHandler) RegisterRoutes(router *gin.Engine, sessions *middleware.Sessions) {
	router.GET("/wishlist", sessions.RequirePage(), h.List)
	router.POST("/toggle_wishlist", sessions.RequireJSON(), h.Toggle)
}

// WishlistProductResponse 收藏页商品视图
type WishlistProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"imageUrl"`
	IsWishlisted bool    `json:"isWishlisted"`
}

// List 收藏页
func (h *WishlistHandler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	items, err := h.wishlist.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load wishlist"})
		return
	}

	products := make([]WishlistProductResponse, 0, len(items))
	for i := range items {
		if items[i].Product == nil {
			continue
		}
		p := items[i].Product
		products = append(products, WishlistProductResponse{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price.InexactFloat64(),
			ImageURL:     p.ImageURL,
			IsWishlisted: true,
		})
	}

	cartItems := 0
	if totals, err := h.carts.Totals(c.Request.Context(), userID); err == nil {
		cartItems = totals.ItemCount
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"cartItems": cartItems,
	})
}

// ToggleRequest 收藏切换请求
type ToggleRequest struct {
	ProductID uint `json:"productId"`
}

// Toggle 切换收藏状态
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}

	status, err := h.wishlist.Toggle(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}
