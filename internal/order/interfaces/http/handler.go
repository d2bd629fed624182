// Package http 暴露购物车与结算的 HTTP 接口
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
	"github.com/wyfcoding/zenstore/internal/order/application"
	"github.com/wyfcoding/zenstore/internal/order/domain"
	userdomain "github.com/wyfcoding/zenstore/internal/user/domain"
	"github.com/wyfcoding/zenstore/pkg/logger"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

// CartEngine 购物车/订单引擎能力
type CartEngine interface {
	ActiveCart(ctx context.Context, userID uint) (*domain.Order, error)
	Totals(ctx context.Context, userID uint) (application.CartTotals, error)
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.Order, error)
	RemoveOneUnit(ctx context.Context, userID, productID uint) (*domain.Order, error)
	Finalize(ctx context.Context, userID uint) (string, error)
}

// ProfileService 结算流程需要的用户资料能力
type ProfileService interface {
	Get(ctx context.Context, id uint) (*userdomain.User, error)
	UpdateProfile(ctx context.Context, id uint, update userdomain.ProfileUpdate) (*userdomain.User, error)
}

// CheckoutMetrics 结算环节的业务指标
type CheckoutMetrics interface {
	OrderCompleted()
	CheckoutFailed(reason string)
}

// OrderHandler 购物车与结算 HTTP 处理器
type OrderHandler struct {
	carts   CartEngine
	users   ProfileService
	metrics CheckoutMetrics
}

func NewOrderHandler(carts CartEngine, users ProfileService) *OrderHandler {
	return &OrderHandler{carts: carts, users: users}
}

// WithMetrics 挂载结算指标
func (h *OrderHandler) WithMetrics(m CheckoutMetrics) *OrderHandler {
	h.metrics = m
	return h
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.Engine, sessions *middleware.Sessions) {
	router.GET("/cart", h.Cart)

	page := router.Group("/", sessions.RequirePage())
	{
		page.GET("/checkout", h.CheckoutPage)
		page.POST("/checkout", h.CheckoutSubmit)
		page.GET("/payment", h.PaymentPage)
	}

	router.POST("/update_item", sessions.RequireJSON(), h.UpdateItem)
	router.POST("/initiate_payment", h.InitiatePayment)
	router.POST("/verify_payment", sessions.RequireJSON(), h.VerifyPayment)
}

// ItemResponse 订单行视图
type ItemResponse struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Digital   bool    `json:"digital"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartResponse 购物车视图，匿名访客为零值占位
type CartResponse struct {
	ItemCount int            `json:"cartItems"`
	Total     float64        `json:"cartTotal"`
	Items     []ItemResponse `json:"items"`
}

func cartResponse(cart *domain.Order) CartResponse {
	resp := CartResponse{Items: []ItemResponse{}}
	if cart == nil {
		return resp
	}
	resp.ItemCount = cart.ItemCount()
	resp.Total = cart.Total().InexactFloat64()
	for i := range cart.Items {
		item := &cart.Items[i]
		r := ItemResponse{
			ID:        item.ID,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().InexactFloat64(),
		}
		if item.ProductID != nil {
			r.ProductID = *item.ProductID
		}
		if item.Product != nil {
			r.Name = item.Product.Name
			r.Price = item.Product.Price.InexactFloat64()
			r.ImageURL = item.Product.ImageURL
			r.Digital = item.Product.Digital
		}
		resp.Items = append(resp.Items, r)
	}
	return resp
}

// Cart 渲染当前购物车，匿名访客得到零值占位
func (h *OrderHandler) Cart(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	cart, err := h.carts.ActiveCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// CheckoutPage 结算页，空购物车回到商品列表
func (h *OrderHandler) CheckoutPage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	cart, err := h.carts.ActiveCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load cart"})
		return
	}
	if cart == nil || cart.ItemCount() == 0 {
		c.Redirect(http.StatusFound, "/products")
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load profile"})
		return
	}

	resp := cartResponse(cart)
	c.JSON(http.StatusOK, gin.H{
		"cartItems": resp.ItemCount,
		"cartTotal": resp.Total,
		"items":     resp.Items,
		"shipping": gin.H{
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"phone":     user.Phone,
			"address":   user.Address,
			"city":      user.City,
			"zipcode":   user.Zipcode,
		},
		"flash": middleware.TakeFlash(c),
	})
}

// CheckoutForm 收货信息表单
type CheckoutForm struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Phone     string `form:"phone" json:"phone"`
	Address   string `form:"address" json:"address"`
	City      string `form:"city" json:"city"`
	Zipcode   string `form:"zipcode" json:"zipcode"`
}

// CheckoutSubmit 保存收货信息后进入支付页
func (h *OrderHandler) CheckoutSubmit(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var form CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}

	update := userdomain.ProfileUpdate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Address:   form.Address,
		City:      form.City,
		Zipcode:   form.Zipcode,
	}
	if _, err := h.users.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to save address"})
		return
	}

	c.Redirect(http.StatusFound, "/payment")
}

// PaymentPage 支付页：空购物车回列表，未填地址回结算页
func (h *OrderHandler) PaymentPage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	cart, err := h.carts.ActiveCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load cart"})
		return
	}
	if cart == nil || cart.ItemCount() == 0 {
		c.Redirect(http.StatusFound, "/products")
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load profile"})
		return
	}
	if !user.HasShippingAddress() {
		middleware.SetFlash(c, "Please enter shipping address")
		c.Redirect(http.StatusFound, "/checkout")
		return
	}

	resp := cartResponse(cart)
	c.JSON(http.StatusOK, gin.H{
		"cartItems": resp.ItemCount,
		"cartTotal": resp.Total,
		"items":     resp.Items,
	})
}

// UpdateItemRequest 购物车变更请求
type UpdateItemRequest struct {
	ProductID uint   `json:"productId"`
	Action    string `json:"action"`
	Quantity  int    `json:"quantity"`
}

// UpdateItem 购物车加减商品
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	var cart *domain.Order
	var err error
	switch req.Action {
	case "add":
		cart, err = h.carts.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	case "remove":
		cart, err = h.carts.RemoveOneUnit(c.Request.Context(), userID, req.ProductID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Product not found"})
		case errors.Is(err, domain.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Not enough stock!"})
		default:
			logger.Error(c.Request.Context(), "cart update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "cart update failed"})
		}
		return
	}

	count := 0
	if cart != nil {
		count = cart.ItemCount()
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "cartTotal": count})
}

// InitiatePayment 模拟支付初始化，仅返回就绪状态
func (h *OrderHandler) InitiatePayment(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// VerifyPayment 模拟支付确认，执行订单结算转换
func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	transactionID, err := h.carts.Finalize(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActiveCart):
			h.checkoutFailed("no_active_cart")
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		case errors.Is(err, domain.ErrEmptyCart):
			h.checkoutFailed("empty_cart")
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		case errors.Is(err, domain.ErrInsufficientStock):
			h.checkoutFailed("insufficient_stock")
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		default:
			h.checkoutFailed("internal")
			logger.Error(c.Request.Context(), "order finalize failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "payment verification failed"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.OrderCompleted()
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "transactionId": transactionID})
}

func (h *OrderHandler) checkoutFailed(reason string) {
	if h.metrics != nil {
		h.metrics.CheckoutFailed(reason)
	}
}
