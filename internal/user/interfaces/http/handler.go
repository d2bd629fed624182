// Package http 暴露账号与个人资料的 HTTP 接口
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/wyfcoding/zenstore/internal/order/application"
	orderdomain "github.com/wyfcoding/zenstore/internal/order/domain"
	"github.com/wyfcoding/zenstore/internal/user/domain"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

// Accounts 账号能力
type Accounts interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error)
}

// OrderHistory 个人主页展示的历史订单
type OrderHistory interface {
	CompletedOrders(ctx context.Context, userID uint) ([]orderdomain.Order, error)
}

// CartSummary 导航栏购物车件数
type CartSummary interface {
	Totals(ctx context.Context, userID uint) (orderapp.CartTotals, error)
}

// UserHandler 账号 HTTP 处理器
type UserHandler struct {
	accounts Accounts
	orders   OrderHistory
	carts    CartSummary
	sessions *middleware.Sessions
}

func NewUserHandler(accounts Accounts, orders OrderHistory, carts CartSummary, sessions *middleware.Sessions) *UserHandler {
	return &UserHandler{accounts: accounts, orders: orders, carts: carts, sessions: sessions}
}

// RegisterRoutes 注册路由。throttle 挂在凭据接口上限流，可省略。
func (h *UserHandler) RegisterRoutes(router *gin.Engine, throttle ...gin.HandlerFunc) {
	withThrottle := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(throttle)+1)
		chain = append(chain, throttle...)
		return append(chain, handler)
	}

	router.GET("/register", h.RegisterPage)
	router.POST("/register", withThrottle(h.Register)...)
	router.GET("/login", h.LoginPage)
	router.POST("/login", withThrottle(h.Login)...)
	router.GET("/logout", h.Logout)

	page := router.Group("/", h.sessions.RequirePage())
	{
		page.GET("/profile", h.Profile)
		page.POST("/profile", h.UpdateProfile)
	}
}

// RegisterPage 注册页，已登录用户回到首页
func (h *UserHandler) RegisterPage(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flash": middleware.TakeFlash(c)})
}

// RegisterForm 注册表单
type RegisterForm struct {
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

// Register 创建账号并登录
func (h *UserHandler) Register(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil || form.Email == "" || form.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), form.Email, form.Password, form.FirstName, form.LastName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "registration failed"})
		return
	}

	if err := h.sessions.SetCookie(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "registration failed"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// LoginPage 登录页，已登录用户回到首页
func (h *UserHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flash": middleware.TakeFlash(c)})
}

// LoginForm 登录表单
type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Login 校验凭据并建立会话
func (h *UserHandler) Login(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form LoginForm
	if err := c.ShouldBind(&form); err != nil || form.Email == "" || form.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			middleware.SetFlash(c, "Invalid credentials")
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "login failed"})
		return
	}

	if err := h.sessions.SetCookie(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "login failed"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout 清除会话并回到登录页
func (h *UserHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

// OrderSummaryResponse 历史订单视图
type OrderSummaryResponse struct {
	ID            uint    `json:"id"`
	TransactionID string  `json:"transactionId"`
	ItemCount     int     `json:"itemCount"`
	Total         float64 `json:"total"`
	DateOrdered   string  `json:"dateOrdered"`
}

// Profile 个人主页：资料与历史订单
func (h *UserHandler) Profile(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	user, err := h.accounts.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load profile"})
		return
	}

	orders, err := h.orders.CompletedOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load orders"})
		return
	}
	orderResp := make([]OrderSummaryResponse, 0, len(orders))
	for i := range orders {
		orderResp = append(orderResp, OrderSummaryResponse{
			ID:            orders[i].ID,
			TransactionID: orders[i].TransactionID,
			ItemCount:     orders[i].ItemCount(),
			Total:         orders[i].Total().InexactFloat64(),
			DateOrdered:   orders[i].CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	cartItems := 0
	if totals, err := h.carts.Totals(c.Request.Context(), userID); err == nil {
		cartItems = totals.ItemCount
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"phone":     user.Phone,
			"address":   user.Address,
			"city":      user.City,
			"zipcode":   user.Zipcode,
		},
		"orders":    orderResp,
		"cartItems": cartItems,
		"flash":     middleware.TakeFlash(c),
	})
}

// ProfileForm 资料表单
type ProfileForm struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Phone     string `form:"phone_number" json:"phone_number"`
	Address   string `form:"address" json:"address"`
	City      string `form:"city" json:"city"`
	Zipcode   string `form:"zipcode" json:"zipcode"`
}

// UpdateProfile 更新资料后回到个人主页
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}

	update := domain.ProfileUpdate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Address:   form.Address,
		City:      form.City,
		Zipcode:   form.Zipcode,
	}
	if _, err := h.accounts.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to update profile"})
		return
	}

	middleware.SetFlash(c, "Profile Updated")
	c.Redirect(http.StatusFound, "/profile")
}
