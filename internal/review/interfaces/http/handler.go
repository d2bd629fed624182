// Package http 暴露评论提交的 HTTP 接口
package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/zenstore/internal/review/domain"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

// ReviewWriter 评论写入能力
type ReviewWriter interface {
	Add(ctx context.Context, userID, productID uint, rating int, comment string) (*domain.Review, error)
}

// ReviewHandler 评论 HTTP 处理器
type ReviewHandler struct {
	reviews ReviewWriter
}

func NewReviewHandler(reviews ReviewWriter) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes 注册路由。提交评论挂在商品详情页的 POST 上。
func (h *ReviewHandler) RegisterRoutes(router *gin.Engine, sessions *middleware.Sessions) {
	router.POST("/product/:id", sessions.RequirePage(), h.Submit)
}

// ReviewForm 评论表单
type ReviewForm struct {
	Rating  int    `form:"rating" json:"rating"`
	Comment string `form:"comment" json:"comment"`
}

// Submit 追加评论后回到详情页
func (h *ReviewHandler) Submit(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Product not found"})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	var form ReviewForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid data"})
		return
	}
	if form.Rating == 0 {
		form.Rating = 5
	}

	if _, err := h.reviews.Add(c.Request.Context(), userID, uint(productID), form.Rating, form.Comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to save review"})
		return
	}

	c.Redirect(http.StatusFound, "/product/"+c.Param("id"))
}
