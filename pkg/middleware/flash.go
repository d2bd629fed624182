package middleware

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

// FlashCookie 一次性提示消息 cookie 名称
const FlashCookie = "zenstore_flash"

// SetFlash 写入一次性提示消息，供下一个页面请求消费
func SetFlash(c *gin.Context, message string) {
	c.SetCookie(FlashCookie, url.QueryEscape(message), 60, "/", "", false, true)
}

// TakeFlash 读取并清除提示消息，没有则返回空串
func TakeFlash(c *gin.Context) string {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", false, true)
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}
