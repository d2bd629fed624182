package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie 会话 cookie 名称
const SessionCookie = "zenstore_session"

// UserIDKey gin context key for the authenticated user ID
const UserIDKey = "user_id"

// Sessions 基于 JWT cookie 的会话管理
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions 创建会话管理器
func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Issue 为用户签发会话令牌
func (s *Sessions) Issue(userID uint) (string, error) {
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse 解析会话令牌，返回用户 ID
func (s *Sessions) Parse(tokenString string) (uint, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid session token")
	}
	return claims.UserID, nil
}

// SetCookie 写入会话 cookie
func (s *Sessions) SetCookie(c *gin.Context, userID uint) error {
	token, err := s.Issue(userID)
	if err != nil {
		return err
	}
	c.SetCookie(SessionCookie, token, int(s.ttl.Seconds()), "/", "", false, true)
	return nil
}

// ClearCookie 清除会话 cookie
func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// Identify 可选鉴权中间件：有合法会话则注入 user_id，匿名请求放行
func (s *Sessions) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if userID, err := s.Parse(token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// RequireJSON 强制鉴权中间件：匿名请求返回 403 JSON
func (s *Sessions) RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Please login",
			})
			return
		}
		c.Next()
	}
}

// RequirePage 强制鉴权中间件：匿名请求重定向到登录页
func (s *Sessions) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 获取当前会话用户 ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
