package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundtrip(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue(42)
	require.NoError(t, err)

	userID, err := sessions.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseRejectsForeignToken(t *testing.T) {
	token, err := NewSessions("secret-a", time.Hour).Issue(42)
	require.NoError(t, err)

	_, err = NewSessions("secret-b", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	sessions := NewSessions("test-secret", -time.Minute)

	token, err := sessions.Issue(42)
	require.NoError(t, err)

	_, err = sessions.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewSessions("test-secret", time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}

func setupAuthRouter(sessions *Sessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Identify())
	router.GET("/whoami", func(c *gin.Context) {
		if id, ok := CurrentUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"userId": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": 0})
	})
	router.GET("/private", sessions.RequirePage(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/api", sessions.RequireJSON(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestIdentify(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	router := setupAuthRouter(sessions)

	token, err := sessions.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":42}`, w.Body.String())

	// tampered cookie degrades to anonymous instead of failing
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token + "x"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":0}`, w.Body.String())
}

func TestRequirePage(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	router := setupAuthRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	token, err := sessions.Issue(42)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireJSON(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	router := setupAuthRouter(sessions)

	req := httptest.NewRequest(http.MethodPost, "/api", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Please login"}`, w.Body.String())

	token, err := sessions.Issue(42)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
