package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/wyfcoding/zenstore/internal/order/application"
	orderdomain "github.com/wyfcoding/zenstore/internal/order/domain"
	"github.com/wyfcoding/zenstore/internal/user/domain"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

type fakeAccounts struct {
	users  map[string]*domain.User
	nextID uint
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeAccounts) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user := &domain.User{Email: email, PasswordHash: password, FirstName: firstName, LastName: lastName}
	user.ID = f.nextID
	f.nextID++
	f.users[email] = user
	return user, nil
}

func (f *fakeAccounts) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, ok := f.users[email]
	if !ok || user.PasswordHash != password {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeAccounts) Get(ctx context.Context, id uint) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = update.FirstName
	user.Phone = update.Phone
	user.Address = update.Address
	return user, nil
}

type fakeHistory struct{ orders []orderdomain.Order }

func (f *fakeHistory) CompletedOrders(ctx context.Context, userID uint) ([]orderdomain.Order, error) {
	return f.orders, nil
}

type fakeCarts struct{}

func (fakeCarts) Totals(ctx context.Context, userID uint) (orderapp.CartTotals, error) {
	return orderapp.CartTotals{ItemCount: 1, Total: decimal.Zero}, nil
}

func setupUserRouter(t *testing.T, accounts *fakeAccounts, history *fakeHistory) (*gin.Engine, *middleware.Sessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := middleware.NewSessions("test-secret", time.Hour)
	router := gin.New()
	router.Use(sessions.Identify())
	NewUserHandler(accounts, history, fakeCarts{}, sessions).RegisterRoutes(router)
	return router, sessions
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestRegisterCreatesSession(t *testing.T) {
	router, sessions := setupUserRouter(t, newFakeAccounts(), &fakeHistory{})

	form := url.Values{
		"email":      {"jane@example.com"},
		"password":   {"secret"},
		"first_name": {"Jane"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/register", form))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie, "registration must log the user in")
	userID, err := sessions.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts := newFakeAccounts()
	_, err := accounts.Register(context.Background(), "jane@example.com", "secret", "Jane", "")
	require.NoError(t, err)
	router, _ := setupUserRouter(t, accounts, &fakeHistory{})

	form := url.Values{"email": {"jane@example.com"}, "password": {"other"}}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/register", form))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Email already registered", body["message"])
}

func TestLogin(t *testing.T) {
	accounts := newFakeAccounts()
	_, err := accounts.Register(context.Background(), "jane@example.com", "secret", "Jane", "")
	require.NoError(t, err)
	router, _ := setupUserRouter(t, accounts, &fakeHistory{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/login", url.Values{"email": {"jane@example.com"}, "password": {"secret"}}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotNil(t, sessionCookie(t, w))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/login", url.Values{"email": {"jane@example.com"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginPageRedirectsAuthenticated(t *testing.T) {
	router, sessions := setupUserRouter(t, newFakeAccounts(), &fakeHistory{})

	token, err := sessions.Issue(1)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	router, sessions := setupUserRouter(t, newFakeAccounts(), &fakeHistory{})

	token, err := sessions.Issue(1)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value, "logout must clear the session cookie")
}

func TestProfile(t *testing.T) {
	accounts := newFakeAccounts()
	user, err := accounts.Register(context.Background(), "jane@example.com", "secret", "Jane", "Doe")
	require.NoError(t, err)

	uid := user.ID
	order := orderdomain.Order{
		UserID:        &uid,
		Status:        orderdomain.OrderStatusComplete,
		TransactionID: "TXN-1-ABCD1234",
	}
	order.ID = 9
	order.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	router, sessions := setupUserRouter(t, accounts, &fakeHistory{orders: []orderdomain.Order{order}})

	token, err := sessions.Issue(user.ID)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Profile struct {
			Email     string `json:"email"`
			FirstName string `json:"firstName"`
		} `json:"profile"`
		Orders    []OrderSummaryResponse `json:"orders"`
		CartItems int                    `json:"cartItems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "jane@example.com", body.Profile.Email)
	assert.Equal(t, "Jane", body.Profile.FirstName)
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "TXN-1-ABCD1234", body.Orders[0].TransactionID)
	assert.Equal(t, 1, body.CartItems)
}

func TestProfileRequiresLogin(t *testing.T) {
	router, _ := setupUserRouter(t, newFakeAccounts(), &fakeHistory{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
