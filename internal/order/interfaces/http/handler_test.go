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

	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
	"github.com/wyfcoding/zenstore/internal/order/application"
	"github.com/wyfcoding/zenstore/internal/order/domain"
	userdomain "github.com/wyfcoding/zenstore/internal/user/domain"
	"github.com/wyfcoding/zenstore/pkg/middleware"
)

type fakeCartEngine struct {
	cart        *domain.Order
	addErr      error
	finalizeErr error
	finalizeTxn string
}

func (f *fakeCartEngine) ActiveCart(ctx context.Context, userID uint) (*domain.Order, error) {
	if userID == 0 {
		return nil, nil
	}
	return f.cart, nil
}

func (f *fakeCartEngine) Totals(ctx context.Context, userID uint) (application.CartTotals, error) {
	if f.cart == nil {
		return application.CartTotals{Total: decimal.Zero}, nil
	}
	return application.CartTotals{ItemCount: f.cart.ItemCount(), Total: f.cart.Total()}, nil
}

func (f *fakeCartEngine) AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.Order, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.cart, nil
}

func (f *fakeCartEngine) RemoveOneUnit(ctx context.Context, userID, productID uint) (*domain.Order, error) {
	return f.cart, nil
}

func (f *fakeCartEngine) Finalize(ctx context.Context, userID uint) (string, error) {
	if f.finalizeErr != nil {
		return "", f.finalizeErr
	}
	return f.finalizeTxn, nil
}

type fakeProfiles struct {
	user *userdomain.User
}

func (f *fakeProfiles) Get(ctx context.Context, id uint) (*userdomain.User, error) {
	return f.user, nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, id uint, update userdomain.ProfileUpdate) (*userdomain.User, error) {
	f.user.FirstName = update.FirstName
	f.user.Address = update.Address
	f.user.City = update.City
	f.user.Zipcode = update.Zipcode
	return f.user, nil
}

func cartWith(qty int, price string) *domain.Order {
	uid := uint(7)
	product := &catalogdomain.Product{Name: "Mug", Price: decimal.RequireFromString(price)}
	product.ID = 1
	pid := product.ID
	order := &domain.Order{
		UserID:     &uid,
		OpenUserID: &uid,
		Status:     domain.OrderStatusOpen,
		Items: []domain.OrderItem{
			{OrderID: 1, ProductID: &pid, Product: product, Quantity: qty},
		},
	}
	order.ID = 1
	return order
}

func setupRouter(t *testing.T, engine *fakeCartEngine, profiles *fakeProfiles) (*gin.Engine, *middleware.Sessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := middleware.NewSessions("test-secret", time.Hour)
	router := gin.New()
	router.Use(sessions.Identify())
	NewOrderHandler(engine, profiles).RegisterRoutes(router, sessions)
	return router, sessions
}

func authed(t *testing.T, sessions *middleware.Sessions, req *http.Request, userID uint) {
	t.Helper()
	token, err := sessions.Issue(userID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
}

func TestUpdateItemRequiresLogin(t *testing.T) {
	router, _ := setupRouter(t, &fakeCartEngine{}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodPost, "/update_item", strings.NewReader(`{"productId":1,"action":"add"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Please login", body["message"])
}

func TestUpdateItem(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeCartEngine
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "add success returns item count",
			engine:     &fakeCartEngine{cart: cartWith(3, "10.00")},
			body:       `{"productId":1,"action":"add"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "remove success",
			engine:     &fakeCartEngine{cart: cartWith(3, "10.00")},
			body:       `{"productId":1,"action":"remove"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown product",
			engine:     &fakeCartEngine{addErr: catalogdomain.ErrProductNotFound},
			body:       `{"productId":99,"action":"add"}`,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Product not found",
		},
		{
			name:       "insufficient stock",
			engine:     &fakeCartEngine{addErr: domain.ErrInsufficientStock},
			body:       `{"productId":1,"action":"add"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Not enough stock!",
		},
		{
			name:       "unknown action",
			engine:     &fakeCartEngine{},
			body:       `{"productId":1,"action":"destroy"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid data",
		},
		{
			name:       "missing product id",
			engine:     &fakeCartEngine{},
			body:       `{"action":"add"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, sessions := setupRouter(t, tt.engine, &fakeProfiles{})

			req := httptest.NewRequest(http.MethodPost, "/update_item", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			authed(t, sessions, req, 7)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "success", body["status"])
				assert.Equal(t, float64(3), body["cartTotal"])
			} else {
				assert.Equal(t, "error", body["status"])
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestCartAnonymousPlaceholder(t *testing.T) {
	router, _ := setupRouter(t, &fakeCartEngine{cart: cartWith(2, "10.00")}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.ItemCount)
	assert.Zero(t, body.Total)
	assert.Empty(t, body.Items)
}

func TestCartAuthenticated(t *testing.T) {
	router, sessions := setupRouter(t, &fakeCartEngine{cart: cartWith(2, "10.00")}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	authed(t, sessions, req, 7)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.ItemCount)
	assert.Equal(t, 20.0, body.Total)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Mug", body.Items[0].Name)
	assert.Equal(t, 20.0, body.Items[0].LineTotal)
}

func TestCheckoutPageEmptyCartRedirects(t *testing.T) {
	router, sessions := setupRouter(t, &fakeCartEngine{}, &fakeProfiles{user: &userdomain.User{}})

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	authed(t, sessions, req, 7)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))
}

func TestCheckoutPageAnonymousRedirectsToLogin(t *testing.T) {
	router, _ := setupRouter(t, &fakeCartEngine{}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCheckoutSubmitSavesAddress(t *testing.T) {
	profiles := &fakeProfiles{user: &userdomain.User{}}
	router, sessions := setupRouter(t, &fakeCartEngine{cart: cartWith(1, "10.00")}, profiles)

	form := url.Values{
		"first_name": {"Jane"},
		"address":    {"1 Main St"},
		"city":       {"Springfield"},
		"zipcode":    {"12345"},
	}
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	authed(t, sessions, req, 7)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/payment", w.Header().Get("Location"))
	assert.Equal(t, "1 Main St", profiles.user.Address)
}

func TestPaymentPageWithoutAddressRedirects(t *testing.T) {
	router, sessions := setupRouter(t, &fakeCartEngine{cart: cartWith(1, "10.00")}, &fakeProfiles{user: &userdomain.User{FirstName: "Jane"}})

	req := httptest.NewRequest(http.MethodGet, "/payment", nil)
	authed(t, sessions, req, 7)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/checkout", w.Header().Get("Location"))
}

func TestPaymentPageWithAddress(t *testing.T) {
	user := &userdomain.User{Address: "1 Main St", City: "Springfield", Zipcode: "12345"}
	router, sessions := setupRouter(t, &fakeCartEngine{cart: cartWith(2, "10.00")}, &fakeProfiles{user: user})

	req := httptest.NewRequest(http.MethodGet, "/payment", nil)
	authed(t, sessions, req, 7)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["cartItems"])
	assert.Equal(t, 20.0, body["cartTotal"])
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeCartEngine
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "success returns transaction id",
			engine:     &fakeCartEngine{finalizeTxn: "TXN-1-ABCD1234"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no active cart",
			engine:     &fakeCartEngine{finalizeErr: domain.ErrNoActiveCart},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "no active cart",
		},
		{
			name:       "empty cart",
			engine:     &fakeCartEngine{finalizeErr: domain.ErrEmptyCart},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "cart is empty",
		},
		{
			name:       "stock drained before payment",
			engine:     &fakeCartEngine{finalizeErr: domain.ErrInsufficientStock},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "not enough stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, sessions := setupRouter(t, tt.engine, &fakeProfiles{})

			req := httptest.NewRequest(http.MethodPost, "/verify_payment", nil)
			authed(t, sessions, req, 7)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "success", body["status"])
				assert.Equal(t, "TXN-1-ABCD1234", body["transactionId"])
			} else {
				assert.Equal(t, "error", body["status"])
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestInitiatePayment(t *testing.T) {
	router, _ := setupRouter(t, &fakeCartEngine{}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodPost, "/initiate_payment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}
