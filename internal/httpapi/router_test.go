package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vietcart-be/internal/metrics"
	"vietcart-be/internal/order"
	"vietcart-be/internal/product"
	"vietcart-be/internal/user"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetList(ctx context.Context, opts product.ListOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ReserveStock(ctx context.Context, sku string, quantity int) error {
	return m.Called(ctx, sku, quantity).Error(0)
}

func (m *MockProductService) RestoreStock(ctx context.Context, sku string, quantity int) error {
	return m.Called(ctx, sku, quantity).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Quote(ctx context.Context, req order.QuoteRequest) (*order.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Quote), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID int64, input order.CreateOrderInput) (*order.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context, opts order.ListOptions) ([]*order.Order, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, userID, orderID int64, isAdmin bool) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) TransitionStatus(ctx context.Context, orderID int64, newStatus order.OrderStatus, actingUserID int64, isAdmin bool, note *string) (*order.Order, error) {
	args := m.Called(ctx, orderID, newStatus, actingUserID, isAdmin, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func newTestRouter(t *testing.T, products *MockProductService, orders *MockOrderService) http.Handler {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	return NewRouter(Services{
		Products: products,
		Orders:   orders,
		Metrics:  metrics.NewRegistry(),
	})
}

func bearerToken(t *testing.T, userID int64, role user.Role) string {
	t.Helper()

	token, err := user.GenerateJWT(userID, string(role), "test@vietcart.vn")
	require.NoError(t, err)
	return "Bearer " + token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, handler http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRouter_Healthz(t *testing.T) {
	handler := newTestRouter(t, new(MockProductService), new(MockOrderService))

	rec, env := doRequest(t, handler, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestRouter_ProductBySKU(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		products := new(MockProductService)
		handler := newTestRouter(t, products, new(MockOrderService))

		products.On("GetBySKU", mock.Anything, "AO-THUN-01").
			Return(&product.Product{SKU: "AO-THUN-01", Name: "Áo thun", OriginalPrice: 100000}, nil)

		rec, env := doRequest(t, handler, http.MethodGet, "/api/products/AO-THUN-01", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)

		var p product.Product
		require.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, "AO-THUN-01", p.SKU)
	})

	t.Run("NotFound", func(t *testing.T) {
		products := new(MockProductService)
		handler := newTestRouter(t, products, new(MockOrderService))

		products.On("GetBySKU", mock.Anything, "KHONG-TON-TAI").
			Return(nil, product.ErrProductNotFound)

		rec, env := doRequest(t, handler, http.MethodGet, "/api/products/KHONG-TON-TAI", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "product not found", env.Message)
	})
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	t.Run("AnonymousRejected", func(t *testing.T) {
		handler := newTestRouter(t, new(MockProductService), new(MockOrderService))

		rec, _ := doRequest(t, handler, http.MethodPost, "/api/products/", "", `{"sku":"X"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("CustomerRejected", func(t *testing.T) {
		handler := newTestRouter(t, new(MockProductService), new(MockOrderService))

		rec, _ := doRequest(t, handler, http.MethodPost, "/api/products/",
			bearerToken(t, 7, user.RoleUser), `{"sku":"X"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		products := new(MockProductService)
		handler := newTestRouter(t, products, new(MockOrderService))

		products.On("Create", mock.Anything, mock.AnythingOfType("product.NewProductInput")).
			Return(&product.Product{SKU: "AO-THUN-01"}, nil)

		rec, _ := doRequest(t, handler, http.MethodPost, "/api/products/",
			bearerToken(t, 1, user.RoleAdmin), `{"sku":"AO-THUN-01","name":"Áo thun","original_price":100000,"stock":5}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestRouter_OrdersRequireAuth(t *testing.T) {
	handler := newTestRouter(t, new(MockProductService), new(MockOrderService))

	rec, env := doRequest(t, handler, http.MethodGet, "/api/orders/", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestRouter_OrderStatusUpdate(t *testing.T) {
	t.Run("IllegalTransition", func(t *testing.T) {
		orders := new(MockOrderService)
		handler := newTestRouter(t, new(MockProductService), orders)

		orders.On("TransitionStatus", mock.Anything, int64(1), order.StatusShipped, int64(1), true, (*string)(nil)).
			Return(nil, &order.IllegalTransitionError{From: order.StatusDelivered, To: order.StatusShipped})

		rec, env := doRequest(t, handler, http.MethodPatch, "/api/orders/1/status",
			bearerToken(t, 1, user.RoleAdmin), `{"status":"shipped"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Message, "Không thể chuyển đơn hàng")
	})

	t.Run("Success", func(t *testing.T) {
		orders := new(MockOrderService)
		handler := newTestRouter(t, new(MockProductService), orders)

		orders.On("TransitionStatus", mock.Anything, int64(1), order.StatusConfirmed, int64(1), true, (*string)(nil)).
			Return(&order.Order{ID: 1, Status: order.StatusConfirmed}, nil)

		rec, env := doRequest(t, handler, http.MethodPatch, "/api/orders/1/status",
			bearerToken(t, 1, user.RoleAdmin), `{"status":"confirmed"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})

	t.Run("CustomerForbidden", func(t *testing.T) {
		orders := new(MockOrderService)
		handler := newTestRouter(t, new(MockProductService), orders)

		orders.On("TransitionStatus", mock.Anything, int64(1), order.StatusConfirmed, int64(7), false, (*string)(nil)).
			Return(nil, order.ErrForbidden)

		rec, _ := doRequest(t, handler, http.MethodPatch, "/api/orders/1/status",
			bearerToken(t, 7, user.RoleUser), `{"status":"confirmed"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRouter_RateLimitKeysPerUser(t *testing.T) {
	orders := new(MockOrderService)
	handler := newTestRouter(t, new(MockProductService), orders)

	orders.On("GetOrders", mock.Anything, mock.AnythingOfType("order.ListOptions")).
		Return([]*order.Order{}, nil)

	tokenA := bearerToken(t, 501, user.RoleUser)
	tokenB := bearerToken(t, 502, user.RoleUser)

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/", nil)
		req.RemoteAddr = "203.0.113.7:44123"
		req.Header.Set("Authorization", token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Exhaust the first user's bucket from a shared address.
	throttled := false
	for i := 0; i < 40; i++ {
		if send(tokenA) == http.StatusTooManyRequests {
			throttled = true
			break
		}
	}
	require.True(t, throttled, "first user was never throttled")

	// A second user behind the same address still has a fresh bucket.
	assert.Equal(t, http.StatusOK, send(tokenB))
}

func TestRouter_Quote(t *testing.T) {
	orders := new(MockOrderService)
	handler := newTestRouter(t, new(MockProductService), orders)

	orders.On("Quote", mock.Anything, mock.AnythingOfType("order.QuoteRequest")).
		Return(&order.Quote{Subtotal: 200000, DirectDiscount: 40000, ShippingFee: 20000, TotalPrice: 180000}, nil)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/orders/quote",
		bearerToken(t, 7, user.RoleUser),
		`{"items":[{"sku":"AO-THUN-01","quantity":2}],"shipping_method":"standard"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var q order.Quote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, int64(180000), q.TotalPrice)
}
