package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"byteshop-be/internal/metrics"
	"byteshop-be/internal/middleware"
	"byteshop-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, params UpdateParams) (*MutationResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MutationResult), args.Error(1)
}

func (m *MockService) Remove(ctx context.Context, params RemoveParams) (*MutationResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MutationResult), args.Error(1)
}

func (m *MockService) Clear(ctx context.Context, customerID uint) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockService) Lines(ctx context.Context, customerID uint) ([]Line, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Line), args.Error(1)
}

func newTestRouter(svc Service) http.Handler {
	h := NewHandler(svc, &metrics.CartMetrics{})
	r := chi.NewRouter()
	r.Route("/api/cart", h.Routes)
	return r
}

func doJSON(t *testing.T, router http.Handler, path string, body any, customerID uint) (*httptest.ResponseRecorder, transport.Envelope) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	if customerID != 0 {
		ctx := context.WithValue(req.Context(), middleware.CustomerIDKey, customerID)
		req = req.WithContext(ctx)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env transport.Envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestHandler_Update(t *testing.T) {
	t.Run("Success returns subtotal and count", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Update", mock.Anything, UpdateParams{CustomerID: 1, CartID: "cart-1", Quantity: 3}).
			Return(&MutationResult{Subtotal: 597.00, CartCount: 4}, nil)

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/update",
			map[string]any{"cart_id": "cart-1", "quantity": 3}, 1)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, env.Success)
		require.NotNil(t, env.Subtotal)
		assert.Equal(t, 597.00, *env.Subtotal)
		require.NotNil(t, env.CartCount)
		assert.Equal(t, 4, *env.CartCount)
	})

	t.Run("Stock exceeded surfaces exact message", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Update", mock.Anything, mock.Anything).
			Return(nil, &StockExceededError{Limit: 4})

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/update",
			map[string]any{"cart_id": "cart-1", "quantity": 10}, 1)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "Only 4 items available in stock", env.Message)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)

		rr, env := doJSON(t, router, "/api/cart/update",
			map[string]any{"cart_id": "cart-1", "quantity": 3}, 0)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, env.Success)
	})

	t.Run("Malformed body", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)

		req := httptest.NewRequest("POST", "/api/cart/update", bytes.NewReader([]byte("{not json")))
		ctx := context.WithValue(req.Context(), middleware.CustomerIDKey, uint(1))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req.WithContext(ctx))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Internal error hides detail", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Update", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/update",
			map[string]any{"cart_id": "cart-1", "quantity": 3}, 1)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "something went wrong", env.Message)
	})
}

func TestHandler_Remove(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Remove", mock.Anything, RemoveParams{CustomerID: 1, CartID: "cart-1"}).
			Return(&MutationResult{CartCount: 2}, nil)

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/remove",
			map[string]any{"cart_id": "cart-1"}, 1)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, env.Success)
		require.NotNil(t, env.CartCount)
		assert.Equal(t, 2, *env.CartCount)
	})

	t.Run("Stale cart id", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Remove", mock.Anything, mock.Anything).
			Return(nil, ErrLineNotFound)

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/remove",
			map[string]any{"cart_id": "gone"}, 1)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, env.Success)
		assert.Equal(t, ErrLineNotFound.Error(), env.Message)
	})
}

func TestHandler_Clear(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Clear", mock.Anything, uint(1)).Return(nil)

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/clear", map[string]any{}, 1)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "Cart cleared", env.Message)
	})

	t.Run("Repository failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Clear", mock.Anything, uint(1)).Return(ErrFailedClearCart)

		router := newTestRouter(svc)
		rr, env := doJSON(t, router, "/api/cart/clear", map[string]any{}, 1)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.False(t, env.Success)
	})
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("Lines", mock.Anything, uint(1)).
		Return([]Line{{CartID: "cart-1", Quantity: 2, UnitPrice: 199.00, StockLimit: 5}}, nil)

	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/api/cart/", nil)
	ctx := context.WithValue(req.Context(), middleware.CustomerIDKey, uint(1))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rr.Code)

	var lines []Line
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "cart-1", lines[0].CartID)
}
