package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apporder "github.com/yoquet/backend/internal/application/order"
	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/order"
	"github.com/yoquet/backend/internal/domain/shared"
	"github.com/yoquet/backend/internal/interfaces/http/middleware"
	"github.com/yoquet/backend/internal/interfaces/http/router"
)

// stubProductRepo serves a fixed set of products
type stubProductRepo struct {
	catalog.ProductRepository
	products map[uuid.UUID]*catalog.Product
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

// stubOrderRepo records the orders it is asked to create
type stubOrderRepo struct {
	order.Repository
	created []*order.Order
}

func (s *stubOrderRepo) Create(_ context.Context, o *order.Order) error {
	s.created = append(s.created, o)
	return nil
}

func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}
}

func setupOrderRouter(t *testing.T, products *stubProductRepo, orders *stubOrderRepo, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router.RegisterValidators()
	engine := gin.New()

	svc := apporder.NewCheckoutService(orders, products, zap.NewNop())
	h := NewOrderHandler(svc, zap.NewNop())

	authed := engine.Group("/api/v1")
	authed.Use(fakeAuth(userID))
	h.RegisterRoutes(authed)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestOrderHandler_Checkout(t *testing.T) {
	userID := uuid.New()
	torta, err := catalog.NewProduct(uuid.New(), "Torta de chocolate", decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	products := &stubProductRepo{products: map[uuid.UUID]*catalog.Product{torta.ID: torta}}
	orders := &stubOrderRepo{}
	engine := setupOrderRouter(t, products, orders, userID)

	t.Run("success returns pedido_id and server total", func(t *testing.T) {
		rec := postJSON(t, engine, "/api/v1/orders", gin.H{
			"nombre":     "Ana",
			"email":      "ana@example.com",
			"direccion":  "Av. Siempre Viva 742",
			"metodoPago": "efectivo",
			"items": []gin.H{
				{"id": torta.ID.String(), "cantidad": 2},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Message string          `json:"message"`
			OrderID string          `json:"pedido_id"`
			Total   decimal.Decimal `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Pedido creado exitosamente", resp.Message)
		assert.NotEmpty(t, resp.OrderID)
		assert.True(t, resp.Total.Equal(decimal.RequireFromString("300.00")), resp.Total.String())
		require.Len(t, orders.created, 1)
	})

	t.Run("client total is ignored", func(t *testing.T) {
		rec := postJSON(t, engine, "/api/v1/orders", gin.H{
			"nombre":     "Ana",
			"email":      "ana@example.com",
			"direccion":  "Av. Siempre Viva 742",
			"metodoPago": "efectivo",
			"total":      "0.01",
			"items": []gin.H{
				{"id": torta.ID.String(), "cantidad": 1},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Total decimal.Decimal `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Total.Equal(decimal.RequireFromString("150.00")))
	})

	t.Run("any non-empty payment label is accepted", func(t *testing.T) {
		rec := postJSON(t, engine, "/api/v1/orders", gin.H{
			"nombre":     "Ana",
			"email":      "ana@example.com",
			"direccion":  "Av. Siempre Viva 742",
			"metodoPago": "contraentrega",
			"items": []gin.H{
				{"id": torta.ID.String(), "cantidad": 1},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("empty cart", func(t *testing.T) {
		rec := postJSON(t, engine, "/api/v1/orders", gin.H{
			"nombre":     "Ana",
			"email":      "ana@example.com",
			"direccion":  "Av. Siempre Viva 742",
			"metodoPago": "efectivo",
			"items":      []gin.H{},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assertErrorCode(t, rec, "EMPTY_CART")
	})

	t.Run("missing field", func(t *testing.T) {
		rec := postJSON(t, engine, "/api/v1/orders", gin.H{
			"email":      "ana@example.com",
			"direccion":  "Av. Siempre Viva 742",
			"metodoPago": "efectivo",
			"items": []gin.H{
				{"id": torta.ID.String(), "cantidad": 1},
			},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assertErrorCode(t, rec, "MISSING_FIELD")
		assert.Contains(t, rec.Body.String(), "nombre")
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := postJSON(t, engine, "/api/v1/orders", gin.H{
			"nombre":     "Ana",
			"email":      "ana@example.com",
			"direccion":  "Av. Siempre Viva 742",
			"metodoPago": "efectivo",
			"items": []gin.H{
				{"id": uuid.NewString(), "cantidad": 1},
			},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assertErrorCode(t, rec, "UNKNOWN_PRODUCT")
	})
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	assert.False(t, resp.Success)
	assert.Equal(t, want, resp.Error.Code, fmt.Sprintf("body: %s", rec.Body.String()))
}
