package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apporder "github.com/yoquet/backend/internal/application/order"
)

// OrderHandler serves the checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	checkout *apporder.CheckoutService
}

// NewOrderHandler creates an order handler
func NewOrderHandler(checkout *apporder.CheckoutService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		BaseHandler: NewBaseHandler(logger),
		checkout:    checkout,
	}
}

// RegisterRoutes registers order routes. All of them require a logged
// in user.
func (h *OrderHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/orders", h.Checkout)
	authed.GET("/orders", h.ListMine)
	authed.GET("/orders/:id", h.Get)
}

// Checkout creates an order from the caller's cart.
// The storefront expects the pedido_id and server-computed total in the
// response body, unwrapped.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req apporder.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), h.CallerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListMine returns the caller's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	page, err := h.checkout.ListByUser(c.Request.Context(), h.CallerID(c), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, page)
}

// Get returns one order. Buyers see only their own orders.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.checkout.Get(c.Request.Context(), id, h.CallerID(c), h.CallerIsStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, order)
}
