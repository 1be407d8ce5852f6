package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutItem is one cart entry sent by the storefront. The product
// id travels under the bare "id" key.
type CheckoutItem struct {
	ProductID string `json:"id" binding:"required,uuid"`
	Quantity  int    `json:"cantidad"`
}

// CheckoutRequest is the checkout payload. No client-supplied total is
// accepted; the server computes it from the catalog. The payment method
// is an opaque label, validated only for presence.
type CheckoutRequest struct {
	Name          string         `json:"nombre"`
	Email         string         `json:"email"`
	Address       string         `json:"direccion"`
	PaymentMethod string         `json:"metodoPago"`
	Items         []CheckoutItem `json:"items"`
}

// CheckoutResult is returned after a successful checkout
type CheckoutResult struct {
	Message string          `json:"message"`
	OrderID string          `json:"pedido_id"`
	Total   decimal.Decimal `json:"total"`
}

// LineDTO is the API representation of an order line
type LineDTO struct {
	ProductID   string          `json:"producto_id"`
	ProductName string          `json:"producto"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the API representation of an order
type OrderDTO struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"nombre"`
	Email         string          `json:"email"`
	Address       string          `json:"direccion"`
	PaymentMethod string          `json:"metodoPago"`
	Total         decimal.Decimal `json:"total"`
	Lines         []LineDTO       `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}
