package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yoquet/backend/internal/domain/shared"
)

// CustomerInfo carries the checkout contact details supplied by the buyer
type CustomerInfo struct {
	Name          string
	Email         string
	Address       string
	PaymentMethod string
}

// Validate checks required fields in deterministic order and reports
// the first one that is missing.
func (c CustomerInfo) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"nombre", c.Name},
		{"email", c.Email},
		{"direccion", c.Address},
		{"metodoPago", c.PaymentMethod},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return shared.NewMissingFieldError(f.name)
		}
	}
	return nil
}

// Line is one product/quantity/price-snapshot entry within an Order
type Line struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(550);not null"`
	Quantity    int             `gorm:"not null;check:quantity > 0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// Subtotal returns quantity times the snapshotted unit price
func (l *Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the checkout aggregate. It owns its lines exclusively and is
// immutable once persisted: there is no edit or cancel flow.
type Order struct {
	shared.BaseEntity
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(120);not null"`
	Email         string          `gorm:"type:varchar(254);not null"`
	Address       string          `gorm:"type:varchar(250);not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Lines         []Line          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an empty order for the given user
func NewOrder(userID uuid.UUID, info CustomerInfo) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		CustomerName:  strings.TrimSpace(info.Name),
		Email:         strings.TrimSpace(info.Email),
		Address:       strings.TrimSpace(info.Address),
		PaymentMethod: strings.TrimSpace(info.PaymentMethod),
		Total:         decimal.Zero,
	}, nil
}

// AddLine appends a line with the unit price snapshotted from the
// current catalog price. A zero or negative quantity is coerced to 1
// rather than rejected; the storefront has always sent at least one of
// everything in the cart.
func (o *Order) AddLine(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity < 1 {
		quantity = 1
	}

	line := Line{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	o.Lines = append(o.Lines, line)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return &o.Lines[len(o.Lines)-1], nil
}

// recalculateTotal recomputes the total from the lines. The total is
// never taken from client input.
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].Subtotal())
	}
	o.Total = total
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}
