package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/order"
	"github.com/yoquet/backend/internal/domain/shared"
)

// knownPaymentMethods are the labels the storefront currently offers.
// Checkout accepts any non-empty label; an unlisted one is only logged.
var knownPaymentMethods = map[string]bool{
	"efectivo":      true,
	"transferencia": true,
	"tarjeta":       true,
	"yape":          true,
	"plin":          true,
}

// CheckoutService turns a cart into a persisted order. Totals are
// always computed server-side from current catalog prices; whatever
// total the client thinks it saw is ignored.
type CheckoutService struct {
	orders   order.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(orders order.Repository, products catalog.ProductRepository, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{orders: orders, products: products, logger: logger}
}

// Checkout validates the cart, snapshots prices and persists the order
// with all of its lines in one transaction. Any unknown product aborts
// the whole checkout; nothing is written.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewEmptyCartError()
	}

	o, err := order.NewOrder(userID, order.CustomerInfo{
		Name:          req.Name,
		Email:         req.Email,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if !knownPaymentMethods[o.PaymentMethod] {
		s.logger.Warn("unlisted payment method accepted",
			zap.String("metodo_pago", o.PaymentMethod),
			zap.String("user_id", userID.String()),
		)
	}

	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, shared.NewUnknownProductError(item.ProductID)
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewUnknownProductError(item.ProductID)
			}
			return nil, err
		}
		if _, err := o.AddLine(product.ID, product.Name, item.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("lines", o.LineCount()),
		zap.String("total", o.Total.StringFixed(2)),
	)

	return &CheckoutResult{
		Message: "Pedido creado exitosamente",
		OrderID: o.ID.String(),
		Total:   o.Total,
	}, nil
}

// Get returns an order visible to the given user. Staff can read any
// order, buyers only their own.
func (s *CheckoutService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID, isStaff bool) (*OrderDTO, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && o.UserID != userID {
		return nil, shared.ErrForbidden
	}
	dto := toOrderDTO(o)
	return &dto, nil
}

// ListByUser returns the given user's orders
func (s *CheckoutService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderDTO], error) {
	orders, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toOrderDTO(&orders[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

func toOrderDTO(o *order.Order) OrderDTO {
	lines := make([]LineDTO, 0, len(o.Lines))
	for i := range o.Lines {
		l := &o.Lines[i]
		lines = append(lines, LineDTO{
			ProductID:   l.ProductID.String(),
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	return OrderDTO{
		ID:            o.ID.String(),
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Lines:         lines,
		CreatedAt:     o.CreatedAt,
	}
}
