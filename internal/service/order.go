package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/messaging"
	"github.com/example/ecshop/internal/store"
)

// EventPublisher publishes order lifecycle events. Satisfied by
// *messaging.Producer; nil disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// OrderService runs the order placement and cancellation workflow. It is
// the only service touching three stores (cart, catalog, orders) in one
// logical transaction.
type OrderService struct {
	orders   store.OrderStore
	carts    store.CartStore
	products store.ProductStore
	events   EventPublisher
	logger   *slog.Logger
}

func NewOrderService(orders store.OrderStore, carts store.CartStore, products store.ProductStore, events EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		events:   events,
		logger:   logger,
	}
}

// OrderLine is one requested (product, quantity) pair, nominally sourced
// from the caller's cart.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// OrderUpdate carries the admin partial update. Status transitions are
// deliberately unrestricted here; only the user-facing cancel operation
// enforces the pending-only rule.
type OrderUpdate struct {
	Status          *string
	ShippingAddress *string
}

// Create validates every line against the caller's cart and current
// catalog state before any write, then persists the pending order with a
// server-computed total, decrements stock through the store's conditional
// primitive and clears the whole cart. The writes after the order insert
// are sequential best-effort: a stock decrement rejected at commit time
// surfaces as insufficient stock but does not roll the order record back.
func (s *OrderService) Create(ctx context.Context, userID string, lines []OrderLine, shippingAddress string) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}

		cartItem, err := s.carts.FindCartItem(ctx, userID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if cartItem == nil {
			return nil, fmt.Errorf("%w for product %s", domain.ErrCartItemNotFound, line.ProductID)
		}

		p, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}
		if p.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("%w for product %s", domain.ErrInsufficientStock, p.Name)
		}

		total += p.Price * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: shippingAddress,
		TotalAmount:     total,
		Status:          domain.OrderPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.PutOrder(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			if errors.Is(err, store.ErrConditionFailed) {
				// Lost the race: another order drained the stock between
				// validation and commit.
				return nil, fmt.Errorf("%w for product %s", domain.ErrInsufficientStock, item.ProductID)
			}
			return nil, err
		}
	}

	// The whole cart is cleared, not just the ordered lines.
	if _, err := s.carts.ClearCart(ctx, userID); err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventOrderPlaced, order)
	return order, nil
}

// Get returns an order owned by the caller; ownership mismatch is
// indistinguishable from absence.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// ListForUser returns the caller's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// Cancel transitions a pending order owned by the caller to cancelled and
// restores stock from the line items recorded at creation time. A product
// deleted since the order was placed is skipped rather than failing the
// cancellation.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderPending {
		return nil, domain.ErrNotCancellable
	}

	o.Status = domain.OrderCancelled
	o.UpdatedAt = time.Now().UTC()
	if err := s.orders.PutOrder(ctx, o); err != nil {
		return nil, err
	}

	for _, item := range o.Items {
		if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, store.ErrConditionFailed) {
				// Product no longer exists; nothing to credit.
				s.logger.Warn("skipping stock restore for missing product",
					"order_id", o.ID, "product_id", item.ProductID)
				continue
			}
			return nil, err
		}
	}

	s.publish(ctx, messaging.EventOrderCancelled, o)
	return o, nil
}

// Admin operations

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

// AdminUpdate applies a partial update to any order regardless of owner or
// current status.
func (s *OrderService) AdminUpdate(ctx context.Context, orderID string, update OrderUpdate) (*domain.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}

	if update.Status != nil {
		if !validStatus(*update.Status) {
			return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, *update.Status)
		}
		o.Status = *update.Status
	}
	if update.ShippingAddress != nil {
		o.ShippingAddress = *update.ShippingAddress
	}
	o.UpdatedAt = time.Now().UTC()

	if err := s.orders.PutOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func validStatus(status string) bool {
	switch status {
	case domain.OrderPending, domain.OrderConfirmed, domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled:
		return true
	}
	return false
}

// publish sends an order event, logging failures instead of surfacing them.
func (s *OrderService) publish(ctx context.Context, eventType string, o *domain.Order) {
	if s.events == nil {
		return
	}
	event := messaging.OrderEvent{
		Type:        eventType,
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, o.ID, event); err != nil {
		s.logger.Warn("failed to publish order event",
			"type", eventType, "order_id", o.ID, "error", err)
	}
}
