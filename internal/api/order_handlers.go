package api

import (
	"log/slog"
	"net/http"

	"github.com/example/ecshop/internal/api/middleware"
	"github.com/example/ecshop/internal/service"
)

// OrderHandlers serves caller-scoped order placement, listing and
// cancellation.
type OrderHandlers struct {
	orders *service.OrderService
	logger *slog.Logger
}

func NewOrderHandlers(orders *service.OrderService, logger *slog.Logger) *OrderHandlers {
	return &OrderHandlers{orders: orders, logger: logger}
}

// CreateOrderRequest is the order placement body. Any client-supplied
// total is ignored; the server prices the order.
type CreateOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	ShippingAddress string `json:"shipping_address"`
}

// CreateOrder places an order from the caller's cart.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.Create(r.Context(), userID, lines, req.ShippingAddress)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// ListOrders returns the caller's orders, newest first.
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.orders.ListForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder returns one of the caller's orders.
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	order, err := h.orders.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// CancelOrder cancels one of the caller's pending orders.
func (h *OrderHandlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if _, err := h.orders.Cancel(r.Context(), userID, r.PathValue("id")); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Order cancelled successfully"})
}
