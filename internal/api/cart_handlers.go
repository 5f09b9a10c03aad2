package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/example/ecshop/internal/api/middleware"
	"github.com/example/ecshop/internal/service"
)

// CartHandlers serves the caller-scoped shopping cart.
type CartHandlers struct {
	cart   *service.CartService
	logger *slog.Logger
}

func NewCartHandlers(cart *service.CartService, logger *slog.Logger) *CartHandlers {
	return &CartHandlers{cart: cart, logger: logger}
}

// GetCart lists the caller's cart items with product details.
func (h *CartHandlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	items, err := h.cart.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddToCart adds a product, merging into an existing row for the same
// product.
func (h *CartHandlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.cart.Add(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// UpdateCartItem sets the quantity of one item.
func (h *CartHandlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.cart.UpdateQuantity(r.Context(), userID, r.PathValue("id"), req.Quantity)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// RemoveFromCart deletes one item.
func (h *CartHandlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.cart.Remove(r.Context(), userID, r.PathValue("id")); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

// ClearCart empties the caller's cart.
func (h *CartHandlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	count, err := h.cart.Clear(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Cleared %d items from cart", count),
	})
}
