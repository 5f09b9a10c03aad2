package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/example/ecshop/internal/api/middleware"
	"github.com/example/ecshop/internal/service"
)

// WishlistHandlers serves the caller-scoped wishlist.
type WishlistHandlers struct {
	wishlist *service.WishlistService
	logger   *slog.Logger
}

func NewWishlistHandlers(wishlist *service.WishlistService, logger *slog.Logger) *WishlistHandlers {
	return &WishlistHandlers{wishlist: wishlist, logger: logger}
}

// GetWishlist lists the caller's wishlist items with product details.
func (h *WishlistHandlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	items, err := h.wishlist.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddToWishlist adds a product; a duplicate is a conflict.
func (h *WishlistHandlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.wishlist.Add(r.Context(), userID, req.ProductID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// RemoveFromWishlist deletes one item.
func (h *WishlistHandlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.wishlist.Remove(r.Context(), userID, r.PathValue("id")); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from wishlist"})
}

// ClearWishlist empties the caller's wishlist.
func (h *WishlistHandlers) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	count, err := h.wishlist.Clear(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Cleared %d items from wishlist", count),
	})
}
