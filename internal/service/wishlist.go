package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/store"
)

// WishlistService manages per-user wishlists. A product may appear at most
// once per user; duplicates are a conflict, not an increment.
type WishlistService struct {
	wishlists store.WishlistStore
	products  store.ProductStore
}

func NewWishlistService(wishlists store.WishlistStore, products store.ProductStore) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

// List returns the user's wishlist with product details joined in.
func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	items, err := s.wishlists.ListWishlistItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		p, err := s.products.GetProduct(ctx, items[i].ProductID)
		if err != nil {
			return nil, err
		}
		items[i].Product = p
	}
	return items, nil
}

// Add puts a product on the wishlist; duplicates fail with
// domain.ErrAlreadyInWishlist.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrProductNotFound
	}

	existing, err := s.wishlists.FindWishlistItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyInWishlist
	}

	item := &domain.WishlistItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.wishlists.PutWishlistItem(ctx, item); err != nil {
		return nil, err
	}
	item.Product = p
	return item, nil
}

// Remove deletes one item the user owns.
func (s *WishlistService) Remove(ctx context.Context, userID, itemID string) error {
	deleted, err := s.wishlists.DeleteWishlistItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrWishlistItemNotFound
	}
	return nil
}

// Clear empties the user's wishlist and reports how many rows were removed.
func (s *WishlistService) Clear(ctx context.Context, userID string) (int, error) {
	return s.wishlists.ClearWishlist(ctx, userID)
}
