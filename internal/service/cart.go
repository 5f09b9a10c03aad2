package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/store"
)

// CartService manages per-user shopping carts. Returned items carry the
// current product attached at read time; the snapshot is never stored.
type CartService struct {
	carts    store.CartStore
	products store.ProductStore
}

func NewCartService(carts store.CartStore, products store.ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// List returns the user's cart with product details joined in.
func (s *CartService) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	items, err := s.carts.ListCartItems(ctx, userID)
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

// Add puts a product in the cart. Adding a product already present
// increments the existing row's quantity instead of duplicating it.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now().UTC()
	existing, err := s.carts.FindCartItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += quantity
		existing.UpdatedAt = now
		if err := s.carts.PutCartItem(ctx, existing); err != nil {
			return nil, err
		}
		existing.Product = p
		return existing, nil
	}

	item := &domain.CartItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carts.PutCartItem(ctx, item); err != nil {
		return nil, err
	}
	item.Product = p
	return item, nil
}

// UpdateQuantity sets the quantity of an item the user owns.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	item, err := s.carts.GetCartItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrCartItemNotFound
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now().UTC()
	if err := s.carts.PutCartItem(ctx, item); err != nil {
		return nil, err
	}

	item.Product, err = s.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Remove deletes one item the user owns.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	deleted, err := s.carts.DeleteCartItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// Clear empties the user's cart and reports how many rows were removed.
func (s *CartService) Clear(ctx context.Context, userID string) (int, error) {
	return s.carts.ClearCart(ctx, userID)
}
