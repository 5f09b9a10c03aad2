// Package store provides the document-store persistence layer. Two
// implementations exist: DynamoStore for production and MemoryStore for
// tests and local development. Lookups return (nil, nil) when the document
// does not exist; mapping absence to a domain error is the caller's job.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/example/ecshop/internal/domain"
)

// Collection names, shared by both implementations.
const (
	CollectionUsers         = "users"
	CollectionCategories    = "categories"
	CollectionProducts      = "products"
	CollectionCartItems     = "cart_items"
	CollectionOrders        = "orders"
	CollectionWishlistItems = "wishlist_items"
)

// Collections lists every collection the backend persists.
var Collections = []string{
	CollectionUsers,
	CollectionCategories,
	CollectionProducts,
	CollectionCartItems,
	CollectionOrders,
	CollectionWishlistItems,
}

// ErrConditionFailed is returned by AdjustStock when the conditional write
// does not apply: the product is missing or the decrement would push stock
// below zero.
var ErrConditionFailed = errors.New("conditional update failed")

// ProductFilter narrows ListProducts. Nil price bounds are open ends.
type ProductFilter struct {
	CategoryID string
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	ActiveOnly bool
	Skip       int
	Limit      int
}

// Matches reports whether p passes every filter criterion except
// Skip/Limit, which are pagination and applied by the caller.
func (f ProductFilter) Matches(p *domain.Product) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.Description, f.Search) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type UserStore interface {
	PutUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}

type CategoryStore interface {
	PutCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

type ProductStore interface {
	PutProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	CategoryHasProducts(ctx context.Context, categoryID string) (bool, error)

	// AdjustStock applies stock_quantity += delta as a single conditional
	// write: the product must exist and the resulting stock must stay
	// non-negative, otherwise ErrConditionFailed. This is the only stock
	// mutation primitive the order workflow uses, so concurrent orders
	// cannot oversell.
	AdjustStock(ctx context.Context, productID string, delta int) error
}

type CartStore interface {
	PutCartItem(ctx context.Context, item *domain.CartItem) error
	GetCartItem(ctx context.Context, userID, id string) (*domain.CartItem, error)
	FindCartItem(ctx context.Context, userID, productID string) (*domain.CartItem, error)
	ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error)
	DeleteCartItem(ctx context.Context, userID, id string) (bool, error)
	ClearCart(ctx context.Context, userID string) (int, error)
}

type OrderStore interface {
	PutOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// ListOrdersByUser returns the user's orders newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type WishlistStore interface {
	PutWishlistItem(ctx context.Context, item *domain.WishlistItem) error
	FindWishlistItem(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	ListWishlistItems(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, userID, id string) (bool, error)
	ClearWishlist(ctx context.Context, userID string) (int, error)
}

// Store is the full persistence surface plus a connectivity probe.
type Store interface {
	UserStore
	CategoryStore
	ProductStore
	CartStore
	OrderStore
	WishlistStore

	Ping(ctx context.Context) error
}
