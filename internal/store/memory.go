package store

import (
	"context"
	"sync"
	"time"

	"github.com/example/ecshop/internal/domain"
)

// MemoryStore is a map-backed Store for tests and single-process local
// runs. All values are copied on the way in and out so callers never share
// memory with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	categories    map[string]domain.Category
	products      map[string]domain.Product
	cartItems     map[string]domain.CartItem
	orders        map[string]domain.Order
	wishlistItems map[string]domain.WishlistItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]domain.User),
		categories:    make(map[string]domain.Category),
		products:      make(map[string]domain.Product),
		cartItems:     make(map[string]domain.CartItem),
		orders:        make(map[string]domain.Order),
		wishlistItems: make(map[string]domain.WishlistItem),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Users

func (s *MemoryStore) PutUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

// Categories

func (s *MemoryStore) PutCategory(ctx context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)
	return true, nil
}

// Products

func (s *MemoryStore) PutProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	return paginateProducts(all, filter), nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func (s *MemoryStore) CategoryHasProducts(ctx context.Context, categoryID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AdjustStock(ctx context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return ErrConditionFailed
	}
	if p.StockQuantity+delta < 0 {
		return ErrConditionFailed
	}
	p.StockQuantity += delta
	p.UpdatedAt = time.Now().UTC()
	s.products[productID] = p
	return nil
}

// Cart items

func (s *MemoryStore) PutCartItem(ctx context.Context, item *domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *item
	stored.Product = nil
	s.cartItems[stored.ID] = stored
	return nil
}

func (s *MemoryStore) GetCartItem(ctx context.Context, userID, id string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.cartItems[id]; ok && item.UserID == userID {
		return &item, nil
	}
	return nil, nil
}

func (s *MemoryStore) FindCartItem(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.cartItems {
		if item.UserID == userID && item.ProductID == productID {
			item := item
			return &item, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []domain.CartItem
	for _, item := range s.cartItems {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *MemoryStore) DeleteCartItem(ctx context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cartItems[id]
	if !ok || item.UserID != userID {
		return false, nil
	}
	delete(s.cartItems, id)
	return true, nil
}

func (s *MemoryStore) ClearCart(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, item := range s.cartItems {
		if item.UserID == userID {
			delete(s.cartItems, id)
			count++
		}
	}
	return count, nil
}

// Orders

func (s *MemoryStore) PutOrder(ctx context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *o
	stored.Items = append([]domain.OrderItem(nil), o.Items...)
	s.orders[stored.ID] = stored
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.orders[id]; ok {
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		return &o, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

// Wishlist items

func (s *MemoryStore) PutWishlistItem(ctx context.Context, item *domain.WishlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *item
	stored.Product = nil
	s.wishlistItems[stored.ID] = stored
	return nil
}

func (s *MemoryStore) FindWishlistItem(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.wishlistItems {
		if item.UserID == userID && item.ProductID == productID {
			item := item
			return &item, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListWishlistItems(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []domain.WishlistItem
	for _, item := range s.wishlistItems {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *MemoryStore) DeleteWishlistItem(ctx context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.wishlistItems[id]
	if !ok || item.UserID != userID {
		return false, nil
	}
	delete(s.wishlistItems, id)
	return true, nil
}

func (s *MemoryStore) ClearWishlist(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, item := range s.wishlistItems {
		if item.UserID == userID {
			delete(s.wishlistItems, id)
			count++
		}
	}
	return count, nil
}
