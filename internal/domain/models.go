package domain

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id" dynamodbav:"id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Username     string    `json:"username" dynamodbav:"username"`
	FullName     string    `json:"full_name" dynamodbav:"full_name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	IsActive     bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Category groups products. Deletion is blocked while any product
// references it.
type Category struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Product is a catalog entry. StockQuantity is mutated only through the
// store's conditional adjust primitive and admin edits.
type Product struct {
	ID            string    `json:"id" dynamodbav:"id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Description   string    `json:"description" dynamodbav:"description"`
	Price         float64   `json:"price" dynamodbav:"price"`
	CategoryID    string    `json:"category_id" dynamodbav:"category_id"`
	StockQuantity int       `json:"stock_quantity" dynamodbav:"stock_quantity"`
	ImageURL      string    `json:"image_url,omitempty" dynamodbav:"image_url"`
	IsActive      bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// CartItem is one (user, product) row of a shopping cart. At most one row
// exists per pair; adding the same product again increments Quantity.
// Product is attached at read time, never stored.
type CartItem struct {
	ID        string    `json:"id" dynamodbav:"id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ProductID string    `json:"product_id" dynamodbav:"product_id"`
	Quantity  int       `json:"quantity" dynamodbav:"quantity"`
	Product   *Product  `json:"product,omitempty" dynamodbav:"-"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// OrderItem is a line item frozen at order creation time. Price is the
// unit price at that moment and does not drift with later catalog edits.
type OrderItem struct {
	ProductID string  `json:"product_id" dynamodbav:"product_id"`
	Quantity  int     `json:"quantity" dynamodbav:"quantity"`
	Price     float64 `json:"price" dynamodbav:"price"`
}

// Order is a placed order. TotalAmount is computed server-side at creation
// and is the sole source of truth for pricing.
type Order struct {
	ID              string      `json:"id" dynamodbav:"id"`
	UserID          string      `json:"user_id" dynamodbav:"user_id"`
	Items           []OrderItem `json:"items" dynamodbav:"items"`
	ShippingAddress string      `json:"shipping_address" dynamodbav:"shipping_address"`
	TotalAmount     float64     `json:"total_amount" dynamodbav:"total_amount"`
	Status          string      `json:"status" dynamodbav:"status"`
	CreatedAt       time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

// WishlistItem is one (user, product) row of a wishlist, unique per pair.
// Product is attached at read time.
type WishlistItem struct {
	ID        string    `json:"id" dynamodbav:"id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ProductID string    `json:"product_id" dynamodbav:"product_id"`
	Product   *Product  `json:"product,omitempty" dynamodbav:"-"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}
