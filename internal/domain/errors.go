package domain

import "errors"

// Not-found class (404).
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

// Validation/conflict class (400).
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrNotCancellable     = errors.New("only pending orders can be cancelled")
	ErrCategoryHasProduct = errors.New("cannot delete category that has products")
	ErrAlreadyInWishlist  = errors.New("product already in wishlist")
)

// Authentication/authorization class (401/403).
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserDeactivated    = errors.New("account is deactivated")
)
