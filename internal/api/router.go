package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/ecshop/internal/api/middleware"
	"github.com/example/ecshop/internal/auth"
	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/service"
	"github.com/example/ecshop/internal/store"
)

// RouterConfig bundles everything the HTTP layer needs.
type RouterConfig struct {
	Users    *service.UserService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
	JWT      *auth.JWTService
	Store    store.Store
	Logger   *slog.Logger
}

// NewRouter builds the full route table under /api/v1 and wraps it with
// logging and metrics middleware. Authenticated routes require a valid
// bearer token; admin routes additionally require the admin role.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandlers := NewAuthHandlers(cfg.Users, cfg.JWT, cfg.Logger)
	productHandlers := NewProductHandlers(cfg.Catalog, cfg.Logger)
	cartHandlers := NewCartHandlers(cfg.Cart, cfg.Logger)
	wishlistHandlers := NewWishlistHandlers(cfg.Wishlist, cfg.Logger)
	orderHandlers := NewOrderHandlers(cfg.Orders, cfg.Logger)
	adminHandlers := NewAdminHandlers(cfg.Users, cfg.Catalog, cfg.Orders, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Store, cfg.Logger)

	requireAuth := middleware.Auth(cfg.JWT)
	requireAdmin := func(h http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/auth/register", authHandlers.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandlers.Login)

	// The categories literal wins over the {id} wildcard for the same
	// prefix, so /products/categories never resolves as a product lookup.
	mux.HandleFunc("GET /api/v1/products", productHandlers.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", productHandlers.GetProduct)
	mux.HandleFunc("GET /api/v1/products/categories", productHandlers.ListCategories)
	mux.HandleFunc("GET /api/v1/products/categories/{id}", productHandlers.GetCategory)

	// Authenticated
	mux.Handle("GET /api/v1/auth/me", authed(authHandlers.Me))

	mux.Handle("GET /api/v1/cart", authed(cartHandlers.GetCart))
	mux.Handle("POST /api/v1/cart", authed(cartHandlers.AddToCart))
	mux.Handle("PUT /api/v1/cart/{id}", authed(cartHandlers.UpdateCartItem))
	mux.Handle("DELETE /api/v1/cart/{id}", authed(cartHandlers.RemoveFromCart))
	mux.Handle("DELETE /api/v1/cart", authed(cartHandlers.ClearCart))

	mux.Handle("GET /api/v1/wishlist", authed(wishlistHandlers.GetWishlist))
	mux.Handle("POST /api/v1/wishlist", authed(wishlistHandlers.AddToWishlist))
	mux.Handle("DELETE /api/v1/wishlist/{id}", authed(wishlistHandlers.RemoveFromWishlist))
	mux.Handle("DELETE /api/v1/wishlist", authed(wishlistHandlers.ClearWishlist))

	mux.Handle("POST /api/v1/orders", authed(orderHandlers.CreateOrder))
	mux.Handle("GET /api/v1/orders", authed(orderHandlers.ListOrders))
	mux.Handle("GET /api/v1/orders/{id}", authed(orderHandlers.GetOrder))
	mux.Handle("PUT /api/v1/orders/{id}/cancel", authed(orderHandlers.CancelOrder))

	// Admin
	mux.Handle("GET /api/v1/admin/users", requireAdmin(adminHandlers.ListUsers))
	mux.Handle("GET /api/v1/admin/users/{id}", requireAdmin(adminHandlers.GetUser))
	mux.Handle("PUT /api/v1/admin/users/{id}", requireAdmin(adminHandlers.UpdateUser))
	mux.Handle("DELETE /api/v1/admin/users/{id}", requireAdmin(adminHandlers.DeleteUser))

	mux.Handle("POST /api/v1/admin/categories", requireAdmin(adminHandlers.CreateCategory))
	mux.Handle("GET /api/v1/admin/categories", requireAdmin(adminHandlers.ListCategories))
	mux.Handle("PUT /api/v1/admin/categories/{id}", requireAdmin(adminHandlers.UpdateCategory))
	mux.Handle("DELETE /api/v1/admin/categories/{id}", requireAdmin(adminHandlers.DeleteCategory))

	mux.Handle("POST /api/v1/admin/products", requireAdmin(adminHandlers.CreateProduct))
	mux.Handle("GET /api/v1/admin/products", requireAdmin(adminHandlers.ListProducts))
	mux.Handle("PUT /api/v1/admin/products/{id}", requireAdmin(adminHandlers.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", requireAdmin(adminHandlers.DeleteProduct))

	mux.Handle("GET /api/v1/admin/orders", requireAdmin(adminHandlers.ListOrders))
	mux.Handle("PUT /api/v1/admin/orders/{id}", requireAdmin(adminHandlers.UpdateOrder))

	return middleware.Logging(cfg.Logger)(middleware.Metrics(mux))
}
