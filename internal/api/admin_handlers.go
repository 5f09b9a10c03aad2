package api

import (
	"log/slog"
	"net/http"

	"github.com/example/ecshop/internal/service"
)

// AdminHandlers exposes full CRUD over users, categories, products and
// order status updates. Every route is gated by the admin role in the
// router.
type AdminHandlers struct {
	users   *service.UserService
	catalog *service.CatalogService
	orders  *service.OrderService
	logger  *slog.Logger
}

func NewAdminHandlers(users *service.UserService, catalog *service.CatalogService, orders *service.OrderService, logger *slog.Logger) *AdminHandlers {
	return &AdminHandlers{users: users, catalog: catalog, orders: orders, logger: logger}
}

// User management

func (h *AdminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	respondJSON(w, http.StatusOK, responses)
}

func (h *AdminHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdateUserRequest carries partial user updates; absent fields stay
// unchanged and a supplied password is re-hashed.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

func (h *AdminHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.users.Update(r.Context(), r.PathValue("id"), service.UserUpdate{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *AdminHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// Category management

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.catalog.CreateCategory(r.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *AdminHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *AdminHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.catalog.UpdateCategory(r.Context(), r.PathValue("id"), service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteCategory refuses to delete a category still referenced by
// products.
func (h *AdminHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

// Product management

type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	CategoryID    string  `json:"category_id"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url"`
	IsActive      *bool   `json:"is_active"`
}

func (h *AdminHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// ListProducts returns every product, inactive included.
func (h *AdminHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	CategoryID    *string  `json:"category_id"`
	StockQuantity *int     `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
	IsActive      *bool    `json:"is_active"`
}

func (h *AdminHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), r.PathValue("id"), service.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *AdminHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// Order management

func (h *AdminHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// UpdateOrderRequest carries the admin order update. Transitions are not
// restricted to a state machine here.
type UpdateOrderRequest struct {
	Status          *string `json:"status"`
	ShippingAddress *string `json:"shipping_address"`
}

func (h *AdminHandlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.orders.AdminUpdate(r.Context(), r.PathValue("id"), service.OrderUpdate{
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
