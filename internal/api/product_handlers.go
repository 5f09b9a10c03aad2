package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/example/ecshop/internal/service"
	"github.com/example/ecshop/internal/store"
)

// ProductHandlers serves the public catalog: active products and
// categories, no authentication required.
type ProductHandlers struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewProductHandlers(catalog *service.CatalogService, logger *slog.Logger) *ProductHandlers {
	return &ProductHandlers{catalog: catalog, logger: logger}
}

// ListProducts returns active products with filtering and pagination.
func (h *ProductHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		CategoryID: q.Get("category_id"),
		Search:     q.Get("search"),
		ActiveOnly: true,
	}

	if v := q.Get("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			respondJSONError(w, "Invalid skip parameter", http.StatusBadRequest)
			return
		}
		filter.Skip = skip
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondJSONError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondJSONError(w, "Invalid min_price parameter", http.StatusBadRequest)
			return
		}
		filter.MinPrice = &min
	}
	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondJSONError(w, "Invalid max_price parameter", http.StatusBadRequest)
			return
		}
		filter.MaxPrice = &max
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProduct returns one active product.
func (h *ProductHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"), true)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ListCategories returns all categories.
func (h *ProductHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GetCategory returns one category.
func (h *ProductHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
