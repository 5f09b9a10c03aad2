package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/store"
)

// Pagination bounds for public product listing.
const (
	DefaultProductLimit = 10
	MaxProductLimit     = 100
)

// CatalogService manages categories and products.
type CatalogService struct {
	categories store.CategoryStore
	products   store.ProductStore
}

func NewCatalogService(categories store.CategoryStore, products store.ProductStore) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// CategoryInput is the payload for CreateCategory.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryUpdate carries partial-update fields.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// ProductInput is the payload for CreateProduct.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	CategoryID    string
	StockQuantity int
	ImageURL      string
	IsActive      *bool
}

// ProductUpdate carries partial-update fields.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *float64
	CategoryID    *string
	StockQuantity *int
	ImageURL      *string
	IsActive      *bool
}

// Categories

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	c := &domain.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.PutCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, update CategoryUpdate) (*domain.Category, error) {
	c, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.categories.PutCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to orphan products: deletion is blocked while any
// product references the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	inUse, err := s.products.CategoryHasProducts(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrCategoryHasProduct
	}
	deleted, err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Products

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity must not be negative", domain.ErrInvalidInput)
	}
	if c, err := s.categories.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	} else if c == nil {
		return nil, domain.ErrCategoryNotFound
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now().UTC()
	p := &domain.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    in.CategoryID,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
		IsActive:      active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.products.PutProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct returns the product. When activeOnly is set, inactive
// products are reported as not found, matching the public catalog view.
func (s *CatalogService) GetProduct(ctx context.Context, id string, activeOnly bool) (*domain.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || (activeOnly && !p.IsActive) {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// ListProducts applies the filter with limit clamped to 1..MaxProductLimit
// and skip clamped to non-negative.
func (s *CatalogService) ListProducts(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultProductLimit
	}
	if filter.Limit > MaxProductLimit {
		filter.Limit = MaxProductLimit
	}
	return s.products.ListProducts(ctx, filter)
}

// ListAllProducts is the admin view: every product, no filter, no paging.
func (s *CatalogService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx, store.ProductFilter{})
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		if *update.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
		}
		p.Price = *update.Price
	}
	if update.CategoryID != nil {
		if c, err := s.categories.GetCategory(ctx, *update.CategoryID); err != nil {
			return nil, err
		} else if c == nil {
			return nil, domain.ErrCategoryNotFound
		}
		p.CategoryID = *update.CategoryID
	}
	if update.StockQuantity != nil {
		if *update.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: stock quantity must not be negative", domain.ErrInvalidInput)
		}
		p.StockQuantity = *update.StockQuantity
	}
	if update.ImageURL != nil {
		p.ImageURL = *update.ImageURL
	}
	if update.IsActive != nil {
		p.IsActive = *update.IsActive
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.PutProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.products.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProductNotFound
	}
	return nil
}
