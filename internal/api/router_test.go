package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ecshop/internal/auth"
	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/service"
	"github.com/example/ecshop/internal/store"
)

type testServer struct {
	handler http.Handler
	store   *store.MemoryStore
	catalog *service.CatalogService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := auth.NewJWTService("test-secret-key-for-router-tests", 15*time.Minute)

	users := service.NewUserService(st)
	catalog := service.NewCatalogService(st, st)

	handler := NewRouter(RouterConfig{
		Users:    users,
		Catalog:  catalog,
		Cart:     service.NewCartService(st, st),
		Wishlist: service.NewWishlistService(st, st),
		Orders:   service.NewOrderService(st, st, st, nil, logger),
		JWT:      jwtService,
		Store:    st,
		Logger:   logger,
	})

	return &testServer{handler: handler, store: st, catalog: catalog}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(t *testing.T, email, username, role string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:    email,
		Username: username,
		FullName: "Test User",
		Password: "password123",
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()

	form := url.Values{"username": {email}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (ts *testServer) seedCatalog(t *testing.T) (categoryID, productID string) {
	t.Helper()
	ctx := t.Context()

	c, err := ts.catalog.CreateCategory(ctx, service.CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	p, err := ts.catalog.CreateProduct(ctx, service.ProductInput{
		Name:          "Smartphone X",
		Price:         699.99,
		CategoryID:    c.ID,
		StockQuantity: 10,
	})
	require.NoError(t, err)
	return c.ID, p.ID
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice@example.com", "alice", "")
	token := ts.login(t, "alice@example.com")

	rec := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, domain.RoleUser, me.Role)
	// No password material in the response body.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRouter_Login_BadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com", "alice", "")

	form := url.Values{"username": {"alice@example.com"}, "password": {"wrongpassword"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PublicCatalog(t *testing.T) {
	ts := newTestServer(t)
	_, productID := ts.seedCatalog(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The categories literal is not swallowed by the product {id} wildcard.
	rec = ts.do(t, http.MethodGet, "/api/v1/products/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []domain.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Len(t, categories, 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/products?limit=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CartRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CartAndOrderFlow(t *testing.T) {
	ts := newTestServer(t)
	_, productID := ts.seedCatalog(t)
	ts.register(t, "alice@example.com", "alice", "")
	token := ts.login(t, "alice@example.com")

	// Add to cart.
	rec := ts.do(t, http.MethodPost, "/api/v1/cart", token, map[string]any{
		"product_id": productID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Place the order.
	rec = ts.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items":            []map[string]any{{"product_id": productID, "quantity": 2}},
		"shipping_address": "123 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.InDelta(t, 1399.98, order.TotalAmount, 0.001)

	// Cart now empty.
	rec = ts.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []domain.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Empty(t, items)

	// Order visible to its owner only.
	rec = ts.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.register(t, "bob@example.com", "bob", "")
	bobToken := ts.login(t, "bob@example.com")
	rec = ts.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Cancel restores stock.
	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/cancel", order.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p, err := ts.store.GetProduct(t.Context(), productID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockQuantity)
}

func TestRouter_AdminRoutesForbiddenForUsers(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com", "alice", "")
	token := ts.login(t, "alice@example.com")

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminCatalogManagement(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "admin@example.com", "admin", domain.RoleAdmin)
	token := ts.login(t, "admin@example.com")

	rec := ts.do(t, http.MethodPost, "/api/v1/admin/categories", token, CategoryRequest{
		Name: "Books", Description: "Books and publications",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category domain.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))

	rec = ts.do(t, http.MethodPost, "/api/v1/admin/products", token, ProductRequest{
		Name:          "Go Book",
		Price:         49.99,
		CategoryID:    category.ID,
		StockQuantity: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))

	// Category with products cannot be deleted.
	rec = ts.do(t, http.MethodDelete, "/api/v1/admin/categories/"+category.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/admin/products/"+product.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/admin/categories/"+category.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.Contains(t, rec.Body.String(), "connected")
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
