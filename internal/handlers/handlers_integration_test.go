package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productgen/internal/database"
	"productgen/internal/handlers"
	"productgen/internal/models"
	"productgen/internal/repositories"
	"productgen/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and the product handler.
func setupApp(t *testing.T) (*fiber.App, *repositories.GORMProductRepository) {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	productRepo := repositories.NewGORMProductRepository(db, 0)
	productService := services.NewProductService(productRepo, nil)
	generatorService := services.NewGeneratorService(productRepo, nil, nil, nil)
	productHandler := handlers.NewProductHandler(productService, generatorService, nil)

	app := fiber.New()
	productHandler.RegisterRoutes(app)
	return app, productRepo
}

// seedProductsForTest stores the three reference products.
func seedProductsForTest(t *testing.T, repo repositories.ProductRepository) {
	t.Helper()
	products := []models.Product{
		{Name: "Laptop Pro", Description: "A powerful laptop", Category: "Electronics", Brand: "TechCorp", Price: 1200.0, StockQuantity: 50, SKU: "TC-LP-PRO-01"},
		{Name: "Wireless Mouse", Description: "An ergonomic mouse", Category: "Accessories", Brand: "TechCorp", Price: 25.0, StockQuantity: 200, SKU: "TC-WM-ERG-02"},
		{Name: "Mechanical Keyboard", Description: "A pro gamer keyboard", Category: "Accessories", Brand: "GameGear", Price: 150.0, StockQuantity: 100, SKU: "GG-MK-RGB-03"},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), products))
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeProducts(t *testing.T, resp *http.Response) []models.Product {
	t.Helper()
	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	return products
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	msg, _ := body["message"].(string)
	return msg
}

func productNames(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestSearchEndpointFound(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp := doJSON(t, app, http.MethodGet, "/products/search?q=pro", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	products := decodeProducts(t, resp)
	assert.ElementsMatch(t, []string{"Laptop Pro", "Mechanical Keyboard"}, productNames(products))
}

func TestSearchEndpointCaseInsensitive(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	for _, q := range []string{"PRO", "Pro", "pRo"} {
		resp := doJSON(t, app, http.MethodGet, "/products/search?q="+q, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decodeProducts(t, resp), 2, q)
	}
}

func TestSearchEndpointSingleResultSKU(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp := doJSON(t, app, http.MethodGet, "/products/search?q=TC-WM-ERG-02", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	products := decodeProducts(t, resp)
	require.Len(t, products, 1)
	assert.Equal(t, "Wireless Mouse", products[0].Name)
}

func TestSearchEndpointNotFound(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp := doJSON(t, app, http.MethodGet, "/products/search?q=nonexistent", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	for _, target := range []string{"/products/search?q=", "/products/search?q=%20%20", "/products/search"} {
		resp := doJSON(t, app, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(body), target)
	}
}

func TestGetProductsEmpty(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
}

func TestProductJSONShape(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp := doJSON(t, app, http.MethodGet, "/products/search?q=TC-LP-PRO-01", nil)
	var raw []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.Len(t, raw, 1)

	keys := make([]string, 0, len(raw[0]))
	for k := range raw[0] {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t,
		[]string{"id", "name", "description", "category", "brand", "price", "stock_quantity", "sku"}, keys)
	assert.Equal(t, 50.0, raw[0]["stock_quantity"])
}

func TestGenerateAndList(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products/generate", strings.NewReader(`{"count": 25, "seed": 42}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Successfully generated and stored 25 products.", decodeMessage(t, resp))

	resp = doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	products := decodeProducts(t, resp)
	assert.Len(t, products, 25)

	skus := make(map[string]struct{})
	for _, p := range products {
		skus[p.SKU] = struct{}{}
	}
	assert.Len(t, skus, 25)

	// A second batch with the same seed still yields unique skus.
	resp = doJSON(t, app, http.MethodPost, "/products/generate", strings.NewReader(`{"count": 25, "seed": 42}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/products", nil)
	products = decodeProducts(t, resp)
	assert.Len(t, products, 50)
	for _, p := range products {
		skus[p.SKU] = struct{}{}
	}
	assert.Len(t, skus, 50)
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	generate := func() []models.Product {
		app, _ := setupApp(t)
		resp := doJSON(t, app, http.MethodPost, "/products/generate", strings.NewReader(`{"count": 10, "seed": 1234}`))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return decodeProducts(t, doJSON(t, app, http.MethodGet, "/products", nil))
	}

	assert.Equal(t, generate(), generate())
}

func TestGenerateDefaults(t *testing.T) {
	tests := []struct {
		name string
		body io.Reader
	}{
		{"no body", nil},
		{"empty object", strings.NewReader(`{}`)},
		{"malformed json", strings.NewReader(`{"count": `)},
		{"wrong type", strings.NewReader(`{"count": "lots"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupApp(t)
			resp := doJSON(t, app, http.MethodPost, "/products/generate", tt.body)
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, "Successfully generated and stored 100 products.", decodeMessage(t, resp))

			products := decodeProducts(t, doJSON(t, app, http.MethodGet, "/products", nil))
			assert.Len(t, products, 100)
		})
	}
}

func TestGenerateZero(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products/generate", bytes.NewReader([]byte(`{"count": 0}`)))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Successfully generated and stored 0 products.", decodeMessage(t, resp))
}

func TestGenerateNegativeCount(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products/generate", strings.NewReader(`{"count": -5}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Successfully generated and stored 0 products.", decodeMessage(t, resp))

	products := decodeProducts(t, doJSON(t, app, http.MethodGet, "/products", nil))
	assert.Empty(t, products)
}

func TestStorageFailureIsGeneric(t *testing.T) {
	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	// No migration: every query fails on the missing table.
	repo := repositories.NewGORMProductRepository(db, 0)
	handler := handlers.NewProductHandler(
		services.NewProductService(repo, nil),
		services.NewGeneratorService(repo, nil, nil, nil),
		nil,
	)
	app := fiber.New()
	handler.RegisterRoutes(app)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/products"},
		{http.MethodGet, "/products/search?q=x"},
		{http.MethodPost, "/products/generate"},
	} {
		resp := doJSON(t, app, tc.method, tc.target, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, tc.target)
		msg := decodeMessage(t, resp)
		assert.NotContains(t, msg, "no such table")
	}
}
