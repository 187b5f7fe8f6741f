package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmith/storefront/internal/api/handlers"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/testutils"
	"github.com/shopsmith/storefront/internal/utils/response"
)

func setupCatalogTest() *handlers.CatalogHandler {
	return handlers.NewCatalogHandler(&stubCatalog{products: map[int]models.Product{
		1: {ID: 1, Title: "Widget", Price: 30.00, Category: "electronics"},
		2: {ID: 2, Title: "Trinket", Price: 5.50, Category: "electronics"},
	}})
}

func decodeProducts(t *testing.T, recorder *httptest.ResponseRecorder) []models.Product {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var products []models.Product
	require.NoError(t, json.Unmarshal(raw, &products))

	return products
}

func TestListProductsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Len(t, decodeProducts(t, recorder), 2)
	})
}

func TestGetProductHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/1", nil, map[string]string{"id": "1"})
		recorder := httptest.NewRecorder()

		// Act
		handler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/99", nil, map[string]string{"id": "99"})
		recorder := httptest.NewRecorder()

		// Act
		handler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Failure - Non-Numeric ID", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/abc", nil, map[string]string{"id": "abc"})
		recorder := httptest.NewRecorder()

		// Act
		handler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestSearchHandler(t *testing.T) {
	t.Run("Success - Filters By Query", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/search?q=widget", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Search()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		products := decodeProducts(t, recorder)
		require.Len(t, products, 1)
		assert.Equal(t, "Widget", products[0].Title)
	})

	t.Run("Success - No Match Returns Empty List", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/search?q=nothing", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Search()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, decodeProducts(t, recorder))
	})
}

func TestListByCategoryHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		handler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/category/electronics", nil, map[string]string{"category": "electronics"})
		recorder := httptest.NewRecorder()

		// Act
		handler.ListByCategory()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Len(t, decodeProducts(t, recorder), 2)
	})
}
