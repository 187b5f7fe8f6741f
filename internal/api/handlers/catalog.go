package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopsmith/storefront/internal/api/middleware"
	"github.com/shopsmith/storefront/internal/errors"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/utils"
	"github.com/shopsmith/storefront/internal/utils/response"
)

// CatalogService is what the handlers need from the catalog client. All
// methods degrade to empty results instead of erroring; an empty response
// here can mean either "nothing there" or "catalog unreachable".
type CatalogService interface {
	ListProducts(ctx context.Context) []models.Product
	GetProduct(ctx context.Context, id int) *models.Product
	ListByCategory(ctx context.Context, category string) []models.Product
	ListCategories(ctx context.Context) []string
	SearchProducts(ctx context.Context, query string) []models.Product
}

type CatalogHandler struct {
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.catalog.ListProducts(r.Context()))
	}
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Product id must be an integer"))

			return
		}

		product := h.catalog.GetProduct(r.Context(), id)
		if product == nil {
			response.Error(w, errors.NotFoundError("Product not found"))

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.catalog.ListCategories(r.Context()))
	}
}

func (h *CatalogHandler) ListByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.PathValue("category")

		response.Success(w, http.StatusOK, h.catalog.ListByCategory(r.Context(), category))
	}
}

// Search reads the query from the q parameter, the same name the UI puts
// in the URL.
func (h *CatalogHandler) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := utils.SanitizeText(r.URL.Query().Get("q"))

		logger := middleware.LoggerFromContext(r.Context())
		logger.Info("Catalog search", "query", query)

		response.Success(w, http.StatusOK, h.catalog.SearchProducts(r.Context(), query))
	}
}
