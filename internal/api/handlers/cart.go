package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/shopsmith/storefront/internal/api/middleware"
	"github.com/shopsmith/storefront/internal/cart"
	"github.com/shopsmith/storefront/internal/errors"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/pricing"
	"github.com/shopsmith/storefront/internal/utils"
	"github.com/shopsmith/storefront/internal/utils/response"
)

type CartHandler struct {
	store     *cart.Store
	catalog   CatalogService
	validator *validator.Validate
}

func NewCartHandler(store *cart.Store, catalog CatalogService) *CartHandler {
	return &CartHandler{
		store:     store,
		catalog:   catalog,
		validator: validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.cartResponse())
	}
}

// AddItem snapshots the product from the catalog at add time; the
// snapshot is never refreshed afterwards.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product := h.catalog.GetProduct(r.Context(), req.ProductID)
		if product == nil {
			response.Error(w, errors.NotFoundError("Product not found"))

			return
		}

		h.store.Add(r.Context(), *product, req.Quantity)

		logger := middleware.LoggerFromContext(r.Context())
		logger.Info("Item added to cart", "productId", req.ProductID, "quantity", req.Quantity)

		response.Success(w, http.StatusOK, h.cartResponse())
	}
}

// UpdateQuantity sets the quantity outright; zero or less removes the
// item, so no minimum is validated here.
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateQuantityRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.WriteJson(w, http.StatusBadRequest, response.GeneralError(err))

			return
		}

		if req.ProductID == 0 {
			response.Error(w, errors.BadRequestError("product_id is required"))

			return
		}

		h.store.UpdateQuantity(r.Context(), req.ProductID, req.Quantity)

		response.Success(w, http.StatusOK, h.cartResponse())
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Product id must be an integer"))

			return
		}

		h.store.Remove(r.Context(), id)

		response.Success(w, http.StatusOK, h.cartResponse())
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.store.Clear(r.Context())

		response.Success(w, http.StatusOK, h.cartResponse())
	}
}

// cartResponse quotes through the shared pricing rule so the summary here
// can never disagree with checkout.
func (h *CartHandler) cartResponse() models.CartResponse {
	quote := pricing.QuoteFor(h.store.Subtotal())

	return models.CartResponse{
		Items:      h.store.Items(),
		TotalItems: h.store.TotalItems(),
		Subtotal:   quote.Subtotal,
		Shipping:   quote.Shipping,
		Total:      quote.Total,
	}
}
