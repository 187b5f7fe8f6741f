package handlers

import (
	"net/http"
	"sync"

	"github.com/shopsmith/storefront/internal/api/middleware"
	"github.com/shopsmith/storefront/internal/cart"
	"github.com/shopsmith/storefront/internal/checkout"
	"github.com/shopsmith/storefront/internal/errors"
	"github.com/shopsmith/storefront/internal/metrics"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/payment"
	"github.com/shopsmith/storefront/internal/utils"
	"github.com/shopsmith/storefront/internal/utils/response"
)

// CheckoutHandler owns the flow for the current checkout attempt. All
// routes behind it require authentication; starting a new checkout
// discards any attempt in progress.
type CheckoutHandler struct {
	mu        sync.Mutex
	flow      *checkout.Flow
	store     *cart.Store
	processor payment.Processor
	notifier  checkout.Notifier
}

func NewCheckoutHandler(store *cart.Store, processor payment.Processor, notifier checkout.Notifier) *CheckoutHandler {
	return &CheckoutHandler{store: store, processor: processor, notifier: notifier}
}

func (h *CheckoutHandler) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store.TotalItems() == 0 {
			response.Error(w, errors.BadRequestError("Cannot check out an empty cart"))

			return
		}

		session := models.SessionFromClaims(middleware.ClaimsFromContext(r.Context()))

		h.mu.Lock()
		h.flow = checkout.NewFlow(h.store, h.processor, h.notifier, session)
		state := h.stateLocked()
		h.mu.Unlock()

		response.Success(w, http.StatusCreated, state)
	}
}

func (h *CheckoutHandler) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.flow == nil {
			response.Error(w, errors.NotFoundError("No checkout in progress"))

			return
		}

		response.Success(w, http.StatusOK, h.stateLocked())
	}
}

func (h *CheckoutHandler) SubmitAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form models.AddressForm
		if err := utils.DecodeJSONBody(r, &form); err != nil {
			response.WriteJson(w, http.StatusBadRequest, response.GeneralError(err))

			return
		}

		sanitizeAddress(&form)

		h.mu.Lock()
		defer h.mu.Unlock()

		if h.flow == nil {
			response.Error(w, errors.NotFoundError("No checkout in progress"))

			return
		}

		fieldErrors, err := h.flow.SubmitAddress(form)
		if err != nil {
			response.Error(w, err)

			return
		}

		if len(fieldErrors) > 0 {
			response.FieldErrors(w, fieldErrors)

			return
		}

		response.Success(w, http.StatusOK, h.stateLocked())
	}
}

func (h *CheckoutHandler) Back() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.flow == nil {
			response.Error(w, errors.NotFoundError("No checkout in progress"))

			return
		}

		if err := h.flow.Back(); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, h.stateLocked())
	}
}

func (h *CheckoutHandler) SubmitPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form models.PaymentForm
		if err := utils.DecodeJSONBody(r, &form); err != nil {
			response.WriteJson(w, http.StatusBadRequest, response.GeneralError(err))

			return
		}

		h.mu.Lock()
		defer h.mu.Unlock()

		if h.flow == nil {
			response.Error(w, errors.NotFoundError("No checkout in progress"))

			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		order, fieldErrors, err := h.flow.SubmitPayment(r.Context(), form)
		if err != nil {
			response.Error(w, err)

			return
		}

		if len(fieldErrors) > 0 {
			if _, declined := fieldErrors["payment"]; declined {
				metrics.PaymentFailed()
			}
			response.FieldErrors(w, fieldErrors)

			return
		}

		metrics.OrderConfirmed()
		logger.Info("Order confirmed", "order", order.Number, "total", order.Total)

		response.Success(w, http.StatusOK, h.stateLocked())
	}
}

func (h *CheckoutHandler) stateLocked() models.CheckoutStateResponse {
	form := h.flow.Form()
	// The raw card data stays inside the flow.
	form.PaymentForm = models.PaymentForm{}

	return models.CheckoutStateResponse{
		Step:  string(h.flow.Step()),
		Form:  &form,
		Order: h.flow.Order(),
	}
}

func sanitizeAddress(form *models.AddressForm) {
	form.Name = utils.SanitizeText(form.Name)
	form.Phone = utils.SanitizeText(form.Phone)
	form.Address = utils.SanitizeText(form.Address)
	form.City = utils.SanitizeText(form.City)
	form.State = utils.SanitizeText(form.State)
	form.ZipCode = utils.SanitizeText(form.ZipCode)
	form.Country = utils.SanitizeText(form.Country)
}
