// Package checkout implements the two-step checkout state machine:
// address -> payment -> confirmed. Validation failures keep the flow in
// place and report one message per field; only a confirmed payment clears
// the cart and produces an order.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/shopsmith/storefront/internal/cart"
	"github.com/shopsmith/storefront/internal/errors"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/payment"
	"github.com/shopsmith/storefront/internal/pricing"
)

type Step string

const (
	StepAddress   Step = "address"
	StepPayment   Step = "payment"
	StepConfirmed Step = "confirmed"
)

const deliveryEstimateWindow = 7 * 24 * time.Hour

var (
	expiryShape = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvShape    = regexp.MustCompile(`^\d{3,4}$`)
	digitsShape = regexp.MustCompile(`^\d{16}$`)
)

// Notifier sends the order confirmation email. Failures are logged and
// never block the order.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, email string, order *models.Order) error
}

// Flow is one checkout attempt. It reads totals from the cart store and
// only ever mutates it on a confirmed payment.
type Flow struct {
	step      Step
	form      models.CheckoutForm
	order     *models.Order
	cart      *cart.Store
	processor payment.Processor
	notifier  Notifier
	validate  *validator.Validate
}

// NewFlow starts a fresh attempt in the address step, pre-filled from the
// session's known identity.
func NewFlow(cartStore *cart.Store, processor payment.Processor, notifier Notifier, session models.Session) *Flow {
	v := validator.New()
	// Error maps are keyed by the json field names the UI knows.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	f := &Flow{
		step:      StepAddress,
		cart:      cartStore,
		processor: processor,
		notifier:  notifier,
		validate:  v,
	}
	f.form.Name = session.Name
	f.form.Email = session.Email

	return f
}

func (f *Flow) Step() Step {
	return f.step
}

func (f *Flow) Form() models.CheckoutForm {
	return f.form
}

func (f *Flow) Order() *models.Order {
	return f.order
}

// SubmitAddress validates the address step and advances to payment. On
// failure the flow stays put and the returned map carries one message per
// invalid field.
func (f *Flow) SubmitAddress(form models.AddressForm) (map[string]string, error) {
	if f.step != StepAddress {
		return nil, errors.ConflictError("Checkout is not in the address step")
	}

	fieldErrors := f.validateAddress(form)
	if len(fieldErrors) > 0 {
		return fieldErrors, nil
	}

	f.form.AddressForm = form
	f.step = StepPayment

	return nil, nil
}

// Back returns from payment to address. It is always permitted there and
// keeps the entered address data.
func (f *Flow) Back() error {
	if f.step != StepPayment {
		return errors.ConflictError("Checkout is not in the payment step")
	}

	f.step = StepAddress

	return nil
}

// SubmitPayment validates the payment step, runs the simulated payment,
// and on success atomically clears the cart and produces the order. A
// declined payment surfaces as a single "payment" keyed message and
// leaves the cart untouched.
func (f *Flow) SubmitPayment(ctx context.Context, form models.PaymentForm) (*models.Order, map[string]string, error) {
	if f.step != StepPayment {
		return nil, nil, errors.ConflictError("Checkout is not in the payment step")
	}

	form.CardNumber = FormatCardNumber(form.CardNumber)
	form.Expiry = FormatExpiry(form.Expiry)
	form.CVV = FormatCVV(form.CVV)

	fieldErrors := validatePayment(form)
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	items := f.cart.Items()
	if len(items) == 0 {
		return nil, nil, errors.BadRequestError("Cannot place an order with an empty cart")
	}

	f.form.PaymentForm = form

	cardDigits := strings.ReplaceAll(form.CardNumber, " ", "")
	quote := pricing.QuoteFor(f.cart.Subtotal())

	charge := &payment.Charge{
		Amount:    quote.Total,
		CardLast4: cardDigits[len(cardDigits)-4:],
		CardName:  form.CardName,
	}

	if err := f.processor.Charge(ctx, charge); err != nil {
		slog.Warn("Payment processing failed", slog.String("error", err.Error()))

		return nil, map[string]string{"payment": "Payment processing failed. Please try again."}, nil
	}

	now := time.Now()
	order := &models.Order{
		Number:           newOrderNumber(),
		Items:            items,
		Subtotal:         quote.Subtotal,
		Shipping:         quote.Shipping,
		Total:            quote.Total,
		PlacedAt:         now,
		DeliveryEstimate: now.Add(deliveryEstimateWindow),
	}

	f.cart.Clear(ctx)
	f.order = order
	f.step = StepConfirmed

	if f.notifier != nil {
		if err := f.notifier.SendOrderConfirmation(ctx, f.form.Email, order); err != nil {
			slog.Warn("Order confirmation email failed",
				slog.String("order", order.Number),
				slog.String("error", err.Error()))
		}
	}

	return order, nil, nil
}

func (f *Flow) validateAddress(form models.AddressForm) map[string]string {
	err := f.validate.Struct(form)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": "Invalid address details"}
	}

	fieldErrors := make(map[string]string, len(validationErrs))

	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			fieldErrors[fe.Field()] = fieldLabel(fe.Field()) + " is required"
		case "email":
			fieldErrors[fe.Field()] = "Email is invalid"
		default:
			fieldErrors[fe.Field()] = fieldLabel(fe.Field()) + " is invalid"
		}
	}

	return fieldErrors
}

func validatePayment(form models.PaymentForm) map[string]string {
	fieldErrors := make(map[string]string)

	stripped := strings.ReplaceAll(form.CardNumber, " ", "")

	switch {
	case form.CardNumber == "":
		fieldErrors["cardNumber"] = "Card number is required"
	case !digitsShape.MatchString(stripped):
		fieldErrors["cardNumber"] = "Card number must be 16 digits"
	}

	if form.CardName == "" {
		fieldErrors["cardName"] = "Name on card is required"
	}

	// Shape only: calendar-invalid months such as 13/25 pass.
	switch {
	case form.Expiry == "":
		fieldErrors["expiry"] = "Expiry date is required"
	case !expiryShape.MatchString(form.Expiry):
		fieldErrors["expiry"] = "Expiry date must be in MM/YY format"
	}

	switch {
	case form.CVV == "":
		fieldErrors["cvv"] = "CVV is required"
	case !cvvShape.MatchString(form.CVV):
		fieldErrors["cvv"] = "CVV must be 3 or 4 digits"
	}

	if len(fieldErrors) == 0 {
		return nil
	}

	return fieldErrors
}

// fieldLabel turns a json field name into the label the messages use,
// e.g. "zipCode" -> "Zip Code".
func fieldLabel(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func newOrderNumber() string {
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}
