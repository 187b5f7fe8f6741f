package models

import "time"

// AddressForm is the first checkout step. Every field is required; email
// additionally has to look like a mailbox.
type AddressForm struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city"    validate:"required"`
	State   string `json:"state"   validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// PaymentForm is the second checkout step. Shape checks only: the expiry
// is not validated against the calendar.
type PaymentForm struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	SaveCard   bool   `json:"saveCard"`
}

// CheckoutForm is the union of both steps, created fresh per checkout
// attempt and discarded on completion.
type CheckoutForm struct {
	AddressForm
	PaymentForm
}

// Order is the ephemeral confirmation record produced on successful
// payment submission. It is never persisted; the confirmation view is its
// only consumer.
type Order struct {
	Number           string     `json:"number"`
	Items            []CartItem `json:"items"`
	Subtotal         float64    `json:"subtotal"`
	Shipping         float64    `json:"shipping"`
	Total            float64    `json:"total"`
	PlacedAt         time.Time  `json:"placed_at"`
	DeliveryEstimate time.Time  `json:"delivery_estimate"`
}

type CheckoutStateResponse struct {
	Step  string        `json:"step"`
	Form  *CheckoutForm `json:"form,omitempty"`
	Order *Order        `json:"order,omitempty"`
}
