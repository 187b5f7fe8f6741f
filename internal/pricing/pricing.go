// Package pricing is the single source of the shipping rule. Both the cart
// summary and the checkout flow quote through here so the two can never
// disagree.
package pricing

const (
	freeShippingThreshold = 50.0
	flatShippingCost      = 10.0
)

// Quote holds the derived totals for a given subtotal.
type Quote struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

// ShippingCost is free above the threshold, a flat fee at or below it.
func ShippingCost(subtotal float64) float64 {
	if subtotal > freeShippingThreshold {
		return 0
	}

	return flatShippingCost
}

func QuoteFor(subtotal float64) Quote {
	shipping := ShippingCost(subtotal)

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}
