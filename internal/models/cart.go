package models

// CartItem pairs a product snapshot with the quantity pending purchase.
// The snapshot is taken at add time and is not refreshed if the catalog
// changes afterwards.
type CartItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity"   validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity"`
}

// CartResponse is what the cart endpoints return: the ordered items plus
// the derived totals the order-summary box renders.
type CartResponse struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
	Shipping   float64    `json:"shipping"`
	Total      float64    `json:"total"`
}
