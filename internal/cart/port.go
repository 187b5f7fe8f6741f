package cart

import (
	"context"

	"github.com/shopsmith/storefront/internal/models"
)

// StorageKey is the one key the cart is ever persisted under. There is a
// single writer and a single key; no versioning or migration scheme.
const StorageKey = "cart"

// Port is the persistence boundary of the store. Load returns (nil, nil)
// when nothing has been saved yet; a decode failure is an error the store
// downgrades to an empty start.
type Port interface {
	Load(ctx context.Context) ([]models.CartItem, error)
	Save(ctx context.Context, items []models.CartItem) error
}
