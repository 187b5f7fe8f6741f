// Package cart owns the shopper's pending selections: an ordered item
// collection keyed by product id, derived totals, and write-through
// persistence to a single storage key.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopsmith/storefront/internal/models"
)

// Store keeps items in first-added order. Every mutation saves the full
// collection synchronously through the Port; a save failure is logged and
// never surfaced, matching the rest of the system's degrade-and-continue
// error posture.
type Store struct {
	mu    sync.Mutex
	items []models.CartItem
	port  Port
}

// NewStore restores the persisted cart if one exists. A load or decode
// failure is logged and the store starts empty; it is never fatal.
func NewStore(ctx context.Context, port Port) *Store {
	s := &Store{port: port}

	items, err := port.Load(ctx)
	if err != nil {
		slog.Warn("Failed to restore persisted cart, starting empty", slog.String("error", err.Error()))

		return s
	}

	s.items = items

	return s
}

// Add merges into an existing line by product id, incrementing its
// quantity, or appends a new item carrying a snapshot of the product.
// Non-positive quantities are the caller's mistake and are ignored.
func (s *Store) Add(ctx context.Context, product models.Product, quantity int) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += quantity
			s.persist(ctx)

			return
		}
	}

	s.items = append(s.items, models.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   product,
	})
	s.persist(ctx)
}

// Remove drops the item with the given product id; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(ctx, productID)
}

// UpdateQuantity sets an item's quantity outright. A quantity of zero or
// less behaves exactly like Remove. Absent ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, productID)

		return
	}

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			s.persist(ctx)

			return
		}
	}
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items returns a copy in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)

	return items
}

// TotalItems is the sum of quantities, recomputed on every call.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, item := range s.items {
		total += item.Quantity
	}

	return total
}

// Subtotal is the sum of price times quantity across items, recomputed on
// every call. Item order cannot affect the result.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtotal float64
	for _, item := range s.items {
		subtotal += item.Product.Price * float64(item.Quantity)
	}

	return subtotal
}

func (s *Store) removeLocked(ctx context.Context, productID int) {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)

			return
		}
	}
}

// persist is called with the lock held, after every mutation.
func (s *Store) persist(ctx context.Context) {
	if err := s.port.Save(ctx, s.items); err != nil {
		slog.Warn("Failed to persist cart", slog.String("error", err.Error()))
	}
}
