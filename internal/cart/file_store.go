package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopsmith/storefront/internal/models"
)

// FilePort persists the cart as a JSON array in a single file, the local
// storage analogue for a process that owns one shopper session.
type FilePort struct {
	path string
}

func NewFilePort(path string) *FilePort {
	return &FilePort{path: path}
}

func (f *FilePort) Load(_ context.Context) ([]models.CartItem, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading cart file %s: %w", f.path, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing cart file %s: %w", f.path, err)
	}

	return items, nil
}

func (f *FilePort) Save(_ context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing cart file %s: %w", f.path, err)
	}

	return nil
}
