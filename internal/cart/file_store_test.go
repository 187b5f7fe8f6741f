package cart_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmith/storefront/internal/cart"
	"github.com/shopsmith/storefront/internal/models"
)

func TestFilePort(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Missing File Loads As Empty", func(t *testing.T) {
		// Arrange
		port := cart.NewFilePort(filepath.Join(t.TempDir(), "cart.json"))

		// Act
		items, err := port.Load(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Nil(t, items)
	})

	t.Run("Success - Round Trip Preserves Items And Order", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "cart.json")
		port := cart.NewFilePort(path)
		saved := []models.CartItem{
			{ProductID: 3, Quantity: 1, Product: sampleProduct(3, 19.99)},
			{ProductID: 1, Quantity: 4, Product: sampleProduct(1, 2.50)},
		}

		// Act
		err := port.Save(ctx, saved)
		require.NoError(t, err)

		loaded, err := port.Load(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, 3, loaded[0].ProductID)
		assert.Equal(t, 1, loaded[1].ProductID)
		assert.Equal(t, saved[0].Product.Price, loaded[0].Product.Price)
	})

	t.Run("Success - Nil Items Saved As Empty Array", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "cart.json")
		port := cart.NewFilePort(path)

		// Act
		err := port.Save(ctx, nil)
		require.NoError(t, err)

		loaded, err := port.Load(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("Failure - Corrupt File Returns Error", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "cart.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		port := cart.NewFilePort(path)

		// Act
		items, err := port.Load(ctx)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, items)
	})

	t.Run("Failure - Corrupt File Still Yields Empty Store", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "cart.json")
		require.NoError(t, os.WriteFile(path, []byte("[[["), 0o600))

		// Act
		store := cart.NewStore(ctx, cart.NewFilePort(path))

		// Assert
		assert.Empty(t, store.Items())
	})
}
