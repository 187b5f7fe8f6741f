package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmith/storefront/internal/cart"
	"github.com/shopsmith/storefront/internal/models"
)

func TestRedisPort(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Missing Key Loads As Empty", func(t *testing.T) {
		// Arrange
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cart.StorageKey).RedisNil()
		port := cart.NewRedisPort(db)

		// Act
		items, err := port.Load(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Nil(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Loads Persisted Items", func(t *testing.T) {
		// Arrange
		saved := []models.CartItem{{ProductID: 1, Quantity: 2, Product: sampleProduct(1, 9.99)}}
		payload, err := json.Marshal(saved)
		require.NoError(t, err)

		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cart.StorageKey).SetVal(string(payload))
		port := cart.NewRedisPort(db)

		// Act
		items, err := port.Load(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Saves Under The Single Key", func(t *testing.T) {
		// Arrange
		items := []models.CartItem{{ProductID: 4, Quantity: 1, Product: sampleProduct(4, 3.00)}}
		payload, err := json.Marshal(items)
		require.NoError(t, err)

		db, mock := redismock.NewClientMock()
		mock.ExpectSet(cart.StorageKey, payload, 0).SetVal("OK")
		port := cart.NewRedisPort(db)

		// Act
		err = port.Save(ctx, items)

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Corrupt Payload Returns Error", func(t *testing.T) {
		// Arrange
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cart.StorageKey).SetVal("{broken")
		port := cart.NewRedisPort(db)

		// Act
		items, err := port.Load(ctx)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, items)
	})

	t.Run("Failure - Connection Error Is Wrapped", func(t *testing.T) {
		// Arrange
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cart.StorageKey).SetErr(errors.New("connection refused"))
		port := cart.NewRedisPort(db)

		// Act
		_, err := port.Load(ctx)

		// Assert
		assert.ErrorContains(t, err, "loading cart from redis")
	})
}
