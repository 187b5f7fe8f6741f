package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmith/storefront/internal/models"
	repository "github.com/shopsmith/storefront/internal/repositories"
)

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Create Assigns ID And Timestamp", func(t *testing.T) {
		// Arrange
		repo := repository.NewMemoryUserRepo()
		user := &models.User{Name: "Jane Shopper", Email: "jane@example.com", Password: "hash"}

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("Success - Email Lookup Is Case-Insensitive", func(t *testing.T) {
		// Arrange
		repo := repository.NewMemoryUserRepo()
		user := &models.User{Name: "Jane Shopper", Email: "Jane@Example.com", Password: "hash"}
		require.NoError(t, repo.CreateUser(ctx, user))

		// Act
		found, err := repo.GetUserByEmail(ctx, "  jane@example.com ")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("Success - Lookup Returns A Copy", func(t *testing.T) {
		// Arrange
		repo := repository.NewMemoryUserRepo()
		user := &models.User{Name: "Jane Shopper", Email: "jane@example.com", Password: "hash"}
		require.NoError(t, repo.CreateUser(ctx, user))

		// Act
		first, err := repo.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		first.Name = "mutated"

		second, err := repo.GetUserByID(ctx, user.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Jane Shopper", second.Name)
	})

	t.Run("Failure - Unknown Email", func(t *testing.T) {
		// Arrange
		repo := repository.NewMemoryUserRepo()

		// Act
		user, err := repo.GetUserByEmail(ctx, "nobody@example.com")

		// Assert
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("Failure - Unknown ID", func(t *testing.T) {
		// Arrange
		repo := repository.NewMemoryUserRepo()

		// Act
		user, err := repo.GetUserByID(ctx, uuid.New())

		// Assert
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}
