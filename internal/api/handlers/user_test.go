package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmith/storefront/internal/api/handlers"
	"github.com/shopsmith/storefront/internal/models"
	repository "github.com/shopsmith/storefront/internal/repositories"
	service "github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/internal/testutils"
	"github.com/shopsmith/storefront/internal/utils/response"
)

type stubRateLimit struct {
	allowed    bool
	retryAfter int
}

func (s *stubRateLimit) CheckLoginRateLimit(_ context.Context, _ string) (bool, int, int, error) {
	return s.allowed, 3, s.retryAfter, nil
}

func setupUserTest(limiter repository.RateLimitRepository) (*service.UserService, *handlers.UserHandler) {
	userService := service.NewUserService(repository.NewMemoryUserRepo(), limiter, []byte("test-secret"))

	return userService, handlers.NewUserHandler(userService)
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		_, handler := setupUserTest(&stubRateLimit{allowed: true})
		body := strings.NewReader(`{"name": "Jane Shopper", "email": "jane@example.com", "password": "hunter22"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/users/register", body, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Register()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("Failure - Short Password Fails Validation", func(t *testing.T) {
		// Arrange
		_, handler := setupUserTest(&stubRateLimit{allowed: true})
		body := strings.NewReader(`{"name": "Jane Shopper", "email": "jane@example.com", "password": "abc"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/users/register", body, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Register()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Failure - Duplicate Email Conflicts", func(t *testing.T) {
		// Arrange
		userService, handler := setupUserTest(&stubRateLimit{allowed: true})
		_, err := userService.Register(context.Background(), &models.RegisterRequest{
			Name: "Jane Shopper", Email: "jane@example.com", Password: "hunter22",
		})
		require.NoError(t, err)

		body := strings.NewReader(`{"name": "Jane Shopper", "email": "jane@example.com", "password": "hunter22"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/users/register", body, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Register()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	registerShopper := func(t *testing.T, userService *service.UserService) {
		t.Helper()

		_, err := userService.Register(context.Background(), &models.RegisterRequest{
			Name: "Jane Shopper", Email: "jane@example.com", Password: "hunter22",
		})
		require.NoError(t, err)
	}

	t.Run("Success - Returns A Token", func(t *testing.T) {
		// Arrange
		userService, handler := setupUserTest(&stubRateLimit{allowed: true})
		registerShopper(t, userService)

		body := strings.NewReader(`{"email": "jane@example.com", "password": "hunter22"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/users/login", body, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Failure - Wrong Password Is Unauthorized", func(t *testing.T) {
		// Arrange
		userService, handler := setupUserTest(&stubRateLimit{allowed: true})
		registerShopper(t, userService)

		body := strings.NewReader(`{"email": "jane@example.com", "password": "wrong!"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/users/login", body, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Token)
	})

	t.Run("Failure - Rate Limited Is Too Many Requests", func(t *testing.T) {
		// Arrange
		_, handler := setupUserTest(&stubRateLimit{allowed: false, retryAfter: 300})

		body := strings.NewReader(`{"email": "jane@example.com", "password": "hunter22"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/users/login", body, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, 300, resp.RetryAfter)
	})
}

func TestProfileHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		userService, handler := setupUserTest(&stubRateLimit{allowed: true})
		registered, err := userService.Register(context.Background(), &models.RegisterRequest{
			Name: "Jane Shopper", Email: "jane@example.com", Password: "hunter22",
		})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/users/profile", nil, registered.ID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Profile()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - Unauthenticated", func(t *testing.T) {
		// Arrange
		_, handler := setupUserTest(&stubRateLimit{allowed: true})
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/users/profile", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Profile()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Unknown User", func(t *testing.T) {
		// Arrange
		_, handler := setupUserTest(&stubRateLimit{allowed: true})
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/users/profile", nil, uuid.New(), nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Profile()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
