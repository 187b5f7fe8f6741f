package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsmith/storefront/internal/api/middleware"
	"github.com/shopsmith/storefront/internal/errors"
	"github.com/shopsmith/storefront/internal/models"
	service "github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/internal/utils"
	"github.com/shopsmith/storefront/internal/utils/response"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		req.Name = utils.SanitizeText(req.Name)

		logger := middleware.LoggerFromContext(r.Context())

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Warn("User registration failed", "email", req.Email, "error", err.Error())
			response.Error(w, err)

			return
		}

		logger.Info("User registered", "userId", user.ID.String())
		response.Success(w, http.StatusCreated, user)
	}
}

func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", "email", req.Email, "error", err.Error())
			response.Error(w, err)

			return
		}

		if !resp.Success {
			status := http.StatusUnauthorized
			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
			}

			response.WriteJson(w, status, resp)

			return
		}

		logger.Info("User logged in", "email", req.Email)
		response.WriteJson(w, http.StatusOK, resp)
	}
}

func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
