package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/service"
)

// AuthHandler exposes operator authentication.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{AccessToken: token})
}
