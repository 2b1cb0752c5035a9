package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/content"
	"github.com/octobees/agency-web/internal/repository"
	"github.com/octobees/agency-web/internal/service"
)

const contactSupport = "your location was registered with our listings partner but could not be saved, please contact support"

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope of failed API calls.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	return ErrorWithDetails(c, status, message, nil)
}

// ErrorWithDetails is Error with a details object.
func ErrorWithDetails(c echo.Context, status int, message string, details any) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{
		Status:  "error",
		Error:   message,
		Details: details,
	})
}

// writeServiceError maps service and repository errors onto status codes.
func writeServiceError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var (
		validationErr *service.ValidationError
		providerErr   *service.ProviderError
		storageErr    *service.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		return Error(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &providerErr):
		slog.WarnContext(ctx, "upstream call failed", "op", providerErr.Op, "status", providerErr.StatusCode, "error", providerErr.Message)
		details := map[string]any{}
		if providerErr.StatusCode > 0 {
			details["upstream_status"] = providerErr.StatusCode
		}
		if providerErr.Body != "" {
			details["upstream_body"] = providerErr.Body
		}
		if len(details) == 0 {
			details = nil
		}
		return ErrorWithDetails(c, providerErr.HTTPStatus(), providerErr.Message, details)
	case errors.Is(err, service.ErrInconsistentState):
		// Already logged at CRITICAL by the service.
		return Error(c, http.StatusInternalServerError, contactSupport)
	case errors.Is(err, service.ErrNotConfigured):
		return Error(c, http.StatusServiceUnavailable, "this feature is not configured")
	case errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, repository.ErrEmailDuplicate):
		return Error(c, http.StatusConflict, "email already exists")
	case errors.Is(err, content.ErrNotFound), errors.Is(err, repository.ErrLocationNotFound):
		return Error(c, http.StatusNotFound, "not found")
	case errors.As(err, &storageErr):
		slog.ErrorContext(ctx, "storage failure", "op", storageErr.Op, "error", storageErr.Err)
		return Error(c, http.StatusInternalServerError, "internal storage error")
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
