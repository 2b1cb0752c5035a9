package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/service"
)

// OperatorAdminHandler lets admins manage staff accounts.
type OperatorAdminHandler struct {
	operators *service.OperatorService
}

// NewOperatorAdminHandler constructs a handler instance.
func NewOperatorAdminHandler(operators *service.OperatorService) *OperatorAdminHandler {
	return &OperatorAdminHandler{operators: operators}
}

// List returns all operators.
func (h *OperatorAdminHandler) List(c echo.Context) error {
	records, err := h.operators.ListOperators(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "operators retrieved", records)
}

// Create provisions a new operator.
func (h *OperatorAdminHandler) Create(c echo.Context) error {
	var req dto.CreateOperatorRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	op, err := h.operators.CreateOperator(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusCreated, "operator created", op)
}
