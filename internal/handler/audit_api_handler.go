package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/service"
)

// AuditAPIHandler serves the public performance and presence audits.
type AuditAPIHandler struct {
	pagespeed *service.PageSpeedService
	presence  *service.PresenceService
}

// NewAuditAPIHandler constructs an AuditAPIHandler.
func NewAuditAPIHandler(pagespeed *service.PageSpeedService, presence *service.PresenceService) *AuditAPIHandler {
	return &AuditAPIHandler{pagespeed: pagespeed, presence: presence}
}

// PageSpeed handles POST /api/pagespeed.
func (h *AuditAPIHandler) PageSpeed(c echo.Context) error {
	var req dto.PageSpeedRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result, err := h.pagespeed.Analyze(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "analysis complete", result)
}

// Presence handles POST /api/online-presence-audit.
func (h *AuditAPIHandler) Presence(c echo.Context) error {
	var req dto.PresenceAuditRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result, err := h.presence.Audit(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "audit complete", result)
}
