package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/service"
)

// PlacesHandler proxies business search for the audit form.
type PlacesHandler struct {
	places *service.PlacesService
}

// NewPlacesHandler constructs a PlacesHandler.
func NewPlacesHandler(places *service.PlacesService) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// Autocomplete handles GET /api/places/autocomplete?input=&region=.
func (h *PlacesHandler) Autocomplete(c echo.Context) error {
	predictions, err := h.places.Autocomplete(c.Request().Context(), c.QueryParam("input"), c.QueryParam("region"), c.QueryParam("session"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "", predictions)
}

// Details handles GET /api/places/:id.
func (h *PlacesHandler) Details(c echo.Context) error {
	draft, err := h.places.Details(c.Request().Context(), c.Param("id"), c.QueryParam("session"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "", draft)
}
