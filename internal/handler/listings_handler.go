package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/service"
)

// ListingsHandler exposes category, directory and location sync endpoints.
type ListingsHandler struct {
	listings *service.ListingsService
}

// NewListingsHandler constructs a ListingsHandler.
func NewListingsHandler(listings *service.ListingsService) *ListingsHandler {
	return &ListingsHandler{listings: listings}
}

// Categories handles GET /api/get-business-categories?country_code=XXX.
func (h *ListingsHandler) Categories(c echo.Context) error {
	return h.syncCategories(c, c.QueryParam("country_code"))
}

// SyncCategories handles GET /api/seo-local-api/sync-categories?country=XXX.
func (h *ListingsHandler) SyncCategories(c echo.Context) error {
	return h.syncCategories(c, c.QueryParam("country"))
}

func (h *ListingsHandler) syncCategories(c echo.Context, country string) error {
	categories, err := h.listings.GetCategories(c.Request().Context(), country)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "categories synced", categories)
}

// SyncDirectories handles GET /api/seo-local-api/sync-directories?country=XXX.
func (h *ListingsHandler) SyncDirectories(c echo.Context) error {
	directories, err := h.listings.SyncDirectories(c.Request().Context(), c.QueryParam("country"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "directories synced", directories)
}

// CreateLocation handles POST /api/create-location-profile and POST /api/seo-local-api/locations.
func (h *ListingsHandler) CreateLocation(c echo.Context) error {
	var req dto.CreateLocationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.listings.CreateLocation(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	if resp.AlreadyExisted {
		return Success(c, http.StatusOK, "location already exists", resp)
	}
	return Success(c, http.StatusCreated, "location created", resp)
}

// ListLocations handles GET /api/admin/locations.
func (h *ListingsHandler) ListLocations(c echo.Context) error {
	filter := dto.LocationFilter{
		ClientID: c.QueryParam("client_id"),
		Country:  c.QueryParam("country"),
		Q:        c.QueryParam("q"),
	}
	if page := c.QueryParam("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return Error(c, http.StatusBadRequest, "page must be a positive integer")
		}
		filter.Page = n
	}
	if perPage := c.QueryParam("per_page"); perPage != "" {
		n, err := strconv.Atoi(perPage)
		if err != nil || n < 1 {
			return Error(c, http.StatusBadRequest, "per_page must be a positive integer")
		}
		filter.PerPage = n
	}

	locations, err := h.listings.ListLocations(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "locations retrieved", locations)
}
