package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/audit"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/entity"
	"github.com/octobees/agency-web/internal/places"
	"github.com/octobees/agency-web/internal/service"
	"github.com/octobees/agency-web/internal/web"
)

const (
	defaultAuditRegion = "USA"
	placeReferencePref = "gp-"
)

// AuditFlowHandler drives the multi-step audit form. All state travels in
// form fields; nothing is kept on the server between steps.
type AuditFlowHandler struct {
	places   *service.PlacesService
	listings *service.ListingsService
	siteURL  string
}

// NewAuditFlowHandler constructs an AuditFlowHandler.
func NewAuditFlowHandler(places *service.PlacesService, listings *service.ListingsService, siteURL string) *AuditFlowHandler {
	return &AuditFlowHandler{places: places, listings: listings, siteURL: siteURL}
}

type auditView struct {
	State        audit.State
	Query        string
	Region       string
	SessionToken string
	PlaceID      string
	Predictions  []places.Prediction
	Form         dto.CreateLocationRequest
	Categories   []entity.BusinessCategory
	Error        string
	Result       *dto.CreateLocationResponse
}

// CategoryName returns the name of the selected category.
func (v auditView) CategoryName() string {
	for _, cat := range v.Categories {
		if cat.ID == v.Form.BusinessCategoryID {
			return cat.Name
		}
	}
	return strconv.FormatInt(v.Form.BusinessCategoryID, 10)
}

func (h *AuditFlowHandler) render(c echo.Context, status int, view auditView) error {
	return c.Render(status, "audit", web.Page{
		Title:       "Free location audit",
		Description: "See where your business is listed and how fast your site is.",
		Path:        "/audit",
		SiteURL:     h.siteURL,
		Data:        view,
	})
}

func (h *AuditFlowHandler) reject(c echo.Context, err error) error {
	slog.InfoContext(c.Request().Context(), "audit flow rejected", "error", err)
	return h.render(c, http.StatusBadRequest, auditView{
		State:        audit.SearchingBusiness,
		Region:       defaultAuditRegion,
		SessionToken: uuid.NewString(),
		Error:        "This step is no longer valid. Please start again.",
	})
}

// Start handles GET /audit.
func (h *AuditFlowHandler) Start(c echo.Context) error {
	view := auditView{
		State:        audit.SearchingBusiness,
		Query:        strings.TrimSpace(c.QueryParam("q")),
		Region:       strings.ToUpper(strings.TrimSpace(c.QueryParam("region"))),
		SessionToken: c.QueryParam("session"),
	}
	if view.Region == "" {
		view.Region = defaultAuditRegion
	}
	if view.SessionToken == "" {
		view.SessionToken = uuid.NewString()
	}

	if view.Query != "" {
		predictions, err := h.places.Autocomplete(c.Request().Context(), view.Query, view.Region, view.SessionToken)
		if err != nil {
			view.Error = userMessage(err)
		}
		view.Predictions = predictions
	}
	return h.render(c, http.StatusOK, view)
}

// Select handles POST /audit/select.
func (h *AuditFlowHandler) Select(c echo.Context) error {
	view, err := h.advance(c, audit.SelectBusiness)
	if err != nil {
		return h.reject(c, err)
	}
	view.PlaceID = c.FormValue("place_id")

	ctx := c.Request().Context()
	draft, err := h.places.Details(ctx, view.PlaceID, view.SessionToken)
	if err != nil {
		view.Error = userMessage(err)
		return h.render(c, http.StatusOK, view)
	}
	view.Form = dto.CreateLocationRequest{
		LocationReference: placeReferencePref + draft.PlaceID,
		BusinessName:      draft.BusinessName,
		Address1:          draft.Address1,
		Address2:          draft.Address2,
		City:              draft.City,
		Region:            draft.Region,
		Postcode:          draft.Postcode,
		Country:           draft.Country,
		Telephone:         draft.Telephone,
		URL:               draft.URL,
	}
	if view.Form.Country == "" {
		view.Form.Country = view.Region
	}

	view.Categories, err = h.listings.CategoriesFor(ctx, view.Form.Country)
	if err != nil {
		view.Error = userMessage(err)
		return h.render(c, http.StatusOK, view)
	}

	view.State, _ = audit.Next(view.State, audit.StartDescribing)
	return h.render(c, http.StatusOK, view)
}

// Review handles POST /audit/review.
func (h *AuditFlowHandler) Review(c echo.Context) error {
	current, err := audit.ParseState(c.FormValue("state"))
	if err != nil {
		return h.reject(c, err)
	}
	if _, err := audit.Next(current, audit.Review); err != nil {
		return h.reject(c, err)
	}

	view := h.viewFromForm(c, current)
	view.Categories, err = h.listings.CategoriesFor(c.Request().Context(), view.Form.Country)
	if err != nil {
		view.Error = userMessage(err)
		return h.render(c, http.StatusOK, view)
	}

	switch {
	case view.Form.BusinessCategoryID <= 0:
		view.Error = "Please choose a category."
	case strings.TrimSpace(view.Form.Description) == "":
		view.Error = "Please describe your business."
	}
	if view.Error != "" {
		view.State = audit.CategorizingAndDescribing
		return h.render(c, http.StatusOK, view)
	}

	view.State = audit.ReviewingPayload
	return h.render(c, http.StatusOK, view)
}

// Submit handles POST /audit/submit: either back to editing or confirm.
func (h *AuditFlowHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	event := audit.Confirm
	if c.FormValue("action") == string(audit.CloseReview) {
		event = audit.CloseReview
	}
	view, err := h.advance(c, event)
	if err != nil {
		return h.reject(c, err)
	}

	if event == audit.CloseReview {
		if view.Categories, err = h.listings.CategoriesFor(ctx, view.Form.Country); err != nil {
			view.Error = userMessage(err)
		}
		return h.render(c, http.StatusOK, view)
	}

	result, err := h.listings.CreateLocation(ctx, view.Form)
	if err != nil {
		view.State, _ = audit.Next(view.State, audit.Fail)
		view.Error = userMessage(err)
		return h.render(c, http.StatusOK, view)
	}

	view.State, _ = audit.Next(view.State, audit.Succeed)
	view.Result = result
	return h.render(c, http.StatusOK, view)
}

// advance reads the posted state and applies ev to it.
func (h *AuditFlowHandler) advance(c echo.Context, ev audit.Event) (auditView, error) {
	current, err := audit.ParseState(c.FormValue("state"))
	if err != nil {
		return auditView{}, err
	}
	next, err := audit.Next(current, ev)
	if err != nil {
		return auditView{}, err
	}
	return h.viewFromForm(c, next), nil
}

func (h *AuditFlowHandler) viewFromForm(c echo.Context, state audit.State) auditView {
	categoryID, _ := strconv.ParseInt(c.FormValue("business_category_id"), 10, 64)
	view := auditView{
		State:        state,
		Region:       c.FormValue("region"),
		SessionToken: c.FormValue("session"),
		Form: dto.CreateLocationRequest{
			LocationReference:  c.FormValue("location_reference"),
			BusinessName:       c.FormValue("business_name"),
			Address1:           c.FormValue("address1"),
			Address2:           c.FormValue("address2"),
			City:               c.FormValue("city"),
			Region:             c.FormValue("region_name"),
			Postcode:           c.FormValue("postcode"),
			Country:            c.FormValue("country"),
			BusinessCategoryID: categoryID,
			Description:        c.FormValue("description"),
			Telephone:          c.FormValue("telephone"),
			URL:                c.FormValue("url"),
			Email:              c.FormValue("email"),
		},
	}
	if view.Region == "" {
		view.Region = defaultAuditRegion
	}
	return view
}

// userMessage turns a service error into text for the audit page.
func userMessage(err error) string {
	var (
		validationErr *service.ValidationError
		providerErr   *service.ProviderError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, service.ErrInconsistentState):
		return contactSupport
	case errors.As(err, &providerErr):
		return "Our partner service could not process the request right now. Please try again in a moment."
	case errors.Is(err, service.ErrNotConfigured):
		return "The audit is temporarily unavailable."
	default:
		return "Something went wrong. Please try again."
	}
}
