package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/auth"
	"github.com/octobees/agency-web/internal/config"
	"github.com/octobees/agency-web/internal/handler"
	middlewarepkg "github.com/octobees/agency-web/internal/middleware"
	"github.com/octobees/agency-web/internal/web"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Operators *handler.OperatorAdminHandler
	Listings  *handler.ListingsHandler
	AuditAPI  *handler.AuditAPIHandler
	Places    *handler.PlacesHandler
	Posts     *handler.PostsHandler
	Pages     *handler.PagesHandler
	Audit     *handler.AuditFlowHandler
}

// Register wires all HTTP routes: the public site, the JSON API and the operator area.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	e.StaticFS("/static", web.Static())

	// Marketing site.
	e.GET("/", handlers.Pages.Home)
	e.GET("/services", handlers.Pages.Services)
	e.GET("/case-studies", handlers.Pages.CaseStudies)
	e.GET("/case-studies/:slug", handlers.Pages.CaseStudy)
	e.GET("/blog", handlers.Pages.Blog)
	e.GET("/blog/rss.xml", handlers.Pages.RSS)
	e.GET("/blog/:slug", handlers.Pages.Post)
	e.GET("/sitemap.xml", handlers.Pages.Sitemap)

	e.GET("/audit", handlers.Audit.Start)
	e.POST("/audit/select", handlers.Audit.Select)
	e.POST("/audit/review", handlers.Audit.Review)
	e.POST("/audit/submit", handlers.Audit.Submit)

	e.POST("/auth/login", handlers.Auth.Login)

	api := e.Group("/api")
	api.GET("/get-business-categories", handlers.Listings.Categories)
	api.GET("/posts", handlers.Posts.List)
	api.GET("/posts/search", handlers.Posts.Search)
	api.GET("/posts/:slug", handlers.Posts.Get)

	auditLimit := middlewarepkg.RateLimiter(cfg.RateLimitAudit)
	api.POST("/create-location-profile", handlers.Listings.CreateLocation, auditLimit)
	api.POST("/pagespeed", handlers.AuditAPI.PageSpeed, auditLimit)
	api.POST("/online-presence-audit", handlers.AuditAPI.Presence, auditLimit)
	api.GET("/places/autocomplete", handlers.Places.Autocomplete, auditLimit)
	api.GET("/places/:id", handlers.Places.Details, auditLimit)

	staffOnly := middlewarepkg.RequireRole("operator", "admin")

	seo := api.Group("/seo-local-api", middlewarepkg.JWT(jwtManager), staffOnly)
	seo.GET("/sync-categories", handlers.Listings.SyncCategories)
	seo.GET("/sync-directories", handlers.Listings.SyncDirectories)
	seo.POST("/locations", handlers.Listings.CreateLocation)

	admin := api.Group("/admin", middlewarepkg.JWT(jwtManager))
	admin.GET("/locations", handlers.Listings.ListLocations, staffOnly)
	admin.GET("/operators", handlers.Operators.List, middlewarepkg.RequireRole("admin"))
	admin.POST("/operators", handlers.Operators.Create, middlewarepkg.RequireRole("admin"))
}
