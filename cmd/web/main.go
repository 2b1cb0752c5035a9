package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/agency-web/internal/auth"
	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/config"
	"github.com/octobees/agency-web/internal/content"
	"github.com/octobees/agency-web/internal/database"
	"github.com/octobees/agency-web/internal/handler"
	"github.com/octobees/agency-web/internal/logx"
	middlewarepkg "github.com/octobees/agency-web/internal/middleware"
	"github.com/octobees/agency-web/internal/pagespeed"
	"github.com/octobees/agency-web/internal/places"
	"github.com/octobees/agency-web/internal/repository"
	"github.com/octobees/agency-web/internal/router"
	"github.com/octobees/agency-web/internal/service"
	"github.com/octobees/agency-web/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logx.Init(cfg.LogLevel, cfg.LogFormat)

	if missing := cfg.Missing(config.KeyDatabaseURL, config.KeyBrightLocalAPIKey, config.KeyGoogleMapsAPIKey, config.KeyJWTSecret); len(missing) > 0 {
		logger.Warn("configuration incomplete, dependent routes will answer 503", "missing", missing)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		categoriesRepo  repository.CategoriesRepository
		directoriesRepo repository.DirectoriesRepository
		locationsRepo   repository.LocationsRepository
		operatorsRepo   repository.OperatorsRepository
		clientsRepo     repository.ClientsRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			logger.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		categoriesRepo = repository.NewPGXCategoriesRepository(pool)
		directoriesRepo = repository.NewPGXDirectoriesRepository(pool)
		locationsRepo = repository.NewPGXLocationsRepository(pool)
		operatorsRepo = repository.NewPGXOperatorsRepository(pool)
		clientsRepo = repository.NewPGXClientsRepository(pool)
	}

	var provider service.ListingsProvider
	if cfg.BrightLocalAPIKey != "" {
		client, err := brightlocal.NewClient(brightlocal.Config{BaseURL: cfg.BrightLocalBaseURL, APIKey: cfg.BrightLocalAPIKey}, nil)
		if err != nil {
			logger.Error("failed to build listings provider client", "error", err)
			os.Exit(1)
		}
		provider = client
	}

	var analyzer service.PageSpeedAnalyzer
	if client, err := pagespeed.NewClient(ctx, pagespeed.Config{APIKey: cfg.PageSpeedAPIKey}); err != nil {
		logger.Warn("pagespeed disabled", "error", err)
	} else {
		analyzer = client
	}

	var lookup service.PlacesLookup
	if cfg.GoogleMapsAPIKey != "" {
		client, err := places.NewClient(ctx, places.Config{APIKey: cfg.GoogleMapsAPIKey})
		if err != nil {
			logger.Warn("places lookup disabled", "error", err)
		} else {
			lookup = client
		}
	}

	postsStore := content.NewStore(cfg.PostsDir)
	caseStudiesStore := content.NewStore(cfg.CaseStudiesDir)

	var searchIndex *content.SearchIndex
	if posts, err := postsStore.List(ctx); err != nil {
		logger.Warn("blog search disabled, posts unreadable", "dir", cfg.PostsDir, "error", err)
	} else if searchIndex, err = content.NewSearchIndex(posts); err != nil {
		logger.Warn("blog search disabled", "error", err)
	} else {
		defer searchIndex.Close()
		logger.Info("blog search index built", "posts", len(posts))
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	site := content.Site{
		Title:       "Octobees",
		Description: "Local marketing for businesses that serve their neighbourhood.",
		URL:         cfg.SiteURL,
	}

	listingsService := service.NewListingsService(provider, categoriesRepo, directoriesRepo, locationsRepo, clientsRepo)
	placesService := service.NewPlacesService(lookup)
	presenceService := service.NewPresenceService(listingsService, service.NewWebsiteInspector(nil))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	// Rate limits key on the peer address; forwarding headers are client controlled.
	e.IPExtractor = echo.ExtractIPDirect()

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(operatorsRepo, jwtManager)),
		Operators: handler.NewOperatorAdminHandler(service.NewOperatorService(operatorsRepo)),
		Listings:  handler.NewListingsHandler(listingsService),
		AuditAPI:  handler.NewAuditAPIHandler(service.NewPageSpeedService(analyzer), presenceService),
		Places:    handler.NewPlacesHandler(placesService),
		Posts:     handler.NewPostsHandler(postsStore, searchIndex),
		Pages:     handler.NewPagesHandler(postsStore, caseStudiesStore, searchIndex, site),
		Audit:     handler.NewAuditFlowHandler(placesService, listingsService, cfg.SiteURL),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
