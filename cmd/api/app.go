package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"entrepotes-listings/internal/handlers"
	"entrepotes-listings/internal/middleware"
	"entrepotes-listings/internal/repositories"
	"entrepotes-listings/internal/services"
	"entrepotes-listings/internal/transformers"
	"entrepotes-listings/pkg/cache"
	"entrepotes-listings/pkg/config"
	"entrepotes-listings/pkg/database"
	"entrepotes-listings/pkg/logger"
	"entrepotes-listings/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// App represents the application structure
type App struct {
	Config         *config.Config
	Router         *gin.Engine
	Gateway        *database.Gateway
	Redis          *redis.Client
	SearchCache    repositories.SearchCache
	ListingHandler *handlers.ListingHandler
	HealthHandler  *handlers.HealthHandler
	RateLimiter    *middleware.RateLimiter
	Server         *http.Server

	stopBackground context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Initialize infrastructure
	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}
	if err := app.initializeCache(); err != nil {
		app.cleanup()
		return nil, err
	}
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	if err := app.initializeRouter(); err != nil {
		app.cleanup()
		return nil, err
	}

	return app, nil
}

// the gateway connects on first use unless an eager connect is configured
func (a *App) initializeDatabase() error {
	a.Gateway = database.NewGateway(a.Config)
	textMode := a.Config.Listings.SearchMode == config.SearchModeText
	if !a.Config.Database.ConnectOnStart {
		if textMode {
			logger.GlobalLogger.Printf("Warning: search_mode is text but connect_on_start is off; the %s index is not checked", database.AddressTextIndexName)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	coll, err := a.Gateway.Collection(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if a.Config.Database.EnsureIndexes {
		if err := database.EnsureListingIndexes(ctx, coll); err != nil {
			logger.GlobalLogger.Errorf("Continuing without listing indexes: %v", err)
		}
	}
	if textMode {
		if err := database.CheckAddressTextIndex(ctx, coll); err != nil {
			return fmt.Errorf("text search mode unusable: %w", err)
		}
	}
	return nil
}

// initialize the Redis search cache when enabled
func (a *App) initializeCache() error {
	if !a.Config.Cache.Enabled {
		logger.GlobalLogger.Println("Search cache disabled")
		return nil
	}

	client, err := cache.NewRedisClient(a.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	a.Redis = client
	a.SearchCache = repositories.NewSearchCache(client)
	return nil
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter and its idle sweep
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(a.Config.RateLimit.RequestsPerMinute, a.Config.RateLimit.Burst)

	ctx, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel
	go a.RateLimiter.Cleanup(ctx, 10*time.Minute)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	// repositories
	listingRepo := repositories.NewListingRepository(a.Gateway, repositories.SearchOptions{
		Mode:         a.Config.Listings.SearchMode,
		Index:        a.Config.Listings.SearchIndex,
		QueryTimeout: a.Config.Database.QueryTimeout,
	})

	// transformers
	listingTrans := transformers.NewListingTransformer()

	// services
	listingService := services.NewListingService(listingRepo, a.SearchCache, listingTrans, services.ListingServiceOptions{
		PageLimit:   a.Config.Listings.PageLimit,
		SearchLimit: a.Config.Listings.SearchLimit,
		CacheTTL:    a.Config.Cache.TTL,
	})

	// handlers
	a.ListingHandler = handlers.NewListingHandler(listingService)
	a.HealthHandler = handlers.NewHealthHandler(a.Gateway, a.SearchCache)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() error {
	a.Router = gin.New()
	a.setupMiddleware()
	return a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.Gateway != nil {
		_ = a.Gateway.Close(ctx)
	}
	if a.Redis != nil {
		cache.CloseRedis(a.Redis)
	}
}
