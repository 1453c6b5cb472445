package main

import (
	"net/http"
	"time"

	"entrepotes-listings/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// configure all middleware for the router
func (a *App) setupMiddleware() {
	a.Router.Use(gin.Recovery())
	a.Router.Use(middleware.RequestIDMiddleware())
	a.Router.Use(a.setupCORS())
	a.Router.Use(middleware.MetricsMiddleware())
	a.Router.Use(middleware.LoggingMiddleware())
	a.Router.Use(middleware.RateLimitMiddleware(a.RateLimiter))
	a.Router.Use(middleware.SecureHeaders(a.Config.IsProduction()))
	a.Router.Use(middleware.ErrorHandler())
}

// configure CORS middleware; production only admits the configured origins
func (a *App) setupCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	if a.Config.IsProduction() && len(a.Config.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = a.Config.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}

	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Accept", "X-Requested-With", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}
