package main

import (
	"net/http"
	_ "net/http/pprof"

	"entrepotes-listings/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() error {
	if err := a.setupPageRoutes(); err != nil {
		return err
	}
	a.setupStaticRoutes()
	a.setupHealthCheck()
	a.setupAPIRoutes()
	return nil
}

// setupPageRoutes loads the page templates and serves the listing page
func (a *App) setupPageRoutes() error {
	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	a.Router.SetHTMLTemplate(tmpl)
	a.Router.GET("/", a.ListingHandler.Home)
	return nil
}

// setupStaticRoutes configures assets and operational endpoints
func (a *App) setupStaticRoutes() {
	a.Router.StaticFS("/static", http.FS(web.Static()))
	a.Router.GET("/favicon.ico", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/static/favicon.svg")
	})

	// Expose pprof profiling endpoints (disable in production)
	if !a.Config.IsProduction() {
		a.Router.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	// Expose Prometheus metrics endpoint
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck configures health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", a.HealthHandler.Check)
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")
	{
		api.GET("/search", a.ListingHandler.Search)
	}
}
