package handlers

import (
	"context"
	"net/http"
	"time"

	"entrepotes-listings/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	cache Pinger
}

// NewHealthHandler reports on the listing store and, when set, the search cache.
func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.GlobalLogger.Printf("MongoDB ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "MongoDB unavailable"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			logger.GlobalLogger.Printf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
