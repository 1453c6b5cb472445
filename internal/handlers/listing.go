package handlers

import (
	"net/http"

	apperrors "entrepotes-listings/internal/errors"
	"entrepotes-listings/internal/middleware"
	"entrepotes-listings/internal/services"
	"entrepotes-listings/internal/web"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Home renders the listing page.
// @Summary Listing page
// @Description Server-rendered grid of the first listings. The optional q parameter pre-filters cards by address.
// @Tags Listings
// @Produce html
// @Param q query string false "Address filter"
// @Success 200 {string} string "HTML page"
// @Failure 500 {string} string "HTML error page"
// @Router / [get]
func (h *ListingHandler) Home(c *gin.Context) {
	query := c.Query("q")

	cards, err := h.listingService.LoadListings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		appErr := apperrors.MapError(err)
		c.HTML(appErr.HTTPStatus, web.ErrorTemplate, gin.H{
			"Message":   appErr.UserMessage,
			"RequestID": middleware.RequestID(c),
		})
		return
	}

	c.HTML(http.StatusOK, web.IndexTemplate, gin.H{
		"Query":      query,
		"Properties": services.FilterByAddress(cards, query),
		"All":        cards,
	})
}

// Search runs a full-text search over listing addresses.
// @Summary Search listings by address
// @Description Returns up to 20 stored listing documents whose address matches term.
// @Tags Listings
// @Produce json
// @Param term query string false "Search text"
// @Success 200 {array} object
// @Failure 500 {object} map[string]interface{}
// @Router /api/search [get]
func (h *ListingHandler) Search(c *gin.Context) {
	term := c.Query("term")

	docs, err := h.listingService.Search(c.Request.Context(), term)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}
