package repositories

import (
	"context"
	"time"

	"entrepotes-listings/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListingRepository is the read side of the listings collection.
type ListingRepository interface {
	// FindFirst returns up to limit listings in ascending _id order.
	FindFirst(ctx context.Context, limit int) ([]models.Listing, error)
	// SearchAddress runs the store's text search on the address field and
	// returns the matched documents untouched.
	SearchAddress(ctx context.Context, term string, limit int) ([]bson.M, error)
}

// SearchCache stores raw search results by term.
type SearchCache interface {
	GetSearch(ctx context.Context, term string) ([]bson.M, bool, error)
	SetSearch(ctx context.Context, term string, docs []bson.M, expiration time.Duration) error
	Ping(ctx context.Context) error
}
