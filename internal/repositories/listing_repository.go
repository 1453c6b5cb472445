package repositories

import (
	"context"
	"time"

	apperrors "entrepotes-listings/internal/errors"
	"entrepotes-listings/internal/models"
	"entrepotes-listings/pkg/database"
	"entrepotes-listings/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
)

// SearchOptions selects how address searches reach the store.
type SearchOptions struct {
	Mode         string
	Index        string
	QueryTimeout time.Duration
}

type listingRepository struct {
	provider database.CollectionProvider
	search   SearchOptions
}

func NewListingRepository(provider database.CollectionProvider, search SearchOptions) ListingRepository {
	return &listingRepository{
		provider: provider,
		search:   search,
	}
}

func (r *listingRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.search.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.search.QueryTimeout)
}

func (r *listingRepository) FindFirst(ctx context.Context, limit int) ([]models.Listing, error) {
	coll, err := r.provider.Collection(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	cursor, err := coll.Find(ctx, bson.D{}, firstListingsOptions(limit))
	metrics.ObserveMongo("find", coll.Name(), start, err)
	if err != nil {
		return nil, apperrors.NewQueryError("find listings failed", err)
	}
	defer cursor.Close(ctx)

	listings := make([]models.Listing, 0, limit)
	start = time.Now()
	err = cursor.All(ctx, &listings)
	metrics.ObserveMongo("cursor_all", coll.Name(), start, err)
	if err != nil {
		return nil, apperrors.NewQueryError("decode listings failed", err)
	}
	return listings, nil
}

func (r *listingRepository) SearchAddress(ctx context.Context, term string, limit int) ([]bson.M, error) {
	coll, err := r.provider.Collection(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	cursor, err := coll.Aggregate(ctx, searchPipeline(r.search.Mode, r.search.Index, term, limit))
	metrics.ObserveMongo("aggregate", coll.Name(), start, err)
	if err != nil {
		return nil, apperrors.NewQueryError("address search failed", err)
	}
	defer cursor.Close(ctx)

	docs := make([]bson.M, 0, limit)
	start = time.Now()
	err = cursor.All(ctx, &docs)
	metrics.ObserveMongo("cursor_all", coll.Name(), start, err)
	if err != nil {
		return nil, apperrors.NewQueryError("decode search results failed", err)
	}
	return docs, nil
}
