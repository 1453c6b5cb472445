package services

import (
	"context"
	"time"

	"entrepotes-listings/internal/models"
	"entrepotes-listings/internal/repositories"
	"entrepotes-listings/internal/transformers"
	"entrepotes-listings/pkg/logger"
	"entrepotes-listings/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPageLimit   = 10
	DefaultSearchLimit = 20
)

type ListingServiceOptions struct {
	PageLimit   int
	SearchLimit int
	CacheTTL    time.Duration
}

type ListingService struct {
	repo        repositories.ListingRepository
	cache       repositories.SearchCache
	trans       transformers.ListingTransformer
	pageLimit   int
	searchLimit int
	cacheTTL    time.Duration
}

// NewListingService wires the listing read paths. cache may be nil, in which
// case every search goes to the store. Limits above 10 and 20 are capped.
func NewListingService(
	repo repositories.ListingRepository,
	cache repositories.SearchCache,
	trans transformers.ListingTransformer,
	opts ListingServiceOptions,
) *ListingService {
	if opts.PageLimit <= 0 || opts.PageLimit > DefaultPageLimit {
		opts.PageLimit = DefaultPageLimit
	}
	if opts.SearchLimit <= 0 || opts.SearchLimit > DefaultSearchLimit {
		opts.SearchLimit = DefaultSearchLimit
	}
	return &ListingService{
		repo:        repo,
		cache:       cache,
		trans:       trans,
		pageLimit:   opts.PageLimit,
		searchLimit: opts.SearchLimit,
		cacheTTL:    opts.CacheTTL,
	}
}

// LoadListings returns the first listings in insertion order, projected for the page.
func (s *ListingService) LoadListings(ctx context.Context) ([]models.ListingCard, error) {
	listings, err := s.repo.FindFirst(ctx, s.pageLimit)
	if err != nil {
		logger.GlobalLogger.Errorf("DB query failed: limit=%d, error=%v", s.pageLimit, err)
		return nil, err
	}
	if len(listings) > s.pageLimit {
		listings = listings[:s.pageLimit]
	}

	cards := s.trans.ToCards(listings)
	for i, card := range cards {
		if missing := card.MissingFields(); len(missing) > 0 {
			logger.GlobalLogger.Debugf("Incomplete listing: id=%s, missing=%v", listings[i].ID.Hex(), missing)
		}
	}
	return cards, nil
}

// Search runs the store's address search and returns the documents as stored.
// The term is not validated or trimmed.
func (s *ListingService) Search(ctx context.Context, term string) ([]bson.M, error) {
	if s.cache != nil {
		docs, ok, err := s.cache.GetSearch(ctx, term)
		switch {
		case err != nil:
			logger.GlobalLogger.Errorf("Search cache read failed: term=%q, error=%v", term, err)
		case ok:
			metrics.CacheHitsTotal.Inc()
			return s.capResults(docs), nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	docs, err := s.repo.SearchAddress(ctx, term, s.searchLimit)
	if err != nil {
		logger.GlobalLogger.Errorf("Address search failed: term=%q, error=%v", term, err)
		return nil, err
	}
	docs = s.capResults(docs)
	metrics.SearchResults.Observe(float64(len(docs)))

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, term, docs, s.cacheTTL); err != nil {
			logger.GlobalLogger.Errorf("Search cache write failed: term=%q, error=%v", term, err)
		}
	}
	return docs, nil
}

func (s *ListingService) capResults(docs []bson.M) []bson.M {
	if docs == nil {
		return []bson.M{}
	}
	if len(docs) > s.searchLimit {
		return docs[:s.searchLimit]
	}
	return docs
}
