package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "entrepotes-listings/internal/errors"
	"entrepotes-listings/pkg/config"
	"entrepotes-listings/pkg/logger"
	"entrepotes-listings/pkg/metrics"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const connectTimeout = 10 * time.Second

// CollectionProvider hands out the listing collection.
type CollectionProvider interface {
	Collection(ctx context.Context) (*mongo.Collection, error)
}

// Gateway owns the process-wide MongoDB client. The client is created on the
// first Collection call and shared by every request after that.
type Gateway struct {
	uri         string
	dbName      string
	collection  string
	maxPoolSize uint64

	mu     sync.Mutex
	client *mongo.Client
	coll   *mongo.Collection
	group  singleflight.Group

	connect func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)
}

func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		uri:         cfg.Database.URI,
		dbName:      cfg.Database.DBName,
		collection:  cfg.Database.Collection,
		maxPoolSize: cfg.Database.MaxPoolSize,
		connect: func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
			return mongo.Connect(ctx, opts)
		},
	}
}

// CollectionName returns the name of the listing collection.
func (g *Gateway) CollectionName() string {
	return g.collection
}

// Collection returns the listing collection, connecting first if needed.
// Concurrent first calls share one connect attempt, and each caller stops
// waiting when its own ctx is done. A failed connect is not remembered; the
// next call tries again.
func (g *Gateway) Collection(ctx context.Context) (*mongo.Collection, error) {
	if coll := g.current(); coll != nil {
		return coll, nil
	}

	ch := g.group.DoChan("connect", func() (interface{}, error) {
		if coll := g.current(); coll != nil {
			return coll, nil
		}

		// the attempt outlives any single caller
		client, err := g.dial(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		coll := client.Database(g.dbName).Collection(g.collection)
		g.mu.Lock()
		g.client = client
		g.coll = coll
		g.mu.Unlock()

		logger.GlobalLogger.Printf("MongoDB connected successfully (db=%s, collection=%s)", g.dbName, g.collection)
		return coll, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.NewConnectionError("gave up waiting for MongoDB", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Collection), nil
	}
}

func (g *Gateway) current() *mongo.Collection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coll
}

func (g *Gateway) dial(ctx context.Context) (*mongo.Client, error) {
	if g.uri == "" {
		return nil, apperrors.NewConnectionError("MongoDB URI is not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(g.uri).
		SetConnectTimeout(connectTimeout).
		SetMaxPoolSize(g.maxPoolSize)
	if err := clientOptions.Validate(); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("connect", "").Inc()
		return nil, apperrors.NewConnectionError("invalid MongoDB client options", err)
	}

	start := time.Now()
	client, err := g.connect(ctx, clientOptions)
	metrics.ObserveMongo("connect", "", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to connect to MongoDB: %v", err)
		return nil, apperrors.NewConnectionError("failed to connect to MongoDB", err)
	}

	start = time.Now()
	err = client.Ping(ctx, nil)
	metrics.ObserveMongo("ping", "", start, err)
	if err != nil {
		_ = client.Disconnect(context.Background())
		logger.GlobalLogger.Errorf("failed to ping MongoDB: %v", err)
		return nil, apperrors.NewConnectionError("failed to ping MongoDB", err)
	}

	return client, nil
}

// Ping checks the store, connecting first if needed.
func (g *Gateway) Ping(ctx context.Context) error {
	if _, err := g.Collection(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	client := g.client
	g.mu.Unlock()
	if client == nil {
		return apperrors.NewConnectionError("MongoDB client closed", nil)
	}

	start := time.Now()
	err := client.Ping(ctx, nil)
	metrics.ObserveMongo("ping", "", start, err)
	if err != nil {
		return apperrors.NewConnectionError("MongoDB ping failed", err)
	}
	return nil
}

// Close disconnects the client if one was ever created.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}

	start := time.Now()
	err := g.client.Disconnect(ctx)
	metrics.ObserveMongo("disconnect", "", start, err)
	g.client = nil
	g.coll = nil
	if err != nil {
		logger.GlobalLogger.Errorf("Error closing MongoDB: %v", err)
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	logger.GlobalLogger.Println("MongoDB connection closed")
	return nil
}
