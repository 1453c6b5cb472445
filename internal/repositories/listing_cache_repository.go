package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"entrepotes-listings/pkg/cache"
	"entrepotes-listings/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
)

type searchCache struct {
	client *redis.Client
}

func NewSearchCache(client *redis.Client) SearchCache {
	return &searchCache{client: client}
}

func (c *searchCache) GetSearch(ctx context.Context, term string) ([]bson.M, bool, error) {
	key := cache.SearchKey(term)
	start := time.Now()
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.ObserveRedis("get_search", start, nil)
		return nil, false, nil
	}
	metrics.ObserveRedis("get_search", start, err)
	if err != nil {
		return nil, false, cache.NewCacheError("get_search", key, err)
	}

	// UseNumber keeps integer prices and ids exact on the way back out.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var docs []bson.M
	if err := dec.Decode(&docs); err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get_search_unmarshal").Inc()
		return nil, false, cache.NewCacheError("get_search_unmarshal", key, err)
	}
	if docs == nil {
		docs = []bson.M{}
	}
	return docs, true, nil
}

func (c *searchCache) SetSearch(ctx context.Context, term string, docs []bson.M, expiration time.Duration) error {
	key := cache.SearchKey(term)
	data, err := json.Marshal(docs)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set_search_marshal").Inc()
		return cache.NewCacheError("set_search_marshal", key, err)
	}

	start := time.Now()
	err = c.client.Set(ctx, key, data, expiration).Err()
	metrics.ObserveRedis("set_search", start, err)
	if err != nil {
		return cache.NewCacheError("set_search", key, err)
	}
	return nil
}

func (c *searchCache) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.client.Ping(ctx).Err()
	metrics.ObserveRedis("ping", start, err)
	if err != nil {
		return cache.NewCacheError("ping", "", err)
	}
	return nil
}
