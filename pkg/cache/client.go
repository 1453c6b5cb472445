package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"entrepotes-listings/pkg/config"
	"entrepotes-listings/pkg/logger"
	"entrepotes-listings/pkg/metrics"

	"github.com/go-redis/redis/v8"
)

// initialize the Redis client with the provided configuration and check it answers.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if cfg.Redis.TLSEnabled {
		if cfg.Redis.TLSCertFile != "" {
			cert, err := tls.LoadX509KeyPair(cfg.Redis.TLSCertFile, cfg.Redis.TLSCertFile)
			if err != nil {
				logger.GlobalLogger.Errorf("failed to load TLS certificate: %v", err)
				return nil, fmt.Errorf("failed to load TLS certificate: %v", err)
			}
			tlsConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
			}
		} else {
			tlsConfig = &tls.Config{}
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 5,
		TLSConfig:    tlsConfig,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := client.Ping(ctx).Result()
	metrics.ObserveRedis("ping", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to connect to Redis: %v", err)
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	logger.GlobalLogger.Println("Redis connected successfully")
	return client, nil
}

// close the Redis client connection.
func CloseRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.GlobalLogger.Errorf("error closing Redis: %v", err)
	} else {
		logger.GlobalLogger.Println("Redis connection closed")
	}
}
