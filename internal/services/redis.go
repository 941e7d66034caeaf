package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisCache implements Cache interface
var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(redisURL string, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &RedisCache{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	cmd := r.client.Set(ctx, key, value, expiration)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Redis SET failed", "key", key, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("Redis SET successful", "key", key)
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Debug("Redis key not found", "key", key)
			return "", nil // Return empty string for not found, not an error
		}
		r.logger.Error("Redis GET failed", "key", key, "error", err)
		return "", fmt.Errorf("redis get failed: %w", err)
	}

	value := cmd.Val()
	r.logger.Debug("Redis GET successful", "key", key, "value_length", len(value))
	return value, nil
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	cmd := r.client.Del(ctx, keys...)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Redis DEL failed", "keys", keys, "error", err)
		return fmt.Errorf("redis del failed: %w", err)
	}

	r.logger.Debug("Redis DEL successful", "keys", keys, "deleted_count", cmd.Val())
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	cmd := r.client.Exists(ctx, keys...)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Redis EXISTS failed", "keys", keys, "error", err)
		return false, fmt.Errorf("redis exists failed: %w", err)
	}

	return cmd.Val() > 0, nil
}

func (r *RedisCache) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisCache) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
