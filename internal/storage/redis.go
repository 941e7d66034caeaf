package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/rpg-context/pkg/state"
	"github.com/jwebster45206/rpg-context/pkg/storage"
)

const (
	contextKeyPrefix = "context:"
	lastUpdateIndex  = "context:last_update"
)

// RedisStore implements the Store interface using Redis. Contexts are stored
// as JSON under context:<sessionID>, with a sorted-set index scored by
// last-update time for the time-range listings. Entries carry no TTL: the
// cleanup sweep owns expiry.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStore implements Store interface
var _ storage.Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store instance
func NewRedisStore(redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &RedisStore{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
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

func (r *RedisStore) SaveContext(ctx context.Context, pc *state.PlayerContext) error {
	if pc == nil {
		return fmt.Errorf("player context cannot be nil")
	}

	data, err := json.Marshal(pc)
	if err != nil {
		r.logger.Error("Failed to marshal player context", "session_id", pc.SessionID, "error", err)
		return fmt.Errorf("failed to marshal player context: %w", err)
	}

	key := contextKeyPrefix + pc.SessionID
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, string(data), 0)
	pipe.ZAdd(ctx, lastUpdateIndex, redis.Z{
		Score:  float64(pc.LastUpdate.UnixMilli()),
		Member: pc.SessionID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save player context", "session_id", pc.SessionID, "error", err)
		return fmt.Errorf("failed to save player context: %w", err)
	}

	return nil
}

func (r *RedisStore) LoadContext(ctx context.Context, sessionID string) (*state.PlayerContext, error) {
	key := contextKeyPrefix + sessionID
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Player context not found", "session_id", sessionID)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load player context", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to load player context: %w", err)
	}

	var pc state.PlayerContext
	if err := json.Unmarshal([]byte(cmd.Val()), &pc); err != nil {
		r.logger.Error("Failed to unmarshal player context", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal player context: %w", err)
	}

	return &pc, nil
}

func (r *RedisStore) DeleteContext(ctx context.Context, sessionID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, contextKeyPrefix+sessionID)
	pipe.ZRem(ctx, lastUpdateIndex, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete player context", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to delete player context: %w", err)
	}
	return nil
}

func (r *RedisStore) ListActiveSince(ctx context.Context, since time.Time) ([]string, error) {
	ids, err := r.client.ZRangeByScore(ctx, lastUpdateIndex, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	return ids, nil
}

func (r *RedisStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	ids, err := r.client.ZRangeByScore(ctx, lastUpdateIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list expired sessions: %w", err)
	}
	return ids, nil
}
