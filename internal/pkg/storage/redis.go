package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
)

const redisKeyPrefix = "matchsync:fixture:"

var (
	_ FixtureStore  = (*RedisFixtureStorage)(nil)
	_ FixtureReader = (*RedisFixtureStorage)(nil)
)

// RedisFixtureStorage keeps one JSON document per composite key. SET replaces the whole value
// atomically, which gives upsert semantics without a read.
type RedisFixtureStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFixtureStorage(ctx context.Context, cfg *config.RedisConfig) (*RedisFixtureStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisFixtureStorage(client, cfg.TTL), nil
}

func newRedisFixtureStorage(client *redis.Client, ttl time.Duration) *RedisFixtureStorage {
	return &RedisFixtureStorage{client: client, ttl: ttl}
}

func redisKey(key models.FixtureKey) string {
	return redisKeyPrefix + key.String()
}

// UpsertFixture stores the row under its key, resetting the TTL.
func (r *RedisFixtureStorage) UpsertFixture(ctx context.Context, row models.StoredFixtureRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal fixture: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(row.Key()), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store fixture %s: %w", row.Key(), err)
	}
	return nil
}

func (r *RedisFixtureStorage) GetFixture(ctx context.Context, key models.FixtureKey) (*models.StoredFixtureRow, error) {
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %s: %w", key, err)
	}

	var row models.StoredFixtureRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture %s: %w", key, err)
	}
	return &row, nil
}

func (r *RedisFixtureStorage) Close() error {
	return r.client.Close()
}
