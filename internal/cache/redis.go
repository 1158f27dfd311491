package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexraskin/linkflow/internal/models"
)

// Redis shares snapshots between instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects using a URL of the form redis://[:password@]host:port/db.
func NewRedis(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisWithClient(client, prefix, ttl), nil
}

func NewRedisWithClient(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(username string) string {
	return r.prefix + "snapshot:" + username
}

func (r *Redis) GetSnapshot(ctx context.Context, username string) (*models.Snapshot, bool) {
	data, err := r.client.Get(ctx, r.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("Redis snapshot read failed", "username", username, "error", err)
		return nil, false
	}
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("Corrupt snapshot in redis", "username", username, "error", err)
		return nil, false
	}
	return &s, true
}

func (r *Redis) SetSnapshot(ctx context.Context, username string, s models.Snapshot) {
	// PasswordHash is not serialized, so nothing sensitive leaves the process.
	data, err := json.Marshal(s)
	if err != nil {
		slog.Warn("Failed to encode snapshot", "username", username, "error", err)
		return
	}
	if err := r.client.Set(ctx, r.key(username), data, r.ttl).Err(); err != nil {
		slog.Warn("Redis snapshot write failed", "username", username, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, username string) {
	if err := r.client.Del(ctx, r.key(username)).Err(); err != nil {
		slog.Warn("Redis snapshot invalidate failed", "username", username, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
