// Package cache keeps hot read paths out of the database. Every cache
// failure is logged and bypassed; the backing store stays authoritative.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when a caller passes a non-positive ttl.
const DefaultTTL = 10 * time.Minute

// Redis is a JSON cache on top of a go-redis client.
type Redis struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

// OpenRedis connects to the server named by a redis:// or rediss:// URL and
// pings it.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	slog.Info("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return &Redis{client: client}, nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}

// GetJSON decodes the value at key into out. It reports false on a miss.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key as JSON for ttl.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// SetJSONIfAbsent stores value at key as JSON for ttl unless the key already
// holds a value. It reports whether the value was stored.
func (r *Redis) SetJSONIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	ok, err := r.client.SetNX(ctx, key, b, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return ok, nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		slog.Warn("redis unavailable, bypassing cache", "error", err)
	}
}
