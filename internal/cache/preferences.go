package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hoanghai1803/mealcraft/internal/models"
	"github.com/hoanghai1803/mealcraft/internal/recipes"
)

const latestPreferencesKey = "mealcraft:preferences:latest"

// JSONStore is the subset of Redis used by PreferenceCache.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	SetJSONIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// PreferenceCache wraps a recipes.Store and caches the latest preference
// set. Saves write through; a miss only fills an empty key, so a slow read
// never replaces a set saved after it.
type PreferenceCache struct {
	recipes.Store
	cache JSONStore
	ttl   time.Duration
}

// NewPreferenceCache returns a recipes.Store that reads the latest
// preference set through cache.
func NewPreferenceCache(store recipes.Store, cache JSONStore, ttl time.Duration) *PreferenceCache {
	return &PreferenceCache{Store: store, cache: cache, ttl: ttl}
}

func (c *PreferenceCache) CreatePreferenceSet(ctx context.Context, p *models.PreferenceSet) (*models.PreferenceSet, error) {
	created, err := c.Store.CreatePreferenceSet(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetJSON(ctx, latestPreferencesKey, created, c.ttl); err != nil {
		slog.Warn("caching saved preferences", "error", err)
	}
	return created, nil
}

// LatestPreferenceSet serves from cache when possible. Misses are filled
// from the store; storage.ErrNotFound is never cached.
func (c *PreferenceCache) LatestPreferenceSet(ctx context.Context) (*models.PreferenceSet, error) {
	var cached models.PreferenceSet
	hit, err := c.cache.GetJSON(ctx, latestPreferencesKey, &cached)
	if err != nil {
		slog.Warn("reading cached preferences", "error", err)
	}
	if hit {
		return &cached, nil
	}

	p, err := c.Store.LatestPreferenceSet(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := c.cache.SetJSONIfAbsent(ctx, latestPreferencesKey, p, c.ttl); err != nil {
		slog.Warn("caching preferences", "error", err)
	}
	return p, nil
}
