package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
	"github.com/angelmondragon/packfinderz-configurator/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	OptionsKey(kind string) string
	DiscountsKey() string
}

// RedisCache shares lookup lists across sessions and processes.
// Cache failures are logged and fall through to the wrapped fetcher.
type RedisCache struct {
	next  Fetcher
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewRedisCache decorates fetcher with a TTL cache held in redis.
func NewRedisCache(fetcher Fetcher, store cacheStore, ttl time.Duration, logg *logger.Logger) (*RedisCache, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisCache{next: fetcher, store: store, ttl: ttl, logg: logg}, nil
}

func (c *RedisCache) FetchOptions(ctx context.Context, kind enums.OptionKind) ([]Option, error) {
	key := c.store.OptionsKey(kind.String())
	var cached []Option
	if c.load(ctx, key, &cached) {
		return cached, nil
	}
	opts, err := c.next.FetchOptions(ctx, kind)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, opts)
	return opts, nil
}

func (c *RedisCache) FetchDiscounts(ctx context.Context) ([]Discount, error) {
	key := c.store.DiscountsKey()
	var cached []Discount
	if c.load(ctx, key, &cached) {
		return cached, nil
	}
	discounts, err := c.next.FetchDiscounts(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, discounts)
	return discounts, nil
}

func (c *RedisCache) load(ctx context.Context, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !redis.IsMiss(err) {
			c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog.cache.read_failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog.cache.decode_failed")
		return false
	}
	return true
}

func (c *RedisCache) save(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog.cache.encode_failed")
		return
	}
	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog.cache.write_failed")
	}
}
