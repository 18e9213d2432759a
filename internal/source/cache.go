package source

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// Cache wraps a Source with a redis read-through cache. Redis failures fall
// back to the wrapped source without failing the fetch.
type Cache struct {
	base   Source
	redis  *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
	encode func(any) ([]byte, error)
}

func NewCache(base Source, client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) *Cache {
	if base == nil {
		panic("source.NewCache: base source is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, key: key, ttl: ttl, logger: logger, encode: sonic.Marshal}
}

func (c *Cache) Fetch(ctx context.Context) (*Payload, error) {
	if p, ok := c.load(ctx); ok {
		c.logger.Debug("tickets served from cache", "key", c.key, "tickets", len(p.Tickets))
		return p, nil
	}

	p, err := c.base.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, p)
	return p, nil
}

func (c *Cache) load(ctx context.Context) (*Payload, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", c.key, "err", err)
		}
		return nil, false
	}
	var p Payload
	if err := sonic.Unmarshal(data, &p); err != nil {
		c.logger.Warn("dropping corrupt cache entry", "key", c.key, "err", err)
		if err := c.redis.Del(ctx, c.key).Err(); err != nil {
			c.logger.Debug("cache delete failed", "key", c.key, "err", err)
		}
		return nil, false
	}
	return &p, true
}

func (c *Cache) store(ctx context.Context, p *Payload) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := c.encode(p)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", c.key, "err", err)
		return
	}
	if err := c.redis.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", c.key, "err", err)
	}
}
