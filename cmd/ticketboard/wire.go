package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/marcin-skalski/ticketboard/internal/config"
	"github.com/marcin-skalski/ticketboard/internal/settings"
	"github.com/marcin-skalski/ticketboard/internal/source"
)

func newRedisClient(rc config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
}

// newSettingsKV returns the configured settings backend and a release func.
func newSettingsKV(sc config.SettingsConfig) (settings.KV, func(), error) {
	switch sc.Backend {
	case "memory":
		return settings.NewMemoryKV(), func() {}, nil
	case "redis":
		client := newRedisClient(sc.Redis)
		return settings.NewRedisKV(client, sc.Redis.Prefix), func() { _ = client.Close() }, nil
	default:
		path := sc.Path
		if path == "" {
			p, err := settings.DefaultPath()
			if err != nil {
				return nil, nil, fmt.Errorf("settings path: %w", err)
			}
			path = p
		}
		return settings.NewFileKV(path), func() {}, nil
	}
}

// newSource returns the feed client, wrapped in the redis cache when enabled.
func newSource(cfg *config.Config, logger *slog.Logger) (source.Source, func()) {
	client := source.NewClient(cfg.APIURL, cfg.FetchTimeout, http.DefaultClient, logger)
	if !cfg.Cache.Enabled {
		return client, func() {}
	}
	rc := newRedisClient(cfg.Cache.Redis)
	cached := source.NewCache(client, rc, cfg.Cache.Redis.Prefix, cfg.Cache.TTL, logger)
	return cached, func() { _ = rc.Close() }
}
