package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/figquilt/figquilt/pkg/cache"
	"github.com/figquilt/figquilt/pkg/pipeline"
	"github.com/figquilt/figquilt/pkg/source"
)

// appName is the application name used for directories and display.
const appName = "figquilt"

// Environment variables selecting the shared Redis cache backend.
const (
	envRedisAddr     = "FIGQUILT_REDIS_ADDR"
	envRedisPassword = "FIGQUILT_REDIS_PASSWORD"
	envRedisDB       = "FIGQUILT_REDIS_DB"
)

// newRunner creates a pipeline runner for CLI use. The returned cache must
// be closed by the caller once the runner is no longer needed.
func newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, cache.Cache) {
	c := newCache(ctx, noCache)
	m := source.NewCachedMeasurer(source.NewFileMeasurer(), c)
	return pipeline.NewRunner(m, loggerFromContext(ctx)), c
}

// newCache creates the measurement cache. Setting FIGQUILT_REDIS_ADDR selects
// the shared Redis backend; otherwise an on-disk cache is used. Any failure to
// reach Redis or set up the on-disk cache silently degrades to the next
// backend; composition must never fail because the cache is unavailable.
func newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if cfg, ok := redisConfigFromEnv(); ok {
		c, err := cache.NewRedisCache(ctx, cfg)
		if err == nil {
			return c
		}
		loggerFromContext(ctx).Warn("redis cache unreachable, falling back to file cache", "addr", cfg.Addr, "error", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// redisConfigFromEnv reads the Redis cache settings from the environment.
// Reports false when no Redis address is configured.
func redisConfigFromEnv() (cache.RedisConfig, bool) {
	addr := os.Getenv(envRedisAddr)
	if addr == "" {
		return cache.RedisConfig{}, false
	}
	cfg := cache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv(envRedisPassword),
	}
	if db := os.Getenv(envRedisDB); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.DB = n
		}
	}
	return cfg, true
}

// cacheDir returns the cache directory using XDG standard (~/.cache/figquilt/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
