package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/figquilt/figquilt/pkg/cache"
)

func TestRedisConfigFromEnv(t *testing.T) {
	t.Setenv(envRedisAddr, "")
	if _, ok := redisConfigFromEnv(); ok {
		t.Error("redisConfigFromEnv() without an address should report false")
	}

	t.Setenv(envRedisAddr, "redis.internal:6379")
	t.Setenv(envRedisPassword, "hunter2")
	t.Setenv(envRedisDB, "3")
	cfg, ok := redisConfigFromEnv()
	if !ok {
		t.Fatal("redisConfigFromEnv() with an address should report true")
	}
	if cfg.Addr != "redis.internal:6379" {
		t.Errorf("Addr = %q, want redis.internal:6379", cfg.Addr)
	}
	if cfg.Password != "hunter2" {
		t.Errorf("Password = %q, want hunter2", cfg.Password)
	}
	if cfg.DB != 3 {
		t.Errorf("DB = %d, want 3", cfg.DB)
	}
}

func TestRedisConfigFromEnvBadDB(t *testing.T) {
	t.Setenv(envRedisAddr, "localhost:6379")
	t.Setenv(envRedisDB, "not-a-number")
	cfg, ok := redisConfigFromEnv()
	if !ok {
		t.Fatal("redisConfigFromEnv() with an address should report true")
	}
	if cfg.DB != 0 {
		t.Errorf("DB = %d, want 0 for an unparsable value", cfg.DB)
	}
}

func TestNewCacheSelection(t *testing.T) {
	ctx := withLogger(context.Background(), newLogger(io.Discard, log.ErrorLevel))

	t.Setenv(envRedisAddr, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if c := newCache(ctx, true); c != nil {
		defer c.Close()
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("newCache(noCache=true) = %T, want *cache.NullCache", c)
		}
	}

	if c := newCache(ctx, false); c != nil {
		defer c.Close()
		if _, ok := c.(*cache.FileCache); !ok {
			t.Errorf("newCache(noCache=false) = %T, want *cache.FileCache", c)
		}
	}

	// An unreachable Redis address degrades to the on-disk cache.
	t.Setenv(envRedisAddr, "127.0.0.1:1")
	if c := newCache(ctx, false); c != nil {
		defer c.Close()
		if _, ok := c.(*cache.FileCache); !ok {
			t.Errorf("newCache() with unreachable redis = %T, want *cache.FileCache", c)
		}
	}
}
