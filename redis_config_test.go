package shelfstore

import (
	"testing"
	"time"
)

func TestRedisOptions_Defaults(t *testing.T) {
	opts := RedisOptions()

	if opts.Addr != "localhost:6379" {
		t.Errorf("expected default addr, got %s", opts.Addr)
	}
	if opts.PoolSize != 10 {
		t.Errorf("expected default pool size 10, got %d", opts.PoolSize)
	}
	if opts.PoolTimeout != 2*time.Second {
		t.Errorf("expected default pool timeout 2s, got %v", opts.PoolTimeout)
	}
}

func TestRedisOptions_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_POOL_SIZE", "50")
	t.Setenv("REDIS_POOL_TIMEOUT_MS", "500")

	opts := RedisOptions()
	if opts.Addr != "redis.internal:6380" {
		t.Errorf("addr override ignored: %s", opts.Addr)
	}
	if opts.DB != 3 {
		t.Errorf("db override ignored: %d", opts.DB)
	}
	if opts.PoolSize != 50 {
		t.Errorf("pool size override ignored: %d", opts.PoolSize)
	}
	if opts.PoolTimeout != 500*time.Millisecond {
		t.Errorf("pool timeout override ignored: %v", opts.PoolTimeout)
	}
}
