package shelfstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions returns redis.Options populated from standard environment
// variables, with the connection pool configured explicitly.
//
// Environment variables read (with defaults):
//   - REDIS_ADDR (default: "localhost:6379")
//   - REDIS_PASSWORD (default: "")
//   - REDIS_DB (default: 0)
//   - REDIS_POOL_SIZE (default: 10)
//   - REDIS_MIN_IDLE_CONNS (default: 0)
//   - REDIS_POOL_TIMEOUT_MS (default: 2000)
//
// The pool bounds concurrent backend connections. Commands borrow a
// connection for their duration and release it on every exit path; when the
// pool is exhausted, borrowing blocks up to PoolTimeout and then fails with
// redis.ErrPoolTimeout (surfaced as ErrPoolExhausted by ClassifyRedisErr).
//
// The returned client is an explicit handle: construct it once in main,
// pass it to the components that need it, and Close it at shutdown. Nothing
// in this package holds a process-wide client.
func RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           getEnvAsInt("REDIS_DB", 0),
		PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 0),
		PoolTimeout:  time.Duration(getEnvAsInt("REDIS_POOL_TIMEOUT_MS", 2000)) * time.Millisecond,
	}
}
