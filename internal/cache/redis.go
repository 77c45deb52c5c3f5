package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is an optional read-through cache. When the server is unreachable at
// startup, or an operation fails later, callers fall through to the store;
// the API never depends on redis being up.
type Redis struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

func NewRedis(addr, password string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis unavailable, bypassing cache: %v", err)
		_ = client.Close()
		return &Redis{client: nil}
	}

	return &Redis{client: client}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		log.Printf("cache: redis unavailable, bypassing cache: %v", err)
	}
}

// GetJSON unmarshals the cached value at key into dest. The second return
// reports a hit; a miss or any redis failure is not an error to the caller.
func (r *Redis) GetJSON(ctx context.Context, key string, dest any) bool {
	if r.isUnavailable() {
		return false
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.warnUnavailableOnce(err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (r *Redis) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	if r.isUnavailable() {
		return
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}
