package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/coeval-backend/internal/config"
)

// RedisCodeRegistry reserves course registration codes with SETNX so two
// teachers creating courses at the same time never receive the same code.
type RedisCodeRegistry struct {
	rdb *redis.Client
}

// NewRedisCodeRegistry creates a RedisCodeRegistry.
func NewRedisCodeRegistry(rdb *redis.Client) *RedisCodeRegistry {
	return &RedisCodeRegistry{rdb: rdb}
}

// Reserve claims code for courseID. It returns false when the code is taken.
func (r *RedisCodeRegistry) Reserve(ctx context.Context, code, courseID string) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, config.CacheKey.RegistrationCodeKey(code), courseID, 0).Result()
	if err != nil {
		return false, fmt.Errorf("reserve registration code: %w", err)
	}
	return ok, nil
}

// Release frees a code, e.g. after the course insert failed.
func (r *RedisCodeRegistry) Release(ctx context.Context, code string) error {
	return r.rdb.Del(ctx, config.CacheKey.RegistrationCodeKey(code)).Err()
}

// MemoryCodeRegistry is the single-process registry used with the memory
// store and in tests.
type MemoryCodeRegistry struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewMemoryCodeRegistry creates a MemoryCodeRegistry.
func NewMemoryCodeRegistry() *MemoryCodeRegistry {
	return &MemoryCodeRegistry{codes: make(map[string]string)}
}

func (r *MemoryCodeRegistry) Reserve(_ context.Context, code, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.codes[code]; taken {
		return false, nil
	}
	r.codes[code] = courseID
	return true, nil
}

func (r *MemoryCodeRegistry) Release(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, code)
	return nil
}
