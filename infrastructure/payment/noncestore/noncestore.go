// Package noncestore remembers consumed payment signatures so a verified
// payload cannot confirm a second order.
package noncestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"checkout/domain/payment"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "checkout:nonce:"

// Key hashes the nonce so raw signatures are never stored.
func Key(scope, nonce string) string {
	sum := sha256.Sum256([]byte(nonce))
	return keyPrefix + scope + ":" + hex.EncodeToString(sum[:])
}

// RedisStore uses SETNX so the first writer wins across instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) UseNonce(ctx context.Context, scope, nonce string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, Key(scope, nonce), 1, ttl).Result()
}

// MemoryStore is used by tests and single-instance deployments without Redis.
type MemoryStore struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) UseNonce(ctx context.Context, scope, nonce string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evict(now)

	key := Key(scope, nonce)
	if _, ok := s.used[key]; ok {
		return false, nil
	}
	s.used[key] = now.Add(ttl)
	return true, nil
}

func (s *MemoryStore) evict(now time.Time) {
	for k, expires := range s.used {
		if !now.Before(expires) {
			delete(s.used, k)
		}
	}
}

var (
	_ payment.NonceStore = (*RedisStore)(nil)
	_ payment.NonceStore = (*MemoryStore)(nil)
)
