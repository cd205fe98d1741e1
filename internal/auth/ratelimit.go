package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore tracks failed attempts per key inside a fixed window. The
// store is injected so single-node deployments can run on memory while
// multi-node ones share counts through Redis.
type AttemptStore interface {
	// Hit records one attempt against key. It returns false once the count
	// within the window exceeds max, along with the time until the window
	// resets.
	Hit(ctx context.Context, key string, window time.Duration, max int) (allowed bool, retryAfter time.Duration, err error)
	// Reset clears the counter for key, used after a successful login.
	Reset(ctx context.Context, key string) error
}

type attemptWindow struct {
	count   int
	resetAt time.Time
}

// MemoryAttemptStore is a process-local fixed-window counter.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow
}

func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{windows: make(map[string]*attemptWindow)}
}

func (s *MemoryAttemptStore) Hit(_ context.Context, key string, window time.Duration, max int) (bool, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &attemptWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}

	w.count++
	if w.count > max {
		return false, time.Until(w.resetAt), nil
	}
	return true, 0, nil
}

func (s *MemoryAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}

// Cleanup drops expired windows. Call it periodically from a goroutine to
// keep the map from growing without bound.
func (s *MemoryAttemptStore) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
	s.mu.Unlock()
}

// StartCleanup runs Cleanup on the given interval until ctx is cancelled.
func (s *MemoryAttemptStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// RedisAttemptStore shares attempt counts across instances using INCR with a
// TTL set on the first hit of each window.
type RedisAttemptStore struct {
	client *redis.Client
	prefix string
}

func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisAttemptStore) Hit(ctx context.Context, key string, window time.Duration, max int) (bool, time.Duration, error) {
	redisKey := s.prefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(max) {
		ttl, err := s.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

func (s *RedisAttemptStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
