package stub

import (
	"context"
	"sync"
	"time"

	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts attempts per key inside a fixed window.
type AttemptLimiter interface {
	// Take records an attempt and reports whether it is within the limit.
	Take(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type memoryAttempts struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	counts map[string]attemptWindow
}

type attemptWindow struct {
	n       int
	expires time.Time
}

// NewMemoryLimiter allows max attempts per key per window.
func NewMemoryLimiter(max int, window time.Duration) AttemptLimiter {
	return &memoryAttempts{max: max, window: window, now: time.Now, counts: map[string]attemptWindow{}}
}

func (m *memoryAttempts) Take(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	w := m.counts[key]
	if !now.Before(w.expires) {
		w = attemptWindow{expires: now.Add(m.window)}
	}
	w.n++
	m.counts[key] = w
	return w.n <= m.max, nil
}

func (m *memoryAttempts) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.counts, key)
	m.mu.Unlock()
	return nil
}

type redisAttempts struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter shares attempt counts between stub instances. Keys live
// under "ratelimit:".
func NewRedisLimiter(rdb *redis.Client, max int, window time.Duration) AttemptLimiter {
	return &redisAttempts{rdb: rdb, max: max, window: window}
}

// Take counts and arms the window in one transaction. EXPIRE NX leaves a
// running window alone and repairs a counter that lost its TTL.
func (r *redisAttempts) Take(ctx context.Context, key string) (bool, error) {
	k := "ratelimit:" + key
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(r.max), nil
}

func (r *redisAttempts) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, "ratelimit:"+key).Err()
}

// requestLimiter caps requests per client IP per minute.
func requestLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(contract.Fail(contract.CodeRateLimited, errRateLimited.Message))
		},
	})
}
