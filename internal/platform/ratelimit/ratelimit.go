// Package ratelimit throttles the public submission endpoint per client IP.
// Counters live in Redis when configured (so multiple replicas share state)
// and in-process otherwise. The limiter fails open: a backend error lets the
// request through rather than blocking legitimate submitters.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter increments a windowed counter and reports the resulting count.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter counts in Redis with a TTL per window.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter wraps a Redis client as a Counter.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val(), nil
}

// MemoryCounter counts in-process; fine for a single replica and for tests.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounter constructs an empty in-process counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]*window)}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, d time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	w, ok := c.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		c.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// Limiter applies a per-IP request ceiling over a rolling window.
type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
	logger  *slog.Logger
}

// New constructs a Limiter. Limit <= 0 disables limiting.
func New(counter Counter, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{counter: counter, limit: int64(limit), window: window, logger: logger}
}

// Middleware rejects clients over the limit with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := "ratelimit:public:" + clientIP(r)
		count, err := l.counter.Incr(r.Context(), key, l.window)
		if err != nil {
			l.logger.WarnContext(r.Context(), "rate limit backend error, failing open", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		if count > l.limit {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many submissions, please try again later"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
