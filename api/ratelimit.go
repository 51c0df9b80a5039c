package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/config"
	"github.com/linesmerrill/crime-report-api/models"
)

// Counter increments the hit count of key within a fixed window
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter shares counts between instances
type RedisCounter struct {
	Client *redis.Client
}

// NewRedisCounter connects to the redis server at redisURL
func NewRedisCounter(redisURL string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCounter{Client: redis.NewClient(opts)}, nil
}

// Incr implements Counter. The key expires with its window.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.Client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// MemoryCounter counts in process, used when no redis is configured
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]memoryCount
}

type memoryCount struct {
	n       int64
	expires time.Time
}

// NewMemoryCounter creates an empty in process counter
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]memoryCount)}
}

// Incr implements Counter
func (c *MemoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := time.Now()
	if len(c.counts) > 10000 {
		for k, v := range c.counts {
			if t.After(v.expires) {
				delete(c.counts, k)
			}
		}
	}
	cur, ok := c.counts[key]
	if !ok || t.After(cur.expires) {
		cur = memoryCount{expires: t.Add(window)}
	}
	cur.n++
	c.counts[key] = cur
	return cur.n, nil
}

// RateLimiter allows limit requests per client and route in every window
type RateLimiter struct {
	Counter Counter
	Limit   int
	Window  time.Duration
}

// Middleware answers 429 once a client exceeds the limit. Counter failures let the request
// through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		windowStart := time.Now().Truncate(l.Window)
		key := fmt.Sprintf("ratelimit:%s:%s %s:%d", ClientIP(r), r.Method, route, windowStart.Unix())

		n, err := l.Counter.Incr(r.Context(), key, l.Window)
		if err != nil {
			zap.S().Warnw("rate limit counter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if n > int64(l.Limit) {
			retryAfter := int(time.Until(windowStart.Add(l.Window)).Seconds()) + 1
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			config.ErrorStatus("rate limit exceeded", http.StatusTooManyRequests, w, models.NewError("rate_limited", "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the first X-Forwarded-For address, falling back to the peer address
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
