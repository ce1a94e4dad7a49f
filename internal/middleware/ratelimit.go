package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"notes-be/internal/cache"
)

const (
	MsgTooManyRequests = "Too many requests from this IP, please try again later."

	visitorSweepInterval = 5 * time.Minute
	visitorIdleTimeout   = 10 * time.Minute
)

// HitRecorder is told about every throttled request.
type HitRecorder interface {
	RateLimitHit(limiter string)
}

// RateLimiter is a per-IP token bucket, used on the auth routes on top of
// the global window limit.
type RateLimiter struct {
	name     string
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit // requests per second
	burst    int        // maximum burst size
	hits     HitRecorder
	stop     chan struct{}
	once     sync.Once
}

// visitor holds a rate limiter for a specific IP
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a token bucket limiter allowing rps requests per
// second with short bursts up to burst. hits may be nil.
func NewRateLimiter(name string, rps rate.Limit, burst int, hits HitRecorder) *RateLimiter {
	rl := &RateLimiter{
		name:     name,
		visitors: make(map[string]*visitor),
		rate:     rps,
		burst:    burst,
		hits:     hits,
		stop:     make(chan struct{}),
	}

	go rl.cleanupVisitors()

	return rl
}

// getVisitor returns the rate limiter for a specific IP, creating one if needed
func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors drops idle visitors until Close is called
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(visitorSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > visitorIdleTimeout {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// LimitMiddleware returns a Gin middleware that rate limits requests
func (rl *RateLimiter) LimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			if rl.hits != nil {
				rl.hits.RateLimitHit(rl.name)
			}
			abortWithMessage(c, http.StatusTooManyRequests, MsgTooManyRequests)
			return
		}

		c.Next()
	}
}

// WindowDecision is the outcome of counting one request in a fixed window.
type WindowDecision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// WindowStore counts requests per key in fixed windows.
type WindowStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (WindowDecision, error)
}

// WindowLimiter enforces max requests per window per client IP and reports
// the standard RateLimit-* headers.
type WindowLimiter struct {
	store  WindowStore
	max    int
	window time.Duration
	hits   HitRecorder
	log    *slog.Logger
}

func NewWindowLimiter(store WindowStore, max int, window time.Duration, hits HitRecorder, log *slog.Logger) *WindowLimiter {
	return &WindowLimiter{store: store, max: max, window: window, hits: hits, log: log}
}

// Middleware fails open when the store is unavailable.
func (wl *WindowLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if wl.max <= 0 {
			c.Next()
			return
		}

		decision, err := wl.store.Allow(c.Request.Context(), "ip:"+c.ClientIP(), wl.max, wl.window)
		if err != nil {
			wl.log.Warn("rate limit store unavailable", "error", err)
			c.Next()
			return
		}

		remaining := wl.max - decision.Count
		if remaining < 0 {
			remaining = 0
		}
		reset := int(time.Until(decision.WindowEnd).Round(time.Second).Seconds())
		if reset < 0 {
			reset = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(wl.max))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(reset))

		if !decision.Allowed {
			if wl.hits != nil {
				wl.hits.RateLimitHit("window")
			}
			c.Header("Retry-After", strconv.Itoa(reset))
			abortWithMessage(c, http.StatusTooManyRequests, MsgTooManyRequests)
			return
		}

		c.Next()
	}
}

// MemoryWindowStore keeps window counters in process memory.
type MemoryWindowStore struct {
	mu        sync.Mutex
	entries   map[string]windowState
	lastSweep time.Time
	now       func() time.Time
}

type windowState struct {
	count     int
	windowEnd time.Time
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{entries: make(map[string]windowState), now: time.Now}
}

func (s *MemoryWindowStore) Allow(_ context.Context, key string, limit int, window time.Duration) (WindowDecision, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > visitorSweepInterval {
		for k, st := range s.entries {
			if now.After(st.windowEnd) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	state, ok := s.entries[key]
	if !ok || now.After(state.windowEnd) {
		state = windowState{windowEnd: now.Add(window)}
	}
	state.count++
	s.entries[key] = state

	return WindowDecision{
		Allowed:   state.count <= limit,
		Count:     state.count,
		WindowEnd: state.windowEnd,
	}, nil
}

// CacheWindowStore shares window counters across instances through Redis.
type CacheWindowStore struct {
	cache   cache.Cache
	timeout time.Duration
}

func NewCacheWindowStore(c cache.Cache) *CacheWindowStore {
	return &CacheWindowStore{cache: c, timeout: 250 * time.Millisecond}
}

func (s *CacheWindowStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (WindowDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, ttl, err := s.cache.IncrWindow(ctx, cache.RateLimitKey(key), window)
	if err != nil {
		return WindowDecision{}, err
	}
	return WindowDecision{
		Allowed:   int(count) <= limit,
		Count:     int(count),
		WindowEnd: time.Now().Add(ttl),
	}, nil
}
