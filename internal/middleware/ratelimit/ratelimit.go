package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pulseboard/backend/internal/metrics"
)

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket keyed by c.IP(), which follows
// the app's ProxyHeader setting when one is configured.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   float64
	perToken   time.Duration
	idleAfter  time.Duration
	logger     *zap.Logger
	now        func() time.Time
	message    string
	stop       chan struct{}
	stopOnce   sync.Once
	sweepEvery time.Duration
}

type Config struct {
	RequestsPerMinute int
	// Message is the error body for rejected requests.
	Message string
	Logger  *zap.Logger
	Now     func() time.Time
	// SweepEvery controls idle bucket cleanup; zero disables the sweeper.
	SweepEvery time.Duration
}

func New(cfg Config) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Message == "" {
		cfg.Message = "Rate limit exceeded. Please try again later."
	}

	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		capacity:   float64(cfg.RequestsPerMinute),
		perToken:   time.Minute / time.Duration(cfg.RequestsPerMinute),
		idleAfter:  10 * time.Minute,
		logger:     cfg.Logger,
		now:        cfg.Now,
		message:    cfg.Message,
		stop:       make(chan struct{}),
		sweepEvery: cfg.SweepEvery,
	}

	if rl.sweepEvery > 0 {
		go rl.sweepLoop()
	}

	return rl
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()

		if !rl.Allow(key) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Path()),
			)
			metrics.RateLimited.WithLabelValues(c.Path()).Inc()
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": rl.message,
			})
		}

		return c.Next()
	}
}

// Allow takes one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, lastRefill: now}
		rl.buckets[key] = b
	}
	rl.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.lastRefill); elapsed > 0 {
		b.tokens += float64(elapsed) / float64(rl.perToken)
		if b.tokens > rl.capacity {
			b.tokens = rl.capacity
		}
		b.lastRefill = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Sweep drops buckets idle for longer than ten minutes.
func (rl *RateLimiter) Sweep() int {
	now := rl.now()
	removed := 0

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		b.mu.Lock()
		if now.Sub(b.lastRefill) > rl.idleAfter {
			delete(rl.buckets, key)
			removed++
		}
		b.mu.Unlock()
	}
	return removed
}

func (rl *RateLimiter) sweepLoop() {
	t := time.NewTicker(rl.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-t.C:
			if n := rl.Sweep(); n > 0 {
				rl.logger.Debug("Swept idle rate limit buckets", zap.Int("removed", n))
			}
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
