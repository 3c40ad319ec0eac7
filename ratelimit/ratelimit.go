package ratelimit

import (
	"despacho-api/logger"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const storePrefix = "despacho_limiter"

var (
	allowedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_allow_total",
		Help: "Requests allowed by the rate limiter",
	}, []string{"method"})
	deniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_deny_total",
		Help: "Requests denied by the rate limiter",
	}, []string{"method"})
)

type Config struct {
	Rate      string   // e.g. "100-H", "10-M"
	SkipPaths []string // prefix match
}

// Limiter throttles requests per client IP. Each instance owns its store, so
// tests and multiple apps in one process do not share counters.
type Limiter struct {
	cfg     Config
	limiter *limiter.Limiter
}

func New(cfg Config, store limiter.Store) (*Limiter, error) {
	if store == nil {
		store = memory.NewStore()
	}

	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", cfg.Rate, err)
	}

	return &Limiter{
		cfg:     cfg,
		limiter: limiter.New(store, rate),
	}, nil
}

// NewStore returns a Redis backed store when redisURL is set and an
// in-memory store otherwise. The returned close function releases the
// Redis client.
func NewStore(redisURL string) (limiter.Store, func() error, error) {
	if redisURL == "" {
		return memory.NewStore(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   storePrefix,
		MaxRetry: 3,
	})
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	return store, client.Close, nil
}

func (l *Limiter) skipped(path string) bool {
	for _, prefix := range l.cfg.SkipPaths {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Handler returns the fiber middleware. Store failures let the request
// through.
func (l *Limiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.skipped(c.Path()) {
			return c.Next()
		}

		key := "ip:" + c.IP()
		ctx, err := l.limiter.Get(c.UserContext(), key)
		if err != nil {
			logger.Warn("rate limiter store unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

		if ctx.Reached {
			retry := int(time.Until(time.Unix(ctx.Reset, 0)).Seconds())
			if retry < 0 {
				retry = 0
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			deniedTotal.WithLabelValues(c.Method()).Inc()

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
		}

		allowedTotal.WithLabelValues(c.Method()).Inc()
		return c.Next()
	}
}
