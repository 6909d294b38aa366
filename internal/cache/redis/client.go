package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pulseboard/backend/pkg/circuitbreaker"
	"github.com/pulseboard/backend/pkg/logger"
	"github.com/pulseboard/backend/pkg/retry"
)

type Options struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
	Retry     retry.Config
	Breaker   *circuitbreaker.CircuitBreaker
}

// Client stores insight topic hit counters in a Redis hash. Every call goes
// through the circuit breaker so a dead Redis fails fast.
type Client struct {
	client    redis.UniversalClient
	keyPrefix string
	breaker   *circuitbreaker.CircuitBreaker
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pong, err := retry.DoWithResult(ctx, opts.Retry, func(ctx context.Context) (string, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Result()
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", addr), zap.String("ping", pong))

	return newClient(client, opts.KeyPrefix, opts.Breaker), nil
}

func newClient(client redis.UniversalClient, keyPrefix string, breaker *circuitbreaker.CircuitBreaker) *Client {
	if keyPrefix == "" {
		keyPrefix = "pulseboard"
	}
	if breaker == nil {
		breaker = circuitbreaker.New("redis", circuitbreaker.Config{Logger: logger.Log})
	}
	return &Client{client: client, keyPrefix: keyPrefix, breaker: breaker}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) topicsKey() string {
	return c.keyPrefix + ":insights:topics"
}

func (c *Client) Increment(ctx context.Context, topic string) error {
	err := c.breaker.Execute(func() error {
		return c.client.HIncrBy(ctx, c.topicsKey(), topic, 1).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to increment topic counter: %w", err)
	}

	logger.Debug("Topic counter incremented", zap.String("topic", topic))
	return nil
}

func (c *Client) Counts(ctx context.Context) (map[string]int64, error) {
	var raw map[string]string
	err := c.breaker.Execute(func() error {
		var err error
		raw, err = c.client.HGetAll(ctx, c.topicsKey()).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read topic counters: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for topic, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Warn("Ignoring malformed topic counter", zap.String("topic", topic), zap.String("value", v))
			continue
		}
		counts[topic] = n
	}
	return counts, nil
}

// Reset removes all topic counters.
func (c *Client) Reset(ctx context.Context) error {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, c.topicsKey()).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to reset topic counters: %w", err)
	}

	logger.Info("Topic counters reset")
	return nil
}

// Ping reports whether Redis answers. It backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.breaker.Execute(func() error {
		return c.client.Ping(ctx).Err()
	})
}
