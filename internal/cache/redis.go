// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"quill/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// client is nil when Redis is unconfigured or unreachable; every helper in
// this package treats a nil client as cache disabled.
var client *redis.Client

const pingTimeout = 5 * time.Second

// errorHook counts failed commands. redis.Nil is a cache miss, not an error.
type errorHook struct{}

func (errorHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errorHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// options accepts either a bare host:port or a full redis:// URL.
func options(addr string) (*redis.Options, error) {
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
	}
	return opts, nil
}

// InitRedis connects to Redis at the given address. Any failure leaves the
// cache disabled and the application serving uncached reads.
func InitRedis(addr string) {
	opts, err := options(addr)
	if err != nil {
		log.Printf("cache disabled: %v", err)
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errorHook{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("cache disabled: redis at %s unreachable: %v", opts.Addr, err)
		return
	}

	log.Printf("cache enabled: redis at %s", opts.Addr)
	client = c
}

// SetClient swaps the client; tests point it at miniredis.
func SetClient(c *redis.Client) { client = c }

// GetClient returns the active client, or nil when caching is disabled.
func GetClient() *redis.Client { return client }
