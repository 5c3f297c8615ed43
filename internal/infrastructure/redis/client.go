package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a new Redis client. The initial ping is retried with
// exponential backoff, matching the database connect behaviour.
func NewClient(ctx context.Context, redisURL string, connectTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectTimeout

	if err := backoff.Retry(func() error { return client.Ping(ctx).Err() }, backoff.WithContext(bo, ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
