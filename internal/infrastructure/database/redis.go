package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/flightdeck/rpas-checklist/internal/infrastructure/config"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
)

// ConnectRedis opens a redis client and pings it, retrying with exponential
// backoff up to cfg.MaxRetries attempts.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	delay := cfg.RetryBackoff
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.GetAddr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 1,
		})

		pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout+time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			log.Infow("Redis connected", "address", cfg.GetAddr(), "db", cfg.DB)
			return client, nil
		}
		_ = client.Close()

		log.Warnw("Redis connection failed",
			"address", cfg.GetAddr(),
			"attempt", attempt,
			"max_attempts", attempts,
			"error", lastErr,
		)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", attempts, lastErr)
}
