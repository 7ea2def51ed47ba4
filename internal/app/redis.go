package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/coinpulse/config"
)

const redisPingTimeout = 3 * time.Second

// InitRedis connects to the response cache and verifies it answers PING.
func InitRedis(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Cache.Addr,
		Password:    cfg.Cache.Password,
		DB:          cfg.Cache.DB,
		DialTimeout: redisPingTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// redisOpener is used by InitializeApp; overridden in tests.
var redisOpener = InitRedis
