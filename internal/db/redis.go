package db

import (
	"context"
	"log"
	"time"

	"github.com/son-changwook/routepick/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

// ConnectRedis returns nil when no address is configured or the server does
// not answer a ping; callers fall back to in-memory sessions, limiters and
// uncached reads.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis at %s unavailable, using in-memory state: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}
