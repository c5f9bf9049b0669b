package redis

import (
	"context"
	"sync"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

// GetClient returns the process-wide redis client, built from config on first use.
func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr:     config.GetRedisAddr(),
			Password: config.GetRedisPassword(),
			DB:       config.GetRedisDB(),
		})
	})
	return client
}

// Ping checks connectivity with a short deadline.
func Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return GetClient().Ping(ctx).Err()
}

// Close closes the shared client if it was created.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	once = sync.Once{}
	client = nil
}
