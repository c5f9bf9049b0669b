package repository

import (
	"context"
	"errors"

	"github.com/fakhrymubarak/skycast/internal/redis"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	ThemeKey        = "skycast:theme"
	PendingQueryKey = "skycast:pending_query"
)

type PreferenceRepository interface {
	GetTheme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
	SetPendingQuery(ctx context.Context, query string) error
	// TakePendingQuery returns the stored query and removes it in one step.
	TakePendingQuery(ctx context.Context) (string, bool, error)
}

type preferenceRepository struct {
	redisClient RedisStore
}

func NewPreferenceRepository(client ...RedisStore) PreferenceRepository {
	if len(client) > 0 && client[0] != nil {
		return &preferenceRepository{redisClient: client[0]}
	}
	return &preferenceRepository{redisClient: redis.GetClient()}
}

// GetTheme returns "" when no theme was ever stored.
func (r *preferenceRepository) GetTheme(ctx context.Context) (string, error) {
	val, err := r.redisClient.Get(ctx, ThemeKey).Result()
	if errors.Is(err, redisv9.Nil) {
		return "", nil
	}
	return val, err
}

func (r *preferenceRepository) SetTheme(ctx context.Context, theme string) error {
	return r.redisClient.Set(ctx, ThemeKey, theme, 0).Err()
}

func (r *preferenceRepository) SetPendingQuery(ctx context.Context, query string) error {
	return r.redisClient.Set(ctx, PendingQueryKey, query, 0).Err()
}

func (r *preferenceRepository) TakePendingQuery(ctx context.Context) (string, bool, error) {
	val, err := r.redisClient.GetDel(ctx, PendingQueryKey).Result()
	if errors.Is(err, redisv9.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
