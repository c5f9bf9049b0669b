package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/redis"
	redisv9 "github.com/redis/go-redis/v9"
)

// LocationKey holds the last resolved location. It has no TTL.
const LocationKey = "skycast:location"

// RedisStore is the subset of the redis client the repositories use.
type RedisStore interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
	GetDel(ctx context.Context, key string) *redisv9.StringCmd
}

type LocationRepository interface {
	Save(ctx context.Context, loc model.Location) error
	// Load returns redis.Nil when nothing has been stored yet.
	Load(ctx context.Context) (*model.Location, error)
}

type locationRepository struct {
	redisClient RedisStore
}

func NewLocationRepository(client ...RedisStore) LocationRepository {
	if len(client) > 0 && client[0] != nil {
		return &locationRepository{redisClient: client[0]}
	}
	return &locationRepository{redisClient: redis.GetClient()}
}

// Save overwrites the single location slot.
func (r *locationRepository) Save(ctx context.Context, loc model.Location) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return r.redisClient.Set(ctx, LocationKey, b, 0).Err()
}

func (r *locationRepository) Load(ctx context.Context) (*model.Location, error) {
	val, err := r.redisClient.Get(ctx, LocationKey).Result()
	if err != nil {
		return nil, err
	}
	var loc model.Location
	if err := json.Unmarshal([]byte(val), &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
