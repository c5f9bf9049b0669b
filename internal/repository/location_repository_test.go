package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/skycast/internal/model"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLocationRepository_RoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewLocationRepository(client)
	ctx := context.Background()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, redisv9.Nil)

	paris := model.Location{Name: "Paris", Country: "FR", Lat: 48.8566, Lon: 2.3522}
	require.NoError(t, repo.Save(ctx, paris))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, paris, *got)
	assert.Equal(t, 0, int(mr.TTL(LocationKey)), "location slot must not expire")
}

func TestLocationRepository_Overwrite(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewLocationRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Location{Name: "Paris", Country: "FR"}))
	require.NoError(t, repo.Save(ctx, model.Location{Name: "Tokyo", Country: "JP", Lat: 35.68, Lon: 139.69}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", got.Name)
	assert.Equal(t, 139.69, got.Lon)
}

func TestLocationRepository_CorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set(LocationKey, "not-json"))

	_, err := NewLocationRepository(client).Load(context.Background())
	assert.Error(t, err)
}
