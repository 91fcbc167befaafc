package storage

import (
	"context"
	"testing"
	"time"

	"parcel-sorting-service/internal/platform/obs"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb, err := OpenRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb, mr
}

func TestRedisDepotStoreSaveAndLoad(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	store := NewRedisDepotStore(rdb, time.Hour)

	ctx := obs.WithRunID(context.Background(), "run-1")
	location, err := store.SaveDepot(ctx, syncedDepot(t))
	require.NoError(t, err)
	assert.Equal(t, "redis:depot:run-1:Birmingham", location)

	assert.True(t, mr.Exists("depot:run-1:Birmingham"))
	assert.Equal(t, time.Hour, mr.TTL("depot:run-1:Birmingham"))

	loaded, err := store.LoadDepot(context.Background(), "run-1", "Birmingham")
	require.NoError(t, err)
	assert.Equal(t, "Birmingham", loaded.Name)
	require.Len(t, loaded.Parcels, 1)
	assert.Equal(t, "R1", *loaded.Parcels[0].Route)
	assert.Equal(t, "B12 3CD", loaded.Parcels[0].Destination.String())
	require.Len(t, loaded.Coverage, 1)
	assert.Equal(t, "B?? ???", loaded.Coverage[0].String())
}

func TestRedisDepotStoreWithoutRunID(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	store := NewRedisDepotStore(rdb, 0)

	_, err := store.SaveDepot(context.Background(), syncedDepot(t))
	require.NoError(t, err)

	assert.True(t, mr.Exists("depot:latest:Birmingham"))
	assert.Zero(t, mr.TTL("depot:latest:Birmingham"))
}

func TestRedisDepotStoreErrors(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	store := NewRedisDepotStore(rdb, 0)

	_, err := store.LoadDepot(context.Background(), "nope", "Birmingham")
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, mr.Set(DepotKey("run-2", "Leeds"), "{not json"))
	_, err = store.LoadDepot(context.Background(), "run-2", "Leeds")
	assert.ErrorContains(t, err, "decode")
}

func TestOpenRedisErrors(t *testing.T) {
	_, err := OpenRedis(context.Background(), "")
	assert.Error(t, err)

	_, err = OpenRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
}
