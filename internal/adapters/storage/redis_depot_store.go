package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "depot"

// OpenRedis connects to the server named by a redis:// URL and pings it.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("open redis: url is empty")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}

	return rdb, nil
}

// RedisDepotStore keeps each depot as a JSON document under
// depot:<run id>:<depot name>.
type RedisDepotStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisDepotStore stores documents with the given ttl; zero keeps them forever.
func NewRedisDepotStore(rdb redis.Cmdable, ttl time.Duration) *RedisDepotStore {
	return &RedisDepotStore{rdb: rdb, ttl: ttl}
}

// DepotKey is the key a depot is stored under. Runs without an id share
// the "latest" slot.
func DepotKey(runID, depotName string) string {
	if runID == "" {
		runID = "latest"
	}
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, runID, depotName)
}

func (s *RedisDepotStore) SaveDepot(ctx context.Context, depot *domain.Depot) (string, error) {
	if depot == nil {
		return "", domain.NewValidationError("depot", "depot is nil")
	}

	data, err := json.Marshal(depot)
	if err != nil {
		return "", fmt.Errorf("save depot %s: encode: %w", depot.Name, err)
	}

	key := DepotKey(obs.RunID(ctx), depot.Name)
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save depot %s: set %q: %w", depot.Name, key, err)
	}

	return "redis:" + key, nil
}

// LoadDepot reads back a stored depot document.
func (s *RedisDepotStore) LoadDepot(ctx context.Context, runID, depotName string) (*domain.Depot, error) {
	key := DepotKey(runID, depotName)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("load depot %s: get %q: %w", depotName, key, err)
	}

	var depot domain.Depot
	if err := json.Unmarshal(data, &depot); err != nil {
		return nil, fmt.Errorf("load depot %s: decode: %w", depotName, err)
	}

	return &depot, nil
}
