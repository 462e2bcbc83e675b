package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// RedisClient is the part of *redis.Client the store uses.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps the collection under a single key with no expiry.
type RedisStore struct {
	client RedisClient
	key    string
}

func NewRedisStore(addr, password string, db int, key string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		key: key,
	}
}

func NewRedisStoreWithClient(client RedisClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Load(ctx context.Context) ([]model.Campaign, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return []model.Campaign{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	return decode(payload)
}

func (r *RedisStore) Save(ctx context.Context, campaigns []model.Campaign) error {
	payload, err := encode(campaigns)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("save campaigns: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ CampaignStore = (*RedisStore)(nil)
