package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type Cache interface {
	Get(ctx context.Context) (*types.Snapshot, bool, error)
	Set(ctx context.Context, snap *types.Snapshot) error
	Delete(ctx context.Context) error
}

// RedisCache stores the snapshot as JSON under a single key.
type RedisCache struct {
	log    *logger.Logger
	client *goredis.Client
	key    string
	ttl    time.Duration
}

func NewRedisCache(log *logger.Logger, addr, key string, ttl time.Duration) (*RedisCache, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{
		log:    log.With("service", "KnowledgeCache"),
		client: client,
		key:    key,
		ttl:    ttl,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context) (*types.Snapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap types.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (c *RedisCache) Set(ctx context.Context, snap *types.Snapshot) error {
	if snap == nil {
		return nil
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
