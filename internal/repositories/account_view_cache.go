package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/whale-users/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accountViewKeyPrefix = "account:view:"

	// invalidatedMarker occupies a key after a mutation. It is not valid JSON
	// for a view, so it can never be mistaken for one.
	invalidatedMarker = "invalidated"
)

// RedisAccountViewCache stores JSON-encoded account views with a TTL. Write
// and delete failures are logged, never returned.
type RedisAccountViewCache struct {
	client    *redis.Client
	ttl       time.Duration
	markerTTL time.Duration
	log       *zap.Logger
}

// NewRedisAccountViewCache keeps invalidation markers for markerTTL, which
// must outlast the longest request that could still be filling the key.
func NewRedisAccountViewCache(client *redis.Client, ttl, markerTTL time.Duration, log *zap.Logger) *RedisAccountViewCache {
	return &RedisAccountViewCache{client: client, ttl: ttl, markerTTL: markerTTL, log: log}
}

func (c *RedisAccountViewCache) Get(ctx context.Context, id uuid.UUID) (*models.AccountView, bool) {
	data, err := c.client.Get(ctx, accountViewKey(id)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("account view cache read failed", zap.String("account_id", id.String()), zap.Error(err))
		return nil, false
	}
	if data == invalidatedMarker {
		return nil, false
	}

	var view models.AccountView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		c.log.Warn("account view cache entry unreadable", zap.String("account_id", id.String()), zap.Error(err))
		return nil, false
	}
	return &view, true
}

func (c *RedisAccountViewCache) Fill(ctx context.Context, view *models.AccountView) {
	data, err := json.Marshal(view)
	if err != nil {
		c.log.Warn("failed to marshal account view", zap.String("account_id", view.ID.String()), zap.Error(err))
		return
	}
	if err := c.client.SetNX(ctx, accountViewKey(view.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("account view cache write failed", zap.String("account_id", view.ID.String()), zap.Error(err))
	}
}

func (c *RedisAccountViewCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Set(ctx, accountViewKey(id), invalidatedMarker, c.markerTTL).Err(); err != nil {
		c.log.Warn("account view cache invalidation failed", zap.String("account_id", id.String()), zap.Error(err))
	}
}

func accountViewKey(id uuid.UUID) string {
	return accountViewKeyPrefix + id.String()
}

// NoopAccountViewCache is used when no Redis URL is configured.
type NoopAccountViewCache struct{}

func (NoopAccountViewCache) Get(context.Context, uuid.UUID) (*models.AccountView, bool) {
	return nil, false
}

func (NoopAccountViewCache) Fill(context.Context, *models.AccountView) {}

func (NoopAccountViewCache) Invalidate(context.Context, uuid.UUID) {}
