package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/whale-users/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNoopAccountViewCache(t *testing.T) {
	ctx := context.Background()
	cache := NoopAccountViewCache{}
	view := testAccountView()

	cache.Fill(ctx, view)
	got, ok := cache.Get(ctx, view.ID)

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisAccountViewCache_FillGetInvalidate(t *testing.T) {
	client := getTestRedisClient(t)
	cache := NewRedisAccountViewCache(client, time.Minute, 30*time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	// ARRANGE
	view := testAccountView()
	defer client.Del(ctx, accountViewKey(view.ID))

	// ACT
	cache.Fill(ctx, view)
	got, ok := cache.Get(ctx, view.ID)

	// ASSERT
	require.True(t, ok)
	assert.Equal(t, view.ID, got.ID)
	assert.Equal(t, view.Email, got.Email)
	assert.True(t, view.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, view.LastLoginAt.Equal(*got.LastLoginAt))

	ttl, err := client.TTL(ctx, accountViewKey(view.ID)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "entry should carry the configured TTL")

	cache.Invalidate(ctx, view.ID)
	_, ok = cache.Get(ctx, view.ID)
	assert.False(t, ok)

	markerTTL, err := client.TTL(ctx, accountViewKey(view.ID)).Result()
	require.NoError(t, err)
	assert.True(t, markerTTL > 0 && markerTTL <= 30*time.Second)
}

func TestRedisAccountViewCache_FillDoesNotOverwrite(t *testing.T) {
	client := getTestRedisClient(t)
	cache := NewRedisAccountViewCache(client, time.Minute, 30*time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	view := testAccountView()
	defer client.Del(ctx, accountViewKey(view.ID))

	cache.Fill(ctx, view)
	renamed := *view
	renamed.Name = "Renamed"
	cache.Fill(ctx, &renamed)

	got, ok := cache.Get(ctx, view.ID)
	require.True(t, ok)
	assert.Equal(t, "Cached User", got.Name, "an existing entry is never replaced by a fill")

	// A read that finished after the invalidation cannot bring the old view back.
	cache.Invalidate(ctx, view.ID)
	cache.Fill(ctx, view)

	_, ok = cache.Get(ctx, view.ID)
	assert.False(t, ok)
}

func TestRedisAccountViewCache_CorruptEntryIsAMiss(t *testing.T) {
	client := getTestRedisClient(t)
	cache := NewRedisAccountViewCache(client, time.Minute, 30*time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	id := uuid.New()
	defer client.Del(ctx, accountViewKey(id))
	require.NoError(t, client.Set(ctx, accountViewKey(id), "{not json", time.Minute).Err())

	got, ok := cache.Get(ctx, id)
	assert.False(t, ok)
	assert.Nil(t, got)
}

// Helper functions

func getTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set, skipping redis integration test")
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err, "Invalid TEST_REDIS_URL")
	client := redis.NewClient(opts)

	err = client.Ping(context.Background()).Err()
	require.NoError(t, err, "Failed to connect to test Redis")

	t.Cleanup(func() { client.Close() })
	return client
}

func testAccountView() *models.AccountView {
	now := time.Now().UTC().Truncate(time.Microsecond)
	loginAt := now.Add(time.Minute)
	return &models.AccountView{
		ID:          uuid.New(),
		Name:        "Cached User",
		Email:       "cached-" + uuid.NewString() + "@example.com",
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: &loginAt,
	}
}
