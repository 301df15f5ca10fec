package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, nil), srv
}

type cachedStats struct {
	Total int `json:"total"`
}

func TestCacheRepositoryRoundTripAndTTL(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "dash:all", cachedStats{Total: 7}, time.Minute))

	var got cachedStats
	require.NoError(t, repo.Get(ctx, "dash:all", &got))
	assert.Equal(t, 7, got.Total)

	srv.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "dash:all", &got), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDropsCorruptEntry(t *testing.T) {
	repo, srv := newCacheRepo(t)
	require.NoError(t, srv.Set("dash:bad", "{not json"))

	var got cachedStats
	assert.ErrorIs(t, repo.Get(context.Background(), "dash:bad", &got), appErrors.ErrCacheMiss)
	assert.False(t, srv.Exists("dash:bad"))
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "dash:all", 1, 0))
	require.NoError(t, repo.Set(ctx, "dash:c1", 1, 0))
	require.NoError(t, repo.Set(ctx, "other", 1, 0))

	removed, err := repo.DeleteByPattern(ctx, "dash:*")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, srv.Exists("other"))
}

func TestCacheRepositoryNilClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var got cachedStats
	assert.ErrorIs(t, repo.Get(ctx, "k", &got), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", got, time.Minute))
	n, err := repo.DeleteByPattern(ctx, "*")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, repo.Ping(ctx))
}
