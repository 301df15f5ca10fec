package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceRoundTripAndInvalidate(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemCache(), metrics, 0, nil, true)
	ctx := context.Background()

	var got map[string]int
	hit, err := svc.Get(ctx, "dash:summary:all", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "dash:summary:all", map[string]int{"clinics": 2}, 0))
	hit, err = svc.Get(ctx, "dash:summary:all", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, got["clinics"])

	require.NoError(t, svc.Invalidate(ctx, "dash:summary:*"))
	hit, err = svc.Get(ctx, "dash:summary:all", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(2), snap.CacheMisses)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	store := newMemCache()
	svc := NewCacheService(store, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 1, 0))
	assert.Empty(t, store.values)

	var got int
	hit, err := svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.False(t, NewCacheService(nil, nil, 0, nil, true).Enabled())
}
