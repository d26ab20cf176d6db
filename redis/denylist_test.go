package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDenylist(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	d := NewMemoryDenylist(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, "expired", now.Add(-time.Minute)))

	revoked, err := d.Revoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.Revoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired tokens are not stored")

	now = now.Add(2 * time.Hour)
	revoked, err = d.Revoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNoopCatalogCache(t *testing.T) {
	var c CatalogCache = NoopCatalogCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "services", []string{"x"}))
	var out []string
	hit, err := c.Get(ctx, "services", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx))
}
