package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	c := New(srv.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_TTL(t *testing.T) {
	srv := miniredis.RunT(t)
	c := New(srv.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	srv.FastForward(2 * time.Second)

	got, _ := c.Get(ctx, "k")
	assert.Nil(t, got)
}

func TestClient_Incr(t *testing.T) {
	srv := miniredis.RunT(t)
	c := New(srv.Addr(), "", 0)
	ctx := context.Background()

	assert.Equal(t, int64(1), c.Incr(ctx, "gen"))
	assert.Equal(t, int64(2), c.Incr(ctx, "gen"))
}

func TestClient_FailsSafeWhenServerGone(t *testing.T) {
	srv := miniredis.RunT(t)
	c := New(srv.Addr(), "", 0)
	srv.Close()
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Equal(t, int64(0), c.Incr(ctx, "gen"))
}

func TestNilClient(t *testing.T) {
	c := New("", "", 0)
	ctx := context.Background()

	assert.Nil(t, c)
	assert.False(t, c.Enabled())
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}
