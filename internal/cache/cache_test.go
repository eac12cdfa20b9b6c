package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_Ping(t *testing.T) {
	c, _ := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestClient_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestClient_SetHonoursTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	assert.Equal(t, time.Second, mr.TTL("short"))

	mr.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_CompareAndDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	found, deleted, err := c.CompareAndDelete(ctx, "otp", []byte("123456"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, deleted)

	require.NoError(t, c.Set(ctx, "otp", []byte("123456"), time.Minute))

	found, deleted, err = c.CompareAndDelete(ctx, "otp", []byte("000000"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, deleted)
	assert.True(t, mr.Exists("otp"))
	assert.Equal(t, time.Minute, mr.TTL("otp"))

	found, deleted, err = c.CompareAndDelete(ctx, "otp", []byte("123456"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, deleted)
	assert.False(t, mr.Exists("otp"))

	found, deleted, err = c.CompareAndDelete(ctx, "otp", []byte("123456"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, deleted)
}

func TestClient_ErrorsWhenServerIsDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	mr.Close()

	_, err := c.Get(ctx, "k")
	assert.ErrorContains(t, err, "redis get k")
	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.Ping(ctx))
}
