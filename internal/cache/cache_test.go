package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutURLIsNoop(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a redis url")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	_, err := New("redis://127.0.0.1:1/0")
	assert.ErrorContains(t, err, "failed to ping redis")
}

func TestNoopNeverHits(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var out string
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out)
	assert.NoError(t, c.Delete(ctx, "k"))
}
