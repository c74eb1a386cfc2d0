package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type entry struct {
	Name string `json:"name"`
}

func TestClient_NilIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	var got entry
	assert.False(t, c.GetJSON(ctx, "user:1", &got))
	assert.NotPanics(t, func() {
		c.SetJSON(ctx, "user:1", entry{Name: "a"}, time.Minute)
	})
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestClient_UnreachableRedisFailsSafe(t *testing.T) {
	c := NewFromRedis(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer c.Close()
	ctx := context.Background()

	c.SetJSON(ctx, "user:1", entry{Name: "a"}, time.Minute)

	var got entry
	assert.False(t, c.GetJSON(ctx, "user:1", &got))
	assert.Empty(t, got.Name)
	assert.Error(t, c.Ping(ctx))
}
