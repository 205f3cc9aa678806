package core

import (
	"context"
	"testing"
	"time"
	"v2-panel/config"
	"v2-panel/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	addr, prefix, db, poolSize := mr.Addr(), "v2-panel", 0, 2
	r := NewRedis(&config.Redis{Url: &addr, Prefix: &prefix, Database: &db, PoolSize: &poolSize}, ttl)
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func TestRedisKey(t *testing.T) {
	r, _ := newTestRedis(t, 30*time.Second)

	assert.Equal(t, "v2-panel:traffic:inbound:inbound-443", r.InboundKey("inbound-443"))
	assert.Equal(t, "v2-panel:traffic:total", r.TotalKey())
	assert.Equal(t, "v2-panel", r.Key())
}

func TestPublishTraffic(t *testing.T) {
	r, mr := newTestRedis(t, 30*time.Second)
	ctx := context.Background()
	at := time.Unix(1700000000, 0)

	// an inbound may be tagged "total" without touching the running total
	traffics := []model.Traffic{
		{Tag: "total", Uplink: 5, Downlink: 7},
		{Tag: "a", Uplink: 100, Downlink: 100},
	}
	require.NoError(t, r.PublishTraffic(ctx, traffics, at))
	require.NoError(t, r.PublishTraffic(ctx, traffics, at))

	a := r.InboundKey("a")
	assert.Equal(t, "100", mr.HGet(a, "up"))
	assert.Equal(t, "100", mr.HGet(a, "down"))
	assert.Equal(t, "1700000000", mr.HGet(a, "at"))
	assert.Equal(t, 30*time.Second, mr.TTL(a))

	tagged := r.InboundKey("total")
	assert.Equal(t, "5", mr.HGet(tagged, "up"))
	assert.Equal(t, "7", mr.HGet(tagged, "down"))
	assert.Equal(t, 30*time.Second, mr.TTL(tagged))

	total := r.TotalKey()
	assert.Equal(t, "210", mr.HGet(total, "up"))
	assert.Equal(t, "214", mr.HGet(total, "down"))
	assert.Zero(t, mr.TTL(total))
}

func TestPublishTrafficExpires(t *testing.T) {
	r, mr := newTestRedis(t, 30*time.Second)

	require.NoError(t, r.PublishTraffic(context.Background(), []model.Traffic{{Tag: "a", Uplink: 1}}, time.Now()))
	mr.FastForward(31 * time.Second)

	assert.False(t, mr.Exists(r.InboundKey("a")))
	assert.True(t, mr.Exists(r.TotalKey()))
}
