package core

import (
	"context"
	"strings"
	"time"
	"v2-panel/config"
	"v2-panel/model"

	"github.com/go-redis/redis/v8"
)

const Separator = ":"

// Redis 缓存最近一次采集的流量，供面板显示实时速率
type Redis struct {
	Prefix string
	Client *redis.Client

	ttl time.Duration
}

func NewRedis(cfg *config.Redis, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     *cfg.Url,
		Password: cfg.Password,
		DB:       *cfg.Database,
		PoolSize: *cfg.PoolSize,
	})

	return &Redis{
		Prefix: *cfg.Prefix,
		Client: client,

		ttl: ttl,
	}
}

func (r *Redis) Key(parts ...string) string {
	return strings.Join(append([]string{r.Prefix}, parts...), Separator)
}

// InboundKey holds the latest delta of one inbound. Inbound keys live
// under their own namespace so no tag can collide with the total.
func (r *Redis) InboundKey(tag string) string {
	return r.Key("traffic", "inbound", tag)
}

func (r *Redis) TotalKey() string {
	return r.Key("traffic", "total")
}

// PublishTraffic stores the latest delta of every inbound and adds it to
// the running total.
func (r *Redis) PublishTraffic(ctx context.Context, traffics []model.Traffic, at time.Time) error {
	var up, down int64
	pipe := r.Client.TxPipeline()
	for _, t := range traffics {
		key := r.InboundKey(t.Tag)
		pipe.HSet(ctx, key, "up", t.Uplink, "down", t.Downlink, "at", at.Unix())
		pipe.Expire(ctx, key, r.ttl)
		up += t.Uplink
		down += t.Downlink
	}
	total := r.TotalKey()
	pipe.HIncrBy(ctx, total, "up", up)
	pipe.HIncrBy(ctx, total, "down", down)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
