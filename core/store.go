package core

import (
	"context"
	"fmt"
	"time"
	"v2-panel/config"
	"v2-panel/model"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const connectRetries = 5

// Store 入站数据的持久化
type Store interface {
	Migrate(ctx context.Context) error
	Inbounds(ctx context.Context) ([]model.Inbound, error)
	EnabledInbounds(ctx context.Context) ([]model.Inbound, error)
	// AddTraffic adds each delta to the inbound with the same tag in one
	// transaction. Unknown tags are ignored.
	AddTraffic(ctx context.Context, traffics []model.Traffic) error
	// DisableDepleted turns off enabled inbounds whose quota is used up and
	// returns their tags.
	DisableDepleted(ctx context.Context) ([]string, error)
	Close() error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// NewStore opens the configured backend and waits until it answers.
func NewStore(ctx context.Context, cfg *config.Database) (Store, error) {
	var store Store
	switch *cfg.Driver {
	case config.DriverPostgres:
		store = NewPostgres(&cfg.Postgres)
	case config.DriverSqlite:
		s, err := NewSqlite(*cfg.Sqlite.Path)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown database driver %q", *cfg.Driver)
	}

	if err := waitReady(ctx, store.(pinger)); err != nil {
		store.Close()
		return nil, fmt.Errorf("connect %s: %w", *cfg.Driver, err)
	}
	return store, nil
}

func waitReady(ctx context.Context, p pinger) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries), ctx)
	return backoff.RetryNotify(func() error {
		return p.Ping(ctx)
	}, b, func(err error, wait time.Duration) {
		log.Warnf("Database not ready, retrying in %v: %v", wait, err)
	})
}
