package core

import (
	"context"
	"v2-panel/config"
	"v2-panel/model"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type Postgres struct {
	db *pg.DB
}

func NewPostgres(cfg *config.Postgres) *Postgres {
	db := pg.Connect(&pg.Options{
		Addr:     *cfg.Address,
		User:     *cfg.Username,
		Password: cfg.Password,
		Database: *cfg.Database,
	})

	return &Postgres{db: db}
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Migrate(ctx context.Context) error {
	return p.db.ModelContext(ctx, (*model.Inbound)(nil)).CreateTable(&orm.CreateTableOptions{
		IfNotExists: true,
	})
}

func (p *Postgres) Inbounds(ctx context.Context) ([]model.Inbound, error) {
	var inbounds []model.Inbound
	if err := p.db.ModelContext(ctx, &inbounds).Order("id ASC").Select(); err != nil {
		return nil, err
	}
	return inbounds, nil
}

// EnabledInbounds 查询启用的入站
func (p *Postgres) EnabledInbounds(ctx context.Context) ([]model.Inbound, error) {
	var inbounds []model.Inbound
	if err := p.db.ModelContext(ctx, &inbounds).Where("enable = ?", true).Order("id ASC").Select(); err != nil {
		return nil, err
	}
	return inbounds, nil
}

// AddTraffic 累加流量
func (p *Postgres) AddTraffic(ctx context.Context, traffics []model.Traffic) error {
	return p.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		for _, t := range traffics {
			if _, err := tx.ModelContext(ctx, (*model.Inbound)(nil)).
				Set("up = up + ?, down = down + ?", t.Uplink, t.Downlink).
				Where("tag = ?", t.Tag).Update(); err != nil {
				return err
			}
		}
		return nil
	})
}

// DisableDepleted 禁用流量耗尽的入站
func (p *Postgres) DisableDepleted(ctx context.Context) ([]string, error) {
	var tags []string
	err := p.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		if err := tx.ModelContext(ctx, (*model.Inbound)(nil)).
			Column("tag").
			Where("enable = ? and total > 0 and up + down >= total", true).
			For("UPDATE").Select(&tags); err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}

		_, err := tx.ModelContext(ctx, (*model.Inbound)(nil)).
			Set("enable = ?", false).
			Where("tag IN (?)", pg.In(tags)).Update()
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
