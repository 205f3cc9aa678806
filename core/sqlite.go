package core

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"v2-panel/model"

	_ "modernc.org/sqlite"
)

const inboundSchema = `
CREATE TABLE IF NOT EXISTS inbounds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	up INTEGER NOT NULL DEFAULT 0,
	down INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	remark TEXT,
	enable BOOLEAN NOT NULL DEFAULT 1,
	listen TEXT,
	port INTEGER NOT NULL,
	protocol TEXT NOT NULL,
	settings TEXT,
	stream_settings TEXT,
	tag TEXT NOT NULL UNIQUE,
	sniffing TEXT
)`

const inboundColumns = `id, up, down, total, COALESCE(remark, ''), enable, COALESCE(listen, ''), port, protocol,
	COALESCE(settings, ''), COALESCE(stream_settings, ''), tag, COALESCE(sniffing, '')`

const depletedCondition = `enable AND total > 0 AND up + down >= total`

// Sqlite 面板默认使用的 SQLite 数据库
type Sqlite struct {
	db *sql.DB
}

func NewSqlite(path string) (*Sqlite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// the panel writes to the same file; one connection keeps sqlite locking simple
	db.SetMaxOpenConns(1)

	return &Sqlite{db: db}, nil
}

func (s *Sqlite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}

func (s *Sqlite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, inboundSchema)
	return err
}

func (s *Sqlite) Inbounds(ctx context.Context) ([]model.Inbound, error) {
	return s.queryInbounds(ctx, `SELECT `+inboundColumns+` FROM inbounds ORDER BY id`)
}

func (s *Sqlite) EnabledInbounds(ctx context.Context) ([]model.Inbound, error) {
	return s.queryInbounds(ctx, `SELECT `+inboundColumns+` FROM inbounds WHERE enable ORDER BY id`)
}

func (s *Sqlite) queryInbounds(ctx context.Context, query string) ([]model.Inbound, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inbounds []model.Inbound
	for rows.Next() {
		var i model.Inbound
		if err := rows.Scan(&i.Id, &i.Up, &i.Down, &i.Total, &i.Remark, &i.Enable, &i.Listen, &i.Port,
			&i.Protocol, &i.Settings, &i.StreamSettings, &i.Tag, &i.Sniffing); err != nil {
			return nil, err
		}
		inbounds = append(inbounds, i)
	}
	return inbounds, rows.Err()
}

func (s *Sqlite) AddTraffic(ctx context.Context, traffics []model.Traffic) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE inbounds SET up = up + ?, down = down + ? WHERE tag = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range traffics {
			if _, err := stmt.ExecContext(ctx, t.Uplink, t.Downlink, t.Tag); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Sqlite) DisableDepleted(ctx context.Context) ([]string, error) {
	var tags []string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT tag FROM inbounds WHERE `+depletedCondition)
		if err != nil {
			return err
		}
		for rows.Next() {
			var tag string
			if err := rows.Scan(&tag); err != nil {
				rows.Close()
				return err
			}
			tags = append(tags, tag)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `UPDATE inbounds SET enable = 0 WHERE `+depletedCondition)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Sqlite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
