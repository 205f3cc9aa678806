package core

import (
	"context"
	"testing"
	"v2-panel/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteEnabledInbounds(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	insertInbound(t, s, model.Inbound{Tag: "a", Port: 1000, Protocol: model.ProtocolVmess, Enable: true, Settings: `{}`})
	insertInbound(t, s, model.Inbound{Tag: "b", Port: 1001, Protocol: model.ProtocolSocks, Enable: false})
	insertInbound(t, s, model.Inbound{Tag: "c", Port: 1002, Protocol: model.ProtocolHttp, Enable: true, Listen: "127.0.0.1"})

	inbounds, err := s.EnabledInbounds(ctx)
	require.NoError(t, err)
	require.Len(t, inbounds, 2)
	assert.Equal(t, "a", inbounds[0].Tag)
	assert.Equal(t, model.ProtocolVmess, inbounds[0].Protocol)
	assert.Equal(t, "c", inbounds[1].Tag)
	assert.Equal(t, "127.0.0.1", inbounds[1].Listen)

	all, err := s.Inbounds(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.False(t, all[1].Enable)
}

func TestSqliteAddTraffic(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	insertInbound(t, s, model.Inbound{Tag: "a", Port: 1000, Protocol: model.ProtocolVmess, Enable: true, Up: 10, Down: 20})
	insertInbound(t, s, model.Inbound{Tag: "b", Port: 1001, Protocol: model.ProtocolVmess, Enable: true})

	traffics := []model.Traffic{
		{Tag: "a", Uplink: 5, Downlink: 7},
		{Tag: "unknown", Uplink: 100, Downlink: 100},
	}
	require.NoError(t, s.AddTraffic(ctx, traffics))
	require.NoError(t, s.AddTraffic(ctx, traffics[:1]))

	inbounds, err := s.Inbounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), inbounds[0].Up)
	assert.Equal(t, int64(34), inbounds[0].Down)
	assert.Zero(t, inbounds[1].Up)
	assert.Zero(t, inbounds[1].Down)
}

func TestSqliteDisableDepleted(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	insertInbound(t, s, model.Inbound{Tag: "unlimited", Port: 1, Protocol: model.ProtocolVmess, Enable: true, Up: 1 << 40})
	insertInbound(t, s, model.Inbound{Tag: "used-up", Port: 2, Protocol: model.ProtocolVmess, Enable: true, Up: 60, Down: 40, Total: 100})
	insertInbound(t, s, model.Inbound{Tag: "room-left", Port: 3, Protocol: model.ProtocolVmess, Enable: true, Up: 10, Total: 100})
	insertInbound(t, s, model.Inbound{Tag: "already-off", Port: 4, Protocol: model.ProtocolVmess, Enable: false, Up: 500, Total: 100})

	tags, err := s.DisableDepleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"used-up"}, tags)

	enabled, err := s.EnabledInbounds(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, "unlimited", enabled[0].Tag)
	assert.Equal(t, "room-left", enabled[1].Tag)

	tags, err = s.DisableDepleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestSqliteMigrateIsIdempotent(t *testing.T) {
	s := newTestSqlite(t)
	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, s.Ping(context.Background()))
}
