package core

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"v2-panel/config"
	"v2-panel/model"

	"github.com/stretchr/testify/require"
)

// fakeCommander records calls and answers sh -c command lines by prefix.
type fakeCommander struct {
	mu    sync.Mutex
	calls []string

	out   string
	codes map[string]int
	err   error
}

func (f *fakeCommander) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := strings.Join(append([]string{name}, args...), " ")
	if name == "sh" && len(args) == 2 {
		line = args[1]
	}
	f.calls = append(f.calls, line)
	if f.err != nil {
		return "", -1, f.err
	}
	for prefix, code := range f.codes {
		if strings.HasPrefix(line, prefix) {
			return f.out, code, nil
		}
	}
	return f.out, 0, nil
}

func (f *fakeCommander) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testV2rayConfig(t *testing.T) *config.V2ray {
	t.Helper()
	cfg := &config.V2ray{}
	require.NoError(t, defaultsFor(cfg))
	path := filepath.Join(t.TempDir(), "v2ray", "config.json")
	cfg.ConfigPath = &path
	return cfg
}

func defaultsFor(cfg *config.V2ray) error {
	c := &config.Config{V2ray: *cfg}
	if err := c.SetDefaults(); err != nil {
		return err
	}
	*cfg = c.V2ray
	return nil
}

func newTestSqlite(t *testing.T) *Sqlite {
	t.Helper()
	s, err := NewSqlite(filepath.Join(t.TempDir(), "v2-ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func insertInbound(t *testing.T, s *Sqlite, i model.Inbound) {
	t.Helper()
	_, err := s.db.Exec(`INSERT INTO inbounds
		(up, down, total, remark, enable, listen, port, protocol, settings, stream_settings, tag, sniffing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.Up, i.Down, i.Total, i.Remark, i.Enable, i.Listen, i.Port, string(i.Protocol),
		i.Settings, i.StreamSettings, i.Tag, i.Sniffing)
	require.NoError(t, err)
}
