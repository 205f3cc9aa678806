package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := readConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "v2-panel", *cfg.Name)
	assert.Equal(t, "sqlite", *cfg.Database.Driver)
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"v2ray": {"configPath": "/tmp/v2ray.json", "templatePath": "/tmp/template.json"},
		"jobs": {"trafficInterval": "1m"}
	}`), 0644))

	cfg, err := readConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/v2ray.json", *cfg.V2ray.ConfigPath)
	assert.Equal(t, "/tmp/template.json", cfg.V2ray.TemplatePath)
	assert.Equal(t, "1m", *cfg.Jobs.TrafficInterval)
	assert.Equal(t, "10s", *cfg.Jobs.ConfigCheckInterval)
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database": {"driver": "oracle"}}`), 0644))

	_, err := readConfig(path)
	assert.ErrorContains(t, err, "database.driver")

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err = readConfig(path)
	assert.Error(t, err)
}

func TestGetAppDirResolvesExecutable(t *testing.T) {
	bin, dir := getAppDir()

	assert.True(t, filepath.IsAbs(bin))
	assert.FileExists(t, bin)
	assert.Equal(t, filepath.Dir(bin), dir)
	assert.Equal(t, filepath.Join(dir, lockFile), getLockPath())
}
