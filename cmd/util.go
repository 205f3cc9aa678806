package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"v2-panel/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const lockFile = "v2-panel.lock"

// getAppDir 返回当前可执行文件的绝对路径及所在目录
func getAppDir() (string, string) {
	bin, err := os.Executable()
	if err != nil {
		log.Panic(err)
	}
	if resolved, err := filepath.EvalSymlinks(bin); err == nil {
		bin = resolved
	}
	return bin, filepath.Dir(bin)
}

func getLockPath() string {
	_, dir := getAppDir()
	return filepath.Join(dir, lockFile)
}

func getConfigPath(command *cobra.Command) string {
	configPath, _ := command.Flags().GetString("config")

	if configPath == "" {
		configPath = "config.json"
	}

	return configPath
}

// loadConfig 加载配置文件，文件不存在时使用默认配置
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return readConfig(getConfigPath(cmd))
}

func readConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warnf("Config file %q not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("Unable to open configs file at %q: %w", path, err)
	default:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("Unable to decode configs configuration: %w", err)
		}
	}

	if err := cfg.SetDefaults(); err != nil {
		return nil, fmt.Errorf("Unable to apply config defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid configuration: %w", err)
	}

	return cfg, nil
}
