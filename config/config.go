package config

import (
	"errors"
	"fmt"
	"v2-panel/util"

	"github.com/creasty/defaults"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Name     *string  `json:"name" default:"v2-panel"`
	Debugger Debugger `json:"debugger"`
	Logger   Logger   `json:"logger"`
	Database Database `json:"database"`
	Redis    Redis    `json:"redis"`
	V2ray    V2ray    `json:"v2ray"`
	Jobs     Jobs     `json:"jobs"`
}

// SetDefaults fills every field the config file left out.
func (c *Config) SetDefaults() error {
	return defaults.Set(c)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(*c.Logger.Level); err != nil {
		return fmt.Errorf("logger.level: %w", err)
	}
	switch *c.Logger.Mode {
	case LogModeStdout, LogModeFile:
	default:
		return fmt.Errorf("logger.mode: unknown mode %q", *c.Logger.Mode)
	}

	switch *c.Database.Driver {
	case DriverPostgres, DriverSqlite:
	default:
		return fmt.Errorf("database.driver: unknown driver %q", *c.Database.Driver)
	}

	if *c.V2ray.ConfigPath == "" {
		return errors.New("v2ray.configPath is required")
	}
	if *c.V2ray.StatusCmd == "" && *c.V2ray.ProcessName == "" {
		return errors.New("v2ray.statusCmd or v2ray.processName is required")
	}

	for name, value := range map[string]string{
		"jobs.configCheckInterval": *c.Jobs.ConfigCheckInterval,
		"jobs.trafficInterval":     *c.Jobs.TrafficInterval,
	} {
		d, err := util.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: must be positive, got %v", name, d)
		}
	}

	return nil
}
