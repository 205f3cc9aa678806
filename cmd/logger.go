package cmd

import (
	"os"
	"v2-panel/config"

	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"
)

func initLogger(cfg *config.Config) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)

	if *cfg.Logger.Mode == config.LogModeFile {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
		log.SetOutput(&lumberjack.Logger{
			Filename:   *cfg.Logger.Filename,
			MaxSize:    *cfg.Logger.MaxSize,
			MaxBackups: *cfg.Logger.MaxBackups,
			MaxAge:     *cfg.Logger.MaxAge,
		})
	}

	// Validate has already checked the level.
	level, _ := log.ParseLevel(*cfg.Logger.Level)
	log.SetLevel(level)
}
