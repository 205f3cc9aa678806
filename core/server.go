package core

import (
	"context"
	"fmt"
	"sync"
	"v2-panel/config"
	"v2-panel/util"

	log "github.com/sirupsen/logrus"
)

type Server struct {
	cfg *config.Config

	store     Store
	redis     *Redis
	v2ray     *V2ray
	stats     *StatsClient
	generator *Generator

	// config rewrites and traffic commits never interleave
	jobMu      sync.Mutex
	configJob  *ConfigJob
	trafficJob *TrafficJob
	watcher    *Watcher
	debugger   *DebugServer
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	template, err := LoadTemplate(cfg.V2ray.TemplatePath)
	if err != nil {
		return nil, err
	}
	apiPort, err := template.APIPort()
	if err != nil {
		return nil, fmt.Errorf("failed to open v2ray api, please reset the v2ray configuration template: %w", err)
	}

	store, err := NewStore(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Server{
		cfg:   cfg,
		store: store,
		v2ray: NewV2ray(&cfg.V2ray, ExecCommander{}),
		stats: NewStatsClient(*cfg.V2ray.CtlPath, apiPort, ExecCommander{}),
	}
	s.generator = NewGenerator(*cfg.V2ray.ConfigPath, template, store, s.v2ray)

	if *cfg.Redis.Enabled {
		ttl := 3 * util.MustParseDuration(*cfg.Jobs.TrafficInterval)
		s.redis = NewRedis(&cfg.Redis, ttl)
		if err := s.redis.Ping(ctx); err != nil {
			log.Warnf("Redis is not reachable, live traffic will be unavailable: %v", err)
		}
	}

	return s, nil
}

func (s *Server) Start() error {
	s.configJob = NewConfigJob(s.generator, &s.jobMu, util.MustParseDuration(*s.cfg.Jobs.ConfigCheckInterval))

	opts := TrafficJobOptions{
		Interval:        util.MustParseDuration(*s.cfg.Jobs.TrafficInterval),
		DisableDepleted: *s.cfg.Jobs.DisableDepleted,
		OnDepleted: func(tags []string) {
			s.configJob.Trigger()
		},
	}
	if s.redis != nil {
		opts.Publisher = s.redis
	}
	s.trafficJob = NewTrafficJob(s.store, s.stats, s.v2ray, &s.jobMu, opts)

	if *s.cfg.Jobs.WatchTemplate && s.cfg.V2ray.TemplatePath != "" {
		w, err := NewWatcher(s.cfg.V2ray.TemplatePath, s.reloadTemplate)
		if err != nil {
			return fmt.Errorf("watch template: %w", err)
		}
		s.watcher = w
	}

	if *s.cfg.Debugger.Enable {
		d, err := StartDebugServer(*s.cfg.Debugger.Listen, s.status)
		if err != nil {
			return fmt.Errorf("start debugger: %w", err)
		}
		s.debugger = d
	}

	// 启动时立即检查一次
	s.configJob.Trigger()
	return nil
}

func (s *Server) reloadTemplate() {
	template, err := LoadTemplate(s.cfg.V2ray.TemplatePath)
	if err != nil {
		log.Errorf("Keep previous template: %v", err)
		return
	}
	apiPort, err := template.APIPort()
	if err != nil {
		log.Errorf("Keep previous template: %v", err)
		return
	}

	s.generator.SetTemplate(template)
	s.stats.SetAPIPort(apiPort)
	s.configJob.Trigger()
}

func (s *Server) status(ctx context.Context) Status {
	return Status{
		Running:    s.v2ray.IsRunning(ctx),
		APIPort:    s.stats.APIPort(),
		ConfigPath: *s.cfg.V2ray.ConfigPath,
	}
}

func (s *Server) Close() {
	if s.debugger != nil {
		s.debugger.Close()
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
	if s.trafficJob != nil {
		s.trafficJob.Close()
	}
	if s.configJob != nil {
		s.configJob.Close()
	}
	s.v2ray.Close()
	if s.redis != nil {
		s.redis.Close()
	}
	s.store.Close()
}
