package core

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ConfigJob 定时检查配置是否需要重新生成
type ConfigJob struct {
	generator *Generator
	lock      sync.Locker
	interval  time.Duration

	trigger chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConfigJob(generator *Generator, lock sync.Locker, interval time.Duration) *ConfigJob {
	ctx, cancel := context.WithCancel(context.Background())
	j := &ConfigJob{
		generator: generator,
		lock:      lock,
		interval:  interval,
		trigger:   make(chan struct{}, 1),
		ctx:       ctx,
		cancel:    cancel,
	}

	j.wg.Add(1)
	go j.listen()
	return j
}

func (j *ConfigJob) listen() {
	defer j.wg.Done()

	log.Infof("Set v2ray config check interval to %v", j.interval)
	timer := time.NewTimer(j.interval)
	defer timer.Stop()

	for {
		select {
		case <-j.ctx.Done():
			return

		case <-j.trigger:
			j.Run(j.ctx)

		case <-timer.C:
			j.Run(j.ctx)
			timer.Reset(j.interval)
		}
	}
}

// Trigger asks for a check without waiting for the next tick.
func (j *ConfigJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

func (j *ConfigJob) Run(ctx context.Context) {
	j.lock.Lock()
	defer j.lock.Unlock()

	if err := j.generator.Check(ctx); err != nil {
		log.Errorf("Check v2ray config failed: %v", err)
	}
}

func (j *ConfigJob) Close() {
	j.cancel()

	j.wg.Wait()
}
