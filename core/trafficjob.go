package core

import (
	"context"
	"sync"
	"time"
	"v2-panel/model"

	log "github.com/sirupsen/logrus"
)

type ProcessChecker interface {
	IsRunning(ctx context.Context) bool
}

type TrafficSource interface {
	InboundTraffic(ctx context.Context, reset bool) ([]model.Traffic, error)
}

type TrafficPublisher interface {
	PublishTraffic(ctx context.Context, traffics []model.Traffic, at time.Time) error
}

// TrafficJob 定时采集入站流量并累加到数据库
type TrafficJob struct {
	store     Store
	source    TrafficSource
	process   ProcessChecker
	publisher TrafficPublisher
	lock      sync.Locker
	interval  time.Duration

	disableDepleted bool
	onDepleted      func(tags []string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type TrafficJobOptions struct {
	Interval        time.Duration
	DisableDepleted bool
	// OnDepleted is called after inbounds were disabled for exceeding their quota.
	OnDepleted func(tags []string)
	// Publisher is optional.
	Publisher TrafficPublisher
}

func NewTrafficJob(store Store, source TrafficSource, process ProcessChecker, lock sync.Locker, opts TrafficJobOptions) *TrafficJob {
	ctx, cancel := context.WithCancel(context.Background())
	j := &TrafficJob{
		store:           store,
		source:          source,
		process:         process,
		publisher:       opts.Publisher,
		lock:            lock,
		interval:        opts.Interval,
		disableDepleted: opts.DisableDepleted,
		onDepleted:      opts.OnDepleted,
		ctx:             ctx,
		cancel:          cancel,
	}

	j.wg.Add(1)
	go j.listen()
	return j
}

func (j *TrafficJob) listen() {
	defer j.wg.Done()

	log.Infof("Set traffic job interval to %v", j.interval)
	timer := time.NewTimer(j.interval)
	defer timer.Stop()

	for {
		select {
		case <-j.ctx.Done():
			return

		case <-timer.C:
			j.Run(j.ctx)
			timer.Reset(j.interval)
		}
	}
}

// Run collects one round of traffic. Failures are logged; the next tick retries.
func (j *TrafficJob) Run(ctx context.Context) {
	j.lock.Lock()
	defer j.lock.Unlock()

	if !j.process.IsRunning(ctx) {
		return
	}

	traffics, err := j.source.InboundTraffic(ctx, true)
	if err != nil {
		log.Warnf("Query inbound traffic failed: %v", err)
		return
	}
	if len(traffics) == 0 {
		return
	}

	if err := j.store.AddTraffic(ctx, traffics); err != nil {
		log.Errorf("Failed to save inbound traffic: %v", err)
		return
	}

	if j.publisher != nil {
		if err := j.publisher.PublishTraffic(ctx, traffics, time.Now()); err != nil {
			log.Warnf("Failed to publish inbound traffic: %v", err)
		}
	}

	if j.disableDepleted {
		tags, err := j.store.DisableDepleted(ctx)
		if err != nil {
			log.Errorf("Failed to disable depleted inbounds: %v", err)
			return
		}
		if len(tags) > 0 {
			log.Infof("Disabled depleted inbounds: %v", tags)
			if j.onDepleted != nil {
				j.onDepleted(tags)
			}
		}
	}
}

func (j *TrafficJob) Close() {
	j.cancel()

	j.wg.Wait()
}
