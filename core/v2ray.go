package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"v2-panel/config"

	"github.com/mitchellh/go-ps"
	log "github.com/sirupsen/logrus"
)

const commandDelay = 3 * time.Second

var (
	ErrAlreadyRunning = errors.New("v2ray already running")
	ErrNotRunning     = errors.New("v2ray has stopped")
)

// V2ray 控制代理进程的启动、停止和重启
type V2ray struct {
	cfg *config.V2ray
	cmd Commander

	delay time.Duration

	mu      sync.Mutex
	pending *delayedCmd
}

type delayedCmd struct {
	timer *time.Timer
	done  chan struct{}
	err   error
}

func NewV2ray(cfg *config.V2ray, cmd Commander) *V2ray {
	return &V2ray{
		cfg:   cfg,
		cmd:   cmd,
		delay: commandDelay,
	}
}

// IsRunning asks the status command, or scans the process table when no
// status command is configured.
func (v *V2ray) IsRunning(ctx context.Context) bool {
	if *v.cfg.StatusCmd != "" {
		_, code, err := runShell(ctx, v.cmd, *v.cfg.StatusCmd)
		if err != nil {
			log.Warnf("Unable to query v2ray status: %v", err)
			return false
		}
		return code == 0
	}

	procs, err := ps.Processes()
	if err != nil {
		log.Warnf("Unable to list processes: %v", err)
		return false
	}
	for _, p := range procs {
		if p.Executable() == *v.cfg.ProcessName {
			return true
		}
	}
	return false
}

// Restart 重启代理进程，now 为 false 时延迟执行
func (v *V2ray) Restart(now bool) error {
	if now {
		v.cancelPending()
		return v.exec(*v.cfg.RestartCmd)
	}
	v.schedule(*v.cfg.RestartCmd)
	return nil
}

func (v *V2ray) Start(ctx context.Context) error {
	if v.IsRunning(ctx) {
		return ErrAlreadyRunning
	}
	v.schedule(*v.cfg.StartCmd)
	return nil
}

func (v *V2ray) Stop(ctx context.Context) error {
	if !v.IsRunning(ctx) {
		return ErrNotRunning
	}
	v.schedule(*v.cfg.StopCmd)
	return nil
}

// Close drops a delayed command that has not fired yet.
func (v *V2ray) Close() {
	v.cancelPending()
}

// Wait blocks until the last delayed command has run and returns its error.
func (v *V2ray) Wait() error {
	v.mu.Lock()
	d := v.pending
	v.mu.Unlock()

	if d == nil {
		return nil
	}
	<-d.done
	return d.err
}

// schedule 延迟执行命令，新命令会取代尚未执行的旧命令
func (v *V2ray) schedule(cmdline string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopPending()
	d := &delayedCmd{done: make(chan struct{})}
	d.timer = time.AfterFunc(v.delay, func() {
		defer close(d.done)
		if d.err = v.exec(cmdline); d.err != nil {
			log.Error(d.err)
		}
	})
	v.pending = d
}

func (v *V2ray) cancelPending() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopPending()
	v.pending = nil
}

func (v *V2ray) stopPending() {
	if v.pending != nil && v.pending.timer.Stop() {
		close(v.pending.done)
	}
}

func (v *V2ray) exec(cmdline string) error {
	out, code, err := runShell(context.Background(), v.cmd, cmdline)
	if err != nil {
		return fmt.Errorf("run %q: %w", cmdline, err)
	}
	if code != 0 {
		return fmt.Errorf("run %q: exit code %d: %s", cmdline, code, out)
	}
	log.Infof("Executed %q", cmdline)
	return nil
}
