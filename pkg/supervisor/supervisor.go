package supervisor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/ota"
	"github.com/srcful/zap-gateway/pkg/provisioning"
	"github.com/srcful/zap-gateway/pkg/scheduler"
	"github.com/srcful/zap-gateway/pkg/wifisup"
)

var tag = gwlog.NewTag("supervisor", gwlog.LevelInfo)

// schedulerTick is how often the dispatch loop checks for due actions,
// matching the superseded ESP32 firmware's 1-second scheduler tick.
const schedulerTick = time.Second

// rebootGrace gives in-flight HTTP/websocket writes a moment to flush
// before the process exits, standing in for esp_restart's own brief
// deinit sequence.
const rebootGrace = 2 * time.Second

// runner is anything with a blocking Run that returns when ctx is done.
type runner interface {
	Run(ctx context.Context) error
}

// namedRunner pairs a runner with a name for error-reporting.
type namedRunner struct {
	name string
	run  runner
}

// Config wires every collaborator the supervisor drives. Any field left
// nil is simply not started — a gatewayd binary that, say, runs without
// BLE provisioning need only leave Provisioning nil.
type Config struct {
	Ingest       runner
	Uplink       runner
	Subscription runner
	LocalServer  runner
	Provisioning *provisioning.Service
	Wifi         *wifisup.Manager
	OTAManager   *ota.Manager
	OTAChecker   *ota.Checker
	OTAPoll      time.Duration

	Scheduler *scheduler.Scheduler
	StatePath string
}

// Supervisor runs every configured task to completion and owns the sole
// scheduler.Fire call site, dispatching each firing to the collaborator
// that owns it.
type Supervisor struct {
	cfg Config
}

// New builds a Supervisor from cfg. If cfg.Scheduler is nil, one is
// created so the dispatch loop and route handlers always share an
// instance.
func New(cfg Config) *Supervisor {
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.New()
	}
	if cfg.OTAPoll <= 0 {
		cfg.OTAPoll = time.Hour
	}
	return &Supervisor{cfg: cfg}
}

// Run starts every configured task and the scheduler dispatch loop,
// returning once ctx is cancelled and every task has stopped, or as soon
// as any task returns a non-context error.
func (s *Supervisor) Run(ctx context.Context) error {
	s.restoreSchedule()

	runners := []namedRunner{
		{"scheduler", runnerFunc(s.runScheduler)},
	}
	if s.cfg.Ingest != nil {
		runners = append(runners, namedRunner{"ingest", s.cfg.Ingest})
	}
	if s.cfg.Uplink != nil {
		runners = append(runners, namedRunner{"uplink", s.cfg.Uplink})
	}
	if s.cfg.Subscription != nil {
		runners = append(runners, namedRunner{"subscription", s.cfg.Subscription})
	}
	if s.cfg.LocalServer != nil {
		runners = append(runners, namedRunner{"localserver", s.cfg.LocalServer})
	}
	if s.cfg.Provisioning != nil {
		runners = append(runners, namedRunner{"provisioning", s.cfg.Provisioning})
	}
	if s.cfg.Wifi != nil {
		runners = append(runners, namedRunner{"wifisup", s.cfg.Wifi})
	}
	if s.cfg.OTAManager != nil {
		runners = append(runners, namedRunner{"ota", s.cfg.OTAManager})
	}
	if s.cfg.OTAChecker != nil {
		runners = append(runners, namedRunner{"ota-poll", runnerFunc(s.runOTAPoll)})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(runners))

	for _, r := range runners {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.run.Run(ctx)
			if err != nil && ctx.Err() == nil {
				gwlog.Errorf(tag, "%s stopped: %v", r.name, err)
				errs <- fmt.Errorf("%s: %w", r.name, err)
				cancel()
				return
			}
			errs <- nil
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

// runnerFunc adapts a plain function to the runner interface.
type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

// runScheduler is the sole caller of Scheduler.Fire: Fire snapshots and
// clears every due slot across all action types in one call, so a single
// dispatcher is needed to avoid one task's poll silently swallowing a
// same-tick firing meant for another action type.
func (s *Supervisor) runScheduler(ctx context.Context) error {
	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, firing := range s.cfg.Scheduler.Fire(time.Now()) {
				s.dispatch(ctx, firing)
			}
			s.persistSchedule()
		}
	}
}

func (s *Supervisor) dispatch(ctx context.Context, firing scheduler.Firing) {
	switch firing.Type {
	case scheduler.WifiDisconnect:
		if s.cfg.Wifi == nil {
			return
		}
		if err := s.cfg.Wifi.Disconnect(ctx); err != nil {
			gwlog.Warnf(tag, "scheduled wifi disconnect failed: %v", err)
		}
	case scheduler.BleDisconnect:
		if s.cfg.Provisioning == nil {
			return
		}
		if err := s.cfg.Provisioning.Stop(); err != nil {
			gwlog.Warnf(tag, "scheduled ble stop failed: %v", err)
		}
	case scheduler.Reboot:
		gwlog.Infof(tag, "scheduled reboot firing, exiting in %s", rebootGrace)
		s.persistSchedule()
		go func() {
			time.Sleep(rebootGrace)
			os.Exit(0)
		}()
	case scheduler.SendState:
		// No task currently triggers SendState; wired for completeness
		// against StateSenderTask's forced-publish path.
		gwlog.Debugf(tag, "send-state action fired with no subscriber")
	default:
		gwlog.Warnf(tag, "scheduler fired unknown action type %d", firing.Type)
	}
}

func (s *Supervisor) runOTAPoll(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.OTAPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.cfg.OTAChecker.Poll(ctx); err != nil && err != ota.ErrUpToDate {
				gwlog.Warnf(tag, "ota poll failed: %v", err)
			}
		}
	}
}

// restoreSchedule loads a previously persisted scheduler snapshot, if
// StatePath is set and a file exists there. A past-due restored action
// fires on the next tick rather than being dropped, so a reboot request
// made just before a crash still happens on restart.
func (s *Supervisor) restoreSchedule() {
	if s.cfg.StatePath == "" {
		return
	}
	data, err := os.ReadFile(s.cfg.StatePath)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		gwlog.Warnf(tag, "failed to read scheduler state: %v", err)
		return
	}
	if err := s.cfg.Scheduler.Restore(data); err != nil {
		gwlog.Warnf(tag, "failed to restore scheduler state: %v", err)
	}
}

func (s *Supervisor) persistSchedule() {
	if s.cfg.StatePath == "" {
		return
	}
	data, err := s.cfg.Scheduler.Snapshot()
	if err != nil {
		gwlog.Warnf(tag, "failed to snapshot scheduler state: %v", err)
		return
	}
	if err := os.WriteFile(s.cfg.StatePath, data, 0644); err != nil {
		gwlog.Warnf(tag, "failed to persist scheduler state: %v", err)
	}
}
