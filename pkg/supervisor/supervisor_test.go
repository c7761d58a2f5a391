package supervisor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/scheduler"
)

func TestDispatchIgnoresWifiDisconnectWhenWifiNotConfigured(t *testing.T) {
	s := New(Config{})
	require.NotPanics(t, func() {
		s.dispatch(context.Background(), scheduler.Firing{Type: scheduler.WifiDisconnect})
	})
}

func TestDispatchIgnoresBleDisconnectWhenProvisioningNotConfigured(t *testing.T) {
	s := New(Config{})
	require.NotPanics(t, func() {
		s.dispatch(context.Background(), scheduler.Firing{Type: scheduler.BleDisconnect})
	})
}

func TestDispatchLogsSendStateWithoutSubscriber(t *testing.T) {
	s := New(Config{})
	require.NotPanics(t, func() {
		s.dispatch(context.Background(), scheduler.Firing{Type: scheduler.SendState})
	})
}

func TestPersistAndRestoreScheduleRoundTrips(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "scheduler.cbor")

	sched := scheduler.New()
	now := time.Now()
	sched.TriggerAt(scheduler.Reboot, 10*time.Minute, now)

	s1 := New(Config{Scheduler: sched, StatePath: statePath})
	s1.persistSchedule()

	restored := scheduler.New()
	s2 := New(Config{Scheduler: restored, StatePath: statePath})
	s2.restoreSchedule()

	triggerAt, ok := restored.Pending(scheduler.Reboot)
	require.True(t, ok)
	require.WithinDuration(t, now.Add(10*time.Minute), triggerAt, time.Second)
}

func TestRestoreScheduleToleratesMissingFile(t *testing.T) {
	sched := scheduler.New()
	s := New(Config{Scheduler: sched, StatePath: filepath.Join(t.TempDir(), "missing.cbor")})
	require.NotPanics(t, func() {
		s.restoreSchedule()
	})
	_, ok := sched.Pending(scheduler.Reboot)
	require.False(t, ok)
}
