package scheduler

import (
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ActionType is the closed set of deferred actions the scheduler can hold.
type ActionType uint8

const (
	// Reboot restarts the device.
	Reboot ActionType = iota
	// WifiDisconnect tears down the current Wi-Fi association.
	WifiDisconnect
	// SendState forces an out-of-cycle state-poller publish.
	SendState
	// BleDisconnect stops the local wireless provisioning service.
	BleDisconnect

	numActionTypes
)

// String returns the action type's name.
func (a ActionType) String() string {
	switch a {
	case Reboot:
		return "REBOOT"
	case WifiDisconnect:
		return "WIFI_DISCONNECT"
	case SendState:
		return "SEND_STATE"
	case BleDisconnect:
		return "BLE_DISCONNECT"
	default:
		return "UNKNOWN"
	}
}

// slot is one row of the process-wide action table.
type slot struct {
	requested   bool
	requestedAt time.Time
	delay       time.Duration
	triggerAt   time.Time
}

// Firing describes one action the supervisor must now execute.
type Firing struct {
	Type        ActionType
	RequestedAt time.Time
	Delay       time.Duration
}

// Scheduler is the fixed-size, process-wide deferred-action table. The
// supervisor owns exactly one instance; handlers reach it to call Trigger,
// the supervisor's tick calls Fire.
type Scheduler struct {
	mu    sync.Mutex
	slots [numActionTypes]slot
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Trigger schedules action type t to fire after delay, starting from now.
// If t is already scheduled, the earlier of the two trigger times wins —
// a later Trigger call can only move the fire time sooner, never push it
// out further.
func (s *Scheduler) Trigger(t ActionType, delay time.Duration, now time.Time) {
	s.TriggerAt(t, delay, now)
}

// TriggerAt is Trigger with an explicit "now", used by tests that need
// deterministic timing.
func (s *Scheduler) TriggerAt(t ActionType, delay time.Duration, now time.Time) {
	if t >= numActionTypes {
		return
	}

	triggerAt := now.Add(delay)

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := &s.slots[t]
	if cur.requested && cur.triggerAt.Before(triggerAt) {
		return // existing trigger fires sooner; earliest wins
	}

	cur.requested = true
	cur.requestedAt = now
	cur.delay = delay
	cur.triggerAt = triggerAt
}

// Cancel clears a pending trigger for t, if any, without firing it.
func (s *Scheduler) Cancel(t ActionType) {
	if t >= numActionTypes {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[t] = slot{}
}

// Pending reports whether t has a requested, not-yet-fired trigger, and
// its scheduled fire time.
func (s *Scheduler) Pending(t ActionType) (triggerAt time.Time, ok bool) {
	if t >= numActionTypes {
		return time.Time{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.slots[t]
	return cur.triggerAt, cur.requested
}

// Fire takes a snapshot of every slot whose trigger time has arrived,
// clears those slots, and returns them for the caller to act on. Slots
// not yet due are left untouched.
func (s *Scheduler) Fire(now time.Time) []Firing {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Firing
	for i := range s.slots {
		cur := &s.slots[i]
		if !cur.requested || cur.triggerAt.After(now) {
			continue
		}
		due = append(due, Firing{
			Type:        ActionType(i),
			RequestedAt: cur.requestedAt,
			Delay:       cur.delay,
		})
		*cur = slot{}
	}
	return due
}

// persistedSlot is the CBOR-serializable shape of one slot, so a pending
// action (most importantly a scheduled reboot) survives a process
// restart the way the superseded firmware's RTOS timers didn't need to.
type persistedSlot struct {
	Type      ActionType    `cbor:"type"`
	TriggerAt time.Time     `cbor:"triggerAt"`
	Delay     time.Duration `cbor:"delay"`
}

// Snapshot CBOR-encodes every currently pending slot, for a supervisor
// to persist across restarts the same way pkg/gwlog encodes audit
// events with fxamacker/cbor.
func (s *Scheduler) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []persistedSlot
	for i := range s.slots {
		cur := &s.slots[i]
		if !cur.requested {
			continue
		}
		pending = append(pending, persistedSlot{Type: ActionType(i), TriggerAt: cur.triggerAt, Delay: cur.delay})
	}
	return cbor.Marshal(pending)
}

// Restore replaces the scheduler's pending slots with a previously
// captured Snapshot. Any action whose trigger time has already passed
// fires on the next Fire call rather than being dropped silently.
func (s *Scheduler) Restore(data []byte) error {
	var pending []persistedSlot
	if err := cbor.Unmarshal(data, &pending); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pending {
		if p.Type >= numActionTypes {
			continue
		}
		s.slots[p.Type] = slot{
			requested:   true,
			requestedAt: p.TriggerAt.Add(-p.Delay),
			delay:       p.Delay,
			triggerAt:   p.TriggerAt,
		}
	}
	return nil
}
