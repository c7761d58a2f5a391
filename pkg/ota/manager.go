package ota

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srcful/zap-gateway/pkg/flasher"
	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/routes"
	"github.com/srcful/zap-gateway/pkg/scheduler"
)

const (
	stateIdle        = "idle"
	stateDownloading = "downloading"
	stateSuccess     = "success"
	stateError       = "error"
)

// downloadChunkSize is the read buffer used while streaming the image
// into the flasher, matching performUpdate's 1024-byte buffer rounded
// up to a typical page size.
const downloadChunkSize = 4096

// NewInsecureHTTPClient builds an http.Client that accepts self-signed
// server certificates on the firmware update channel.
func NewInsecureHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
	}
}

// Manager owns the single-slot update queue, applies a queued
// UpdateRequest by streaming it into a flasher.Flasher, and reports
// progress through routes.OTAController.
type Manager struct {
	flasher flasher.Flasher
	client  *http.Client
	sched   *scheduler.Scheduler
	check   func(context.Context) error

	queue chan UpdateRequest

	mu       sync.Mutex
	state    string
	progress int
	lastErr  string
	jobID    string
}

// NewManager builds a Manager. client may be nil, in which case
// NewInsecureHTTPClient(30s) is used. check is called by TriggerUpdate
// to force an immediate metadata poll — ordinarily a bound
// Checker.Poll — and may be nil if no checker is wired in yet.
func NewManager(fl flasher.Flasher, client *http.Client, sched *scheduler.Scheduler, check func(context.Context) error) *Manager {
	if client == nil {
		client = NewInsecureHTTPClient(30 * time.Second)
	}
	return &Manager{
		flasher: fl,
		client:  client,
		sched:   sched,
		check:   check,
		queue:   make(chan UpdateRequest, 1),
		state:   stateIdle,
	}
}

// TriggerUpdate forces an immediate metadata check. If it finds newer
// firmware, the update is queued and Run applies it asynchronously; the
// call itself returns as soon as the check completes, rather than
// blocking until the flash finishes. The periodic poll schedule is not
// affected.
func (m *Manager) TriggerUpdate(ctx context.Context) error {
	if m.check == nil {
		return errors.New("ota: no update source configured")
	}
	return m.check(ctx)
}

// Enqueue hands req to the single-slot queue, rejecting it if an update
// is already downloading or already queued, matching the superseded firmware's
// capacity-1 queue with no overwrite. A blank req.ID is assigned a fresh
// job ID so the caller can correlate OTAStatus.JobID across polls.
func (m *Manager) Enqueue(req UpdateRequest) error {
	m.mu.Lock()
	inProgress := m.state == stateDownloading
	m.mu.Unlock()
	if inProgress {
		return errors.New("ota: update already in progress")
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	select {
	case m.queue <- req:
		return nil
	default:
		return errors.New("ota: update already queued")
	}
}

// Status reports the current update state.
func (m *Manager) Status() routes.OTAStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return routes.OTAStatus{JobID: m.jobID, State: m.state, Progress: m.progress, Error: m.lastErr}
}

// Run applies queued updates one at a time until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-m.queue:
			m.apply(ctx, req)
		}
	}
}

func (m *Manager) apply(ctx context.Context, req UpdateRequest) {
	m.mu.Lock()
	m.jobID = req.ID
	m.mu.Unlock()

	m.setState(stateDownloading, 0, "")
	gwlog.Infof(tag, "starting update %s from %s", req.ID, req.URL)

	if err := m.download(ctx, req); err != nil {
		m.setState(stateError, 0, err.Error())
		gwlog.Errorf(tag, "update failed: %v", err)
		return
	}

	m.setState(stateSuccess, 100, "")
	gwlog.Infof(tag, "update to %s succeeded", req.Version)

	if m.sched != nil {
		m.sched.Trigger(scheduler.Reboot, time.Second, time.Now())
	}
}

func (m *Manager) download(ctx context.Context, req UpdateRequest) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	if err := m.flasher.Begin(resp.ContentLength); err != nil {
		return fmt.Errorf("begin flash: %w", err)
	}

	buf := make([]byte, downloadChunkSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			_ = m.flasher.Abort()
			return ctx.Err()
		default:
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := m.flasher.Write(buf[:n]); writeErr != nil {
				_ = m.flasher.Abort()
				return fmt.Errorf("write flash data: %w", writeErr)
			}
			written += int64(n)
			m.updateProgress(written, resp.ContentLength)
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = m.flasher.Abort()
			return fmt.Errorf("read firmware stream: %w", readErr)
		}
	}

	return m.flasher.Commit()
}

func (m *Manager) updateProgress(written, total int64) {
	if total <= 0 {
		return
	}
	pct := int(written * 100 / total)
	m.mu.Lock()
	m.progress = pct
	m.mu.Unlock()
}

func (m *Manager) setState(state string, progress int, lastErr string) {
	m.mu.Lock()
	m.state = state
	m.progress = progress
	m.lastErr = lastErr
	m.mu.Unlock()
}

var _ routes.OTAController = (*Manager)(nil)
