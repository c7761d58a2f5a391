package ota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/version"
)

var tag = gwlog.NewTag("ota", gwlog.LevelInfo)

// ErrUpToDate is returned by Poll when the metadata endpoint reports no
// version newer than the running firmware.
var ErrUpToDate = errors.New("ota: firmware already up to date")

// UpdateRequest names one firmware image queued for installation. ID is
// assigned by Manager.Enqueue if left blank, so callers that build one
// directly (tests, the checker) never need to generate it themselves.
type UpdateRequest struct {
	ID      string
	URL     string
	Version string
}

// firmwareMetadata is the update endpoint's response shape.
type firmwareMetadata struct {
	Version string `json:"version"`
	Binary  struct {
		DownloadURL string `json:"downloadUrl"`
		Hash        string `json:"hash"`
	} `json:"binary"`
}

// CheckerConfig wires a Checker's collaborators.
type CheckerConfig struct {
	// BaseURL is the backend's device-metadata root, with DeviceID and
	// the fixed "/firmwares/latest" suffix appended to form the polled
	// URL.
	BaseURL    string
	DeviceID   string
	Current    version.Version
	HTTPClient *http.Client
}

// Checker polls a backend endpoint for firmware newer than Current and
// hands any found update off through Enqueue.
type Checker struct {
	cfg     CheckerConfig
	enqueue func(UpdateRequest) error
}

// NewChecker builds a Checker. enqueue is called with the discovered
// update; it is usually Manager.Enqueue, kept as a plain function value
// so Checker doesn't need to know about Manager's queue or status
// fields.
func NewChecker(cfg CheckerConfig, enqueue func(UpdateRequest) error) *Checker {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Checker{cfg: cfg, enqueue: enqueue}
}

func (c *Checker) endpoint() string {
	return c.cfg.BaseURL + c.cfg.DeviceID + "/firmwares/latest"
}

// Poll fetches the current metadata, and if it names a version newer
// than cfg.Current, hands an UpdateRequest to enqueue. It returns
// ErrUpToDate (not an error condition worth alarming on) when the
// running firmware is already current.
func (c *Checker) Poll(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return fmt.Errorf("ota: build metadata request: %w", err)
	}

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ota: metadata request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ota: metadata request returned %d", resp.StatusCode)
	}

	var meta firmwareMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return fmt.Errorf("ota: decode metadata: %w", err)
	}

	latest, err := version.Parse(meta.Version)
	if err != nil {
		return fmt.Errorf("ota: parse metadata version: %w", err)
	}

	if !latest.Newer(c.cfg.Current) {
		gwlog.Infof(tag, "firmware up to date at %s", c.cfg.Current)
		return ErrUpToDate
	}

	gwlog.Infof(tag, "firmware %s available, running %s", latest, c.cfg.Current)
	return c.enqueue(UpdateRequest{URL: meta.Binary.DownloadURL, Version: meta.Version})
}
