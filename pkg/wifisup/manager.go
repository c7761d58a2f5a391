package wifisup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/srcful/zap-gateway/pkg/credentials"
	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/routes"
	"github.com/srcful/zap-gateway/pkg/status"
)

var tag = gwlog.NewTag("wifisup", gwlog.LevelInfo)

// connectTimeout bounds one Connect attempt, standing in for
// connectToWiFi's 30 retries at 500ms each.
const connectTimeout = 15 * time.Second

// pollInterval is how often Run checks link status, matching
// WifiStatusTask's 5-second status-check cadence.
const pollInterval = 5 * time.Second

// MDNSConfig names the service Manager advertises once connected. A
// zero value disables mDNS advertising entirely.
type MDNSConfig struct {
	Hostname    string
	ServiceType string
	Port        int
}

// Config wires a Manager's collaborators. The supervisor, not Manager,
// owns the process-wide scheduler and calls Disconnect when a
// WifiDisconnect action fires, so Manager has no scheduler dependency.
type Config struct {
	Radio       Radio
	Credentials *credentials.Store
	Indicator   status.Indicator
	MDNS        MDNSConfig
}

// Manager supervises the station connection, implementing
// routes.WifiController for the local HTTP API. It is the Go rendering
// of WifiManager plus the reconnect-supervision half of WifiStatusTask.
type Manager struct {
	cfg Config

	mu             sync.Mutex
	configuredSSID string
	scanning       bool
	scanResults    []string
	mdnsServer     *zeroconf.Server
}

// New builds a Manager. cfg.Indicator may be nil, in which case state
// transitions are only logged.
func New(cfg Config) *Manager {
	if cfg.Indicator == nil {
		cfg.Indicator = status.LogIndicator{}
	}
	return &Manager{cfg: cfg}
}

// Connect associates with ssid/psk and, on success, persists the
// credentials so the connection survives a restart. It mirrors
// connectToWiFi(ssid, password, updateGlobals=true).
func (m *Manager) Connect(ctx context.Context, ssid, psk string) error {
	return m.connect(ctx, ssid, psk, true)
}

// AutoConnect reloads the last persisted credentials and reconnects
// without rewriting them, mirroring autoConnect's
// connectToWiFi(ssid, password, updateGlobals=false) call.
func (m *Manager) AutoConnect(ctx context.Context) error {
	creds, err := m.cfg.Credentials.Load()
	if err != nil {
		return fmt.Errorf("wifisup: load credentials: %w", err)
	}
	if !creds.Provisioned {
		gwlog.Infof(tag, "no stored credentials, skipping auto-connect")
		return nil
	}
	return m.connect(ctx, creds.SSID, creds.Password, false)
}

func (m *Manager) connect(ctx context.Context, ssid, psk string, persist bool) error {
	m.cfg.Indicator.Set(status.StateConnectingWifi)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	_ = m.cfg.Radio.Disconnect(connectCtx)

	if err := m.cfg.Radio.Connect(connectCtx, ssid, psk); err != nil {
		m.cfg.Indicator.Set(status.StateError)
		gwlog.Errorf(tag, "connect to %q failed: %v", ssid, err)
		return err
	}

	m.mu.Lock()
	m.configuredSSID = ssid
	m.mu.Unlock()

	if persist {
		if err := m.cfg.Credentials.Save(credentials.Credentials{SSID: ssid, Password: psk, Provisioned: true}); err != nil {
			gwlog.Errorf(tag, "failed to persist credentials: %v", err)
		}
	}

	m.cfg.Indicator.Set(status.StateConnected)
	gwlog.Infof(tag, "connected to %q, ip=%s", ssid, m.cfg.Radio.Status(ctx).LocalIP)

	m.advertiseMDNS()

	return nil
}

// Disconnect tears down the current association and stops mDNS
// advertising.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.stopMDNS()

	m.mu.Lock()
	m.configuredSSID = ""
	m.mu.Unlock()

	return m.cfg.Radio.Disconnect(ctx)
}

// IsConnected reports whether the station interface currently holds an
// association.
func (m *Manager) IsConnected() bool {
	return m.cfg.Radio.Status(context.Background()).Connected
}

// ConfiguredSSID returns the SSID of the most recent successful
// connect, or the empty string if none.
func (m *Manager) ConfiguredSSID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configuredSSID
}

// LocalIP returns the station interface's current IPv4 address.
func (m *Manager) LocalIP() string {
	return m.cfg.Radio.Status(context.Background()).LocalIP
}

// RSSI returns the active network's signal strength.
func (m *Manager) RSSI() int {
	return m.cfg.Radio.Status(context.Background()).RSSI
}

// LastScanResults returns the SSIDs found by the most recently
// completed scan.
func (m *Manager) LastScanResults() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.scanResults))
	copy(out, m.scanResults)
	return out
}

// TriggerScan starts a background scan, mirroring
// scanWiFiNetworks's guard against overlapping scans via
// _connectToWiFiProcessing. A scan already in flight makes this a
// no-op, matching the superseded firmware's early return.
func (m *Manager) TriggerScan() {
	m.mu.Lock()
	if m.scanning {
		m.mu.Unlock()
		return
	}
	m.scanning = true
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			m.scanning = false
			m.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		results, err := m.cfg.Radio.Scan(ctx)
		if err != nil {
			gwlog.Warnf(tag, "scan failed: %v", err)
			return
		}

		m.mu.Lock()
		m.scanResults = results
		m.mu.Unlock()
	}()
}

// advertiseMDNS republishes the gateway's mDNS record under the
// configured hostname.
func (m *Manager) advertiseMDNS() {
	if m.cfg.MDNS.ServiceType == "" {
		return
	}

	m.stopMDNS()

	hostname := m.cfg.MDNS.Hostname
	if hostname == "" {
		hostname = "zap-gateway"
	}

	server, err := zeroconf.Register(hostname, m.cfg.MDNS.ServiceType, "local.", m.cfg.MDNS.Port, nil, nil)
	if err != nil {
		gwlog.Errorf(tag, "mdns register failed: %v", err)
		return
	}

	m.mu.Lock()
	m.mdnsServer = server
	m.mu.Unlock()
}

func (m *Manager) stopMDNS() {
	m.mu.Lock()
	server := m.mdnsServer
	m.mdnsServer = nil
	m.mu.Unlock()

	if server != nil {
		server.Shutdown()
	}
}

// Run polls link status until ctx is cancelled, logging connection
// changes, the Go rendering of WifiStatusTask's periodic check loop (the
// JWT-publishing half of that task lives in pkg/uplink). Scheduled Wi-Fi
// actions are dispatched by the supervisor, not here.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	wasConnected := m.IsConnected()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			connected := m.IsConnected()
			switch {
			case connected && !wasConnected:
				gwlog.Infof(tag, "Wi-Fi connected, ip=%s", m.LocalIP())
			case !connected && wasConnected:
				gwlog.Warnf(tag, "Wi-Fi connection lost")
				m.cfg.Indicator.Set(status.StateError)
			}
			wasConnected = connected
		}
	}
}

var _ routes.WifiController = (*Manager)(nil)
