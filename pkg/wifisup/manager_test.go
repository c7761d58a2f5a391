package wifisup

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/credentials"
)

type fakeRadio struct {
	mu          sync.Mutex
	connectErr  error
	connectSSID string
	connectPSK  string
	connected   bool
	localIP     string
	rssi        int
	scanResults []string
	scanErr     error
	disconnects int
}

func (f *fakeRadio) Connect(ctx context.Context, ssid, psk string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connectSSID = ssid
	f.connectPSK = psk
	f.connected = true
	return nil
}

func (f *fakeRadio) Disconnect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	f.connected = false
	return nil
}

func (f *fakeRadio) Status(ctx context.Context) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{Connected: f.connected, SSID: f.connectSSID, LocalIP: f.localIP, RSSI: f.rssi}
}

func (f *fakeRadio) Scan(ctx context.Context) ([]string, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.scanResults, nil
}

func (f *fakeRadio) MacAddress() string { return "DE:AD:BE:EF:00:01" }

func newTestManager(t *testing.T, radio Radio) (*Manager, *credentials.Store) {
	t.Helper()
	store := credentials.NewStore(filepath.Join(t.TempDir(), "wifi.json"))
	mgr := New(Config{Radio: radio, Credentials: store})
	return mgr, store
}

func TestConnectPersistsCredentialsOnSuccess(t *testing.T) {
	radio := &fakeRadio{localIP: "192.168.1.50"}
	mgr, store := newTestManager(t, radio)

	err := mgr.Connect(context.Background(), "home", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "home", mgr.ConfiguredSSID())
	require.Equal(t, 1, radio.disconnects, "connect should disconnect any prior association first")

	creds, err := store.Load()
	require.NoError(t, err)
	require.True(t, creds.Provisioned)
	require.Equal(t, "home", creds.SSID)
	require.Equal(t, "hunter2", creds.Password)
}

func TestConnectLeavesCredentialsUnpersistedOnFailure(t *testing.T) {
	radio := &fakeRadio{connectErr: errors.New("auth failed")}
	mgr, store := newTestManager(t, radio)

	err := mgr.Connect(context.Background(), "home", "wrongpass")
	require.Error(t, err)
	require.Empty(t, mgr.ConfiguredSSID())

	creds, err := store.Load()
	require.NoError(t, err)
	require.False(t, creds.Provisioned)
}

func TestAutoConnectSkipsWhenNoCredentialsStored(t *testing.T) {
	radio := &fakeRadio{}
	mgr, _ := newTestManager(t, radio)

	err := mgr.AutoConnect(context.Background())
	require.NoError(t, err)
	require.False(t, radio.connected)
}

func TestAutoConnectReusesStoredCredentialsWithoutRewriting(t *testing.T) {
	radio := &fakeRadio{}
	mgr, store := newTestManager(t, radio)

	require.NoError(t, store.Save(credentials.Credentials{SSID: "office", Password: "secret", Provisioned: true}))

	err := mgr.AutoConnect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "office", mgr.ConfiguredSSID())
	require.Equal(t, "office", radio.connectSSID)
}

func TestDisconnectClearsConfiguredSSID(t *testing.T) {
	radio := &fakeRadio{}
	mgr, _ := newTestManager(t, radio)

	require.NoError(t, mgr.Connect(context.Background(), "home", "pw"))
	require.Equal(t, "home", mgr.ConfiguredSSID())

	require.NoError(t, mgr.Disconnect(context.Background()))
	require.Empty(t, mgr.ConfiguredSSID())
	require.False(t, radio.connected)
}

func TestTriggerScanPopulatesResultsAsynchronously(t *testing.T) {
	radio := &fakeRadio{scanResults: []string{"zeta", "alpha", "mid"}}
	mgr, _ := newTestManager(t, radio)

	mgr.TriggerScan()
	require.Eventually(t, func() bool {
		return len(mgr.LastScanResults()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	results := mgr.LastScanResults()
	require.ElementsMatch(t, []string{"zeta", "alpha", "mid"}, results)
}

func TestIsConnectedReflectsRadioStatus(t *testing.T) {
	radio := &fakeRadio{connected: true, localIP: "10.0.0.5", rssi: -42}
	mgr, _ := newTestManager(t, radio)

	require.True(t, mgr.IsConnected())
	require.Equal(t, "10.0.0.5", mgr.LocalIP())
	require.Equal(t, -42, mgr.RSSI())
}
