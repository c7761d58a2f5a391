package routes

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/internal/mocks"
	"github.com/srcful/zap-gateway/pkg/scheduler"
	"github.com/srcful/zap-gateway/pkg/signer"
)

const testPrivateKeyHex = "4c6f7265006d697073756d000000000000000000000000000000000000000001"

func TestTableRouteDispatchesToMatchingHandler(t *testing.T) {
	called := false
	table := NewTable(Route{Verb: "GET", Path: "/api/echo2", Handler: func(ctx context.Context, req Request) Response {
		called = true
		return Response{StatusCode: 200}
	}})

	resp := table.Route(context.Background(), Request{Path: "/api/echo2", Verb: "GET"})
	require.True(t, called)
	require.Equal(t, 200, resp.StatusCode)
}

func TestTableRouteReturnsNotFoundForUnknownPath(t *testing.T) {
	table := NewTable()
	resp := table.Route(context.Background(), Request{Path: "/nope", Verb: "GET"})
	require.Equal(t, 404, resp.StatusCode)
	require.Contains(t, string(resp.Body), "Endpoint not found")
}

func TestEchoHandlerWrapsBody(t *testing.T) {
	handler := NewEchoHandler()
	resp := handler(context.Background(), Request{Body: []byte("hello")})
	require.Equal(t, 200, resp.StatusCode)
	require.JSONEq(t, `{"echo":"hello"}`, string(resp.Body))
}

func TestWifiConfigHandlerRejectsMissingCredentials(t *testing.T) {
	wifi := mocks.NewWifiController(t)
	handler := NewWifiConfigHandler(wifi, nil)
	resp := handler(context.Background(), Request{Body: []byte(`{"ssid":"home"}`)})
	require.Equal(t, 400, resp.StatusCode)
}

func TestWifiConfigHandlerConnectsOnValidCredentials(t *testing.T) {
	wifi := mocks.NewWifiController(t)
	wifi.EXPECT().Connect(context.Background(), "home", "secret123").Return(nil)
	handler := NewWifiConfigHandler(wifi, nil)
	resp := handler(context.Background(), Request{Body: []byte(`{"ssid":"home","psk":"secret123"}`)})
	require.Equal(t, 200, resp.StatusCode)
}

func TestWifiStatusHandlerReportsConnectionState(t *testing.T) {
	wifi := mocks.NewWifiController(t)
	wifi.EXPECT().IsConnected().Return(true)
	wifi.EXPECT().ConfiguredSSID().Return("home")
	wifi.EXPECT().LastScanResults().Return([]string{"home", "guest"})
	handler := NewWifiStatusHandler(wifi)
	resp := handler(context.Background(), Request{})

	var body struct {
		SSIDs     []string `json:"ssids"`
		Connected *string  `json:"connected"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	require.Equal(t, []string{"home", "guest"}, body.SSIDs)
	require.NotNil(t, body.Connected)
	require.Equal(t, "home", *body.Connected)
}

func TestCryptoSignHandlerRejectsPipeInMessage(t *testing.T) {
	sign, err := signer.New(testPrivateKeyHex)
	require.NoError(t, err)

	handler := NewCryptoSignHandler(sign, "SN-1")
	resp := handler(context.Background(), Request{Body: []byte(`{"message":"a|b"}`)})
	require.Equal(t, 400, resp.StatusCode)
}

func TestCryptoSignHandlerSignsCombinedMessage(t *testing.T) {
	sign, err := signer.New(testPrivateKeyHex)
	require.NoError(t, err)

	handler := NewCryptoSignHandler(sign, "SN-1")
	resp := handler(context.Background(), Request{Body: []byte(`{"message":"hello","timestamp":"2026-01-01T00:00:00Z"}`)})
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Sign    string `json:"sign"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	require.Contains(t, body.Message, "hello|")
	require.Contains(t, body.Message, "|2026-01-01T00:00:00Z|SN-1")
	require.Len(t, body.Sign, 128)
}

func TestModbusHandlerRejectsInvalidRequest(t *testing.T) {
	handler := NewModbusHandler(nil)
	resp := handler(context.Background(), Request{Body: []byte(`{"ip":"10.0.0.1","port":502,"slaveId":1,"numRegisters":1,"functionCode":99}`)})
	require.Equal(t, 400, resp.StatusCode)
}

func TestBLEStopHandlerSchedulesDisconnect(t *testing.T) {
	sched := scheduler.New()
	handler := NewBLEStopHandler(sched)
	resp := handler(context.Background(), Request{})
	require.Equal(t, 200, resp.StatusCode)

	_, ok := sched.Pending(scheduler.BleDisconnect)
	require.True(t, ok)
}
