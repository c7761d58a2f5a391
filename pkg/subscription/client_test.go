package subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/signer"
)

const testPrivateKeyHex = "4c6f7265006d697073756d000000000000000000000000000000000000000001"

func newTestSigner(t *testing.T) *signer.Signer {
	t.Helper()
	s, err := signer.New(testPrivateKeyHex)
	require.NoError(t, err)
	return s
}

// fakeServer accepts one subscription connection, replies to
// connection_init with connection_ack, and records the start message.
func newFakeServer(t *testing.T, onStart chan<- startMessage) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg inboundMessage
			require.NoError(t, json.Unmarshal(data, &msg))

			switch msg.Type {
			case "connection_init":
				require.NoError(t, conn.WriteJSON(inboundMessage{Type: "connection_ack"}))
			case "start":
				var start startMessage
				require.NoError(t, json.Unmarshal(data, &start))
				select {
				case onStart <- start:
				default:
				}
			}
		}
	}))
}

func TestRunCompletesHandshakeAndSendsSubscription(t *testing.T) {
	started := make(chan startMessage, 1)
	server := newFakeServer(t, started)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	client := New(Config{
		URL:          wsURL,
		SerialNumber: "SN-1",
		Signer:       newTestSigner(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(ctx) }()

	select {
	case start := <-started:
		require.Equal(t, "start", start.Type)
		require.Contains(t, start.Payload.Query, "SN-1")
		require.Eventually(t, func() bool {
			return client.State() == StateSubscribed
		}, time.Second, 10*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received a start message")
	}

	cancel()
	select {
	case <-runErr:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestHandleDataDispatchesBySubKey(t *testing.T) {
	var gotSettings, gotRequest json.RawMessage
	client := New(Config{
		SerialNumber: "SN-1",
		Signer:       newTestSigner(t),
		OnSettings:   func(data json.RawMessage) { gotSettings = data },
		OnRequest:    func(data json.RawMessage) { gotRequest = data },
	})

	settingsMsg := []byte(`{"data":{"configurationDataChanges":{"subKey":"settings","data":{"foo":1}}}}`)
	require.NoError(t, client.handleData(settingsMsg))
	require.JSONEq(t, `{"foo":1}`, string(gotSettings))
	require.Nil(t, gotRequest)

	requestMsg := []byte(`{"data":{"configurationDataChanges":{"subKey":"request","data":{"bar":2}}}}`)
	require.NoError(t, client.handleData(requestMsg))
	require.JSONEq(t, `{"bar":2}`, string(gotRequest))
}

func TestBuildSubscriptionQueryEmbedsSignedDeviceAuth(t *testing.T) {
	client := New(Config{SerialNumber: "SN-1", Signer: newTestSigner(t)})
	query, err := client.buildSubscriptionQuery()
	require.NoError(t, err)
	require.Contains(t, query, `id: "SN-1"`)
	require.Contains(t, query, "configurationDataChanges")
	require.Contains(t, query, "signedIdAndTimestamp")
}
