package subscription

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/signer"
)

var tag = gwlog.NewTag("subscription", gwlog.LevelInfo)

// Timing constants for the subscription's keepalive and reconnect loop.
const (
	PingInterval   = 45 * time.Second
	ReconnectDelay = 5 * time.Second
	MaxMissedPongs = 2
)

// Config configures a subscription Client.
type Config struct {
	// URL is the backend's subscription endpoint, e.g. "wss://host/graphql".
	URL string
	// SerialNumber authenticates the subscription's deviceAuth block.
	SerialNumber string
	// Signer signs "<serial>:<timestamp>" for deviceAuth.signedIdAndTimestamp.
	Signer *signer.Signer
	// InsecureSkipVerify matches the superseded firmware's client.setInsecure(),
	// accepting self-signed backend certificates.
	InsecureSkipVerify bool
	// OnSettings is invoked for "settings" subKey configuration changes.
	OnSettings func(data json.RawMessage)
	// OnRequest is invoked for "request" subKey configuration changes.
	OnRequest func(data json.RawMessage)
}

// Client maintains one persistent subscription connection, reconnecting
// on loss with a fixed delay.
type Client struct {
	cfg    Config
	dialer websocket.Dialer

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	missedPongs int
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	dialer := *websocket.DefaultDialer
	if cfg.InsecureSkipVerify {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{cfg: cfg, dialer: dialer, state: StateDisconnected}
}

// connectionID identifies one graphql-ws "start" message. A fresh UUID
// per connection lets server-side logs correlate a dropped/reconnected
// subscription back to a specific socket lifetime, rather than reusing
// a single hardcoded id across the process lifetime.
func connectionID() string {
	return uuid.New().String()
}

// State returns the client's current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run maintains the subscription connection until ctx is cancelled,
// reconnecting after ReconnectDelay whenever the connection drops.
func (c *Client) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := c.runOnce(ctx); err != nil {
			gwlog.Warnf(tag, "subscription connection ended: %v", err)
		}
		c.setState(StateDisconnected)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ReconnectDelay):
		}
	}
}

// runOnce dials, subscribes, and reads until the connection breaks.
func (c *Client) runOnce(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.missedPongs = 0
	c.mu.Unlock()
	c.setState(StateTCPOpen)
	gwlog.Infof(tag, "connected to %s", c.cfg.URL)

	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		if c.missedPongs > 0 {
			c.missedPongs--
		}
		c.mu.Unlock()
		return nil
	})

	if err := c.sendJSON(newConnectionInitMessage()); err != nil {
		return fmt.Errorf("send connection_init: %w", err)
	}
	c.setState(StateInitialized)

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	pingDone := make(chan struct{})
	go c.pingLoop(pingCtx, pingDone)
	defer func() { cancelPing(); <-pingDone }()

	return c.readLoop(ctx)
}

func (c *Client) pingLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			conn := c.conn
			c.missedPongs++
			tooManyMissed := c.missedPongs > MaxMissedPongs
			c.mu.Unlock()

			if tooManyMissed {
				gwlog.Warnf(tag, "ping pong timeout, closing connection")
				_ = conn.Close()
				return
			}

			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				gwlog.Warnf(tag, "failed to send ping: %v", err)
				return
			}
			gwlog.Debugf(tag, "sent ping")
		}
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if err := c.handleMessage(data); err != nil {
			gwlog.Warnf(tag, "failed to handle subscription message: %v", err)
		}
	}
}

func (c *Client) handleMessage(raw []byte) error {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch msg.Type {
	case "connection_ack":
		gwlog.Infof(tag, "connection acknowledged, subscribing")
		return c.subscribe()
	case "data":
		return c.handleData(msg.Payload)
	case "error":
		gwlog.Warnf(tag, "subscription error message: %s", msg.Payload)
		return nil
	case "ka":
		return nil
	default:
		gwlog.Debugf(tag, "ignoring message of type %q", msg.Type)
		return nil
	}
}

func (c *Client) handleData(raw json.RawMessage) error {
	var payload dataPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal data payload: %w", err)
	}

	change := payload.Data.ConfigurationDataChanges
	switch change.SubKey {
	case settingsSubKey:
		if c.cfg.OnSettings != nil {
			c.cfg.OnSettings(change.Data)
		}
	case requestSubKey:
		if c.cfg.OnRequest != nil {
			c.cfg.OnRequest(change.Data)
		}
	default:
		gwlog.Debugf(tag, "ignoring configuration change with subKey %q", change.SubKey)
	}
	return nil
}

// subscribe sends the GraphQL subscription start message, signing the
// deviceAuth block the same way getSubscriptionQuery did.
func (c *Client) subscribe() error {
	query, err := c.buildSubscriptionQuery()
	if err != nil {
		return fmt.Errorf("build subscription query: %w", err)
	}

	msg := startMessage{
		ID:      connectionID(),
		Type:    "start",
		Payload: startPayload{Query: query},
	}
	if err := c.sendJSON(msg); err != nil {
		return fmt.Errorf("send start: %w", err)
	}
	c.setState(StateSubscribed)
	gwlog.Infof(tag, "sent subscription message")
	return nil
}

const subscriptionQueryTemplate = `
subscription {
  configurationDataChanges(deviceAuth: {
    id: "%s",
    timestamp: "%s",
    signedIdAndTimestamp: "%s"
  }) {
    data
    subKey
  }
}
`

func (c *Client) buildSubscriptionQuery() (string, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05")
	message := c.cfg.SerialNumber + ":" + timestamp
	signature, err := c.cfg.Signer.SignHex([]byte(message))
	if err != nil {
		return "", fmt.Errorf("sign device auth: %w", err)
	}
	return fmt.Sprintf(strings.TrimSpace(subscriptionQueryTemplate), c.cfg.SerialNumber, timestamp, signature), nil
}

func (c *Client) sendJSON(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	return conn.WriteJSON(v)
}
