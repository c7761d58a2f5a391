package uplink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/meterreading"
	"github.com/srcful/zap-gateway/pkg/signer"
)

var tag = gwlog.NewTag("uplink", gwlog.LevelInfo)

// jwtHeader mirrors the superseded ESP32 firmware's createP1JWT header shape.
type jwtHeader struct {
	Alg    string `json:"alg"`
	Typ    string `json:"typ"`
	Device string `json:"device"`
	Opr    string `json:"opr"`
	Model  string `json:"model"`
	DType  string `json:"dtype"`
	SN     string `json:"sn"`
}

// jwtPayloadBody mirrors createP1JWTPayload's inner object, keyed by the
// reading's millisecond timestamp at the top level.
type jwtPayloadBody struct {
	SerialNumber string   `json:"serial_number"`
	Rows         []string `json:"rows"`
	Checksum     string   `json:"checksum"`
}

// Config configures an uplink Task.
type Config struct {
	// Endpoint is the backend's data-ingest URL (the superseded firmware's DATA_URL).
	Endpoint string
	// SerialNumber is this gateway's meter serial number (METER_SN).
	SerialNumber string
	// HTTPClient is reused across requests, matching the superseded firmware's
	// single reused HTTPClient instance. A zero value gets a sane
	// default with a bounded timeout.
	HTTPClient *http.Client
}

// Task drains decoded readings and POSTs each as a signed JWT.
type Task struct {
	signer   *signer.Signer
	cfg      Config
	readings <-chan meterreading.Reading
}

// New builds a Task that signs with sign and reads from readings.
func New(sign *signer.Signer, cfg Config, readings <-chan meterreading.Reading) *Task {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Task{signer: sign, cfg: cfg, readings: readings}
}

// Run drains readings until ctx is cancelled or the channel closes.
func (t *Task) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case reading, ok := <-t.readings:
			if !ok {
				return nil
			}
			t.send(ctx, reading)
		}
	}
}

func (t *Task) send(ctx context.Context, reading meterreading.Reading) {
	jwt, err := t.buildJWT(reading)
	if err != nil {
		gwlog.Warnf(tag, "failed to build JWT for reading from %q: %v", reading.DeviceID, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewBufferString(jwt))
	if err != nil {
		gwlog.Warnf(tag, "failed to build uplink request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := t.cfg.HTTPClient.Do(req)
	if err != nil {
		gwlog.Warnf(tag, "uplink request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		gwlog.Infof(tag, "uplink accepted, status=%d", resp.StatusCode)
		gwlog.Debugf(tag, "uplink response: %s", body)
		return
	}
	gwlog.Warnf(tag, "uplink rejected, status=%d body=%s", resp.StatusCode, body)
}

// buildJWT assembles the header and payload the ingest backend expects,
// and signs them.
func (t *Task) buildJWT(reading meterreading.Reading) (string, error) {
	header := jwtHeader{
		Alg:    "ES256",
		Typ:    "JWT",
		Device: reading.DeviceID,
		Opr:    "production",
		Model:  "p1zap",
		DType:  "p1_telnet_json",
		SN:     t.cfg.SerialNumber,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("uplink: marshal header: %w", err)
	}

	payloadJSON, err := buildPayload(reading, t.cfg.SerialNumber)
	if err != nil {
		return "", fmt.Errorf("uplink: marshal payload: %w", err)
	}

	return t.signer.SignJWT(string(headerJSON), string(payloadJSON))
}

// buildPayload builds the "{ <timestamp-ms>: {...} }" envelope the
// backend expects, from the reading's raw OBIS lines plus a
// reconstructed timestamp line. The timestamp line is formatted in UTC
// with a fixed 'W' suffix regardless of the reading's source protocol.
func buildPayload(reading meterreading.Reading, serialNumber string) ([]byte, error) {
	ts := reading.Timestamp
	if !reading.HasTimestamp {
		ts = time.Now().UTC()
	}

	rows := make([]string, 0, len(reading.Values)+1)
	for _, v := range reading.Values {
		rows = append(rows, v.Raw)
	}
	rows = append(rows, formatTimestampRow(ts))

	body := jwtPayloadBody{
		SerialNumber: serialNumber,
		Rows:         rows,
		Checksum:     "DEAD",
	}

	envelope := map[string]jwtPayloadBody{
		timestampKeyMillis(ts): body,
	}
	return json.Marshal(envelope)
}

func timestampKeyMillis(ts time.Time) string {
	return fmt.Sprintf("%d000", ts.Unix())
}

func formatTimestampRow(ts time.Time) string {
	u := ts.UTC()
	return fmt.Sprintf("0-0:1.0.0(%02d%02d%02d%02d%02d%02dW)",
		u.Year()%100, int(u.Month()), u.Day(), u.Hour(), u.Minute(), u.Second())
}
