package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"time"

	"github.com/srcful/zap-gateway/pkg/credentials"
	"github.com/srcful/zap-gateway/pkg/scheduler"
	"github.com/srcful/zap-gateway/pkg/signer"
)

// wifiConfigRequest is the body NewWifiConfigHandler's handler parses.
type wifiConfigRequest struct {
	SSID string `json:"ssid"`
	PSK  string `json:"psk"`
}

// NewWifiConfigHandler applies caller-supplied Wi-Fi credentials.
func NewWifiConfigHandler(wifi WifiController, store *credentials.Store) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		if len(req.Body) == 0 {
			return Response{StatusCode: 200, ContentType: "application/json"}
		}

		var body wifiConfigRequest
		if err := json.Unmarshal(req.Body, &body); err != nil || body.SSID == "" || body.PSK == "" {
			return errorResponse(400, "Missing credentials")
		}

		if err := wifi.Connect(ctx, body.SSID, body.PSK); err != nil {
			return errorResponse(500, "Failed to connect with provided credentials")
		}

		if store != nil {
			_ = store.Save(credentials.Credentials{SSID: body.SSID, Password: body.PSK, Provisioned: true})
		}

		return Response{
			StatusCode:  200,
			ContentType: "application/json",
			Body:        []byte(`{"status":"success","message":"WiFi credentials updated and connected"}`),
		}
	}
}

// NewWifiResetHandler clears stored credentials and schedules a
// disconnect 5 seconds out, so the response reaches the caller over the
// connection being torn down.
func NewWifiResetHandler(store *credentials.Store, sched *scheduler.Scheduler) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		if store != nil {
			_ = store.Clear()
		}
		if sched != nil {
			sched.Trigger(scheduler.WifiDisconnect, 5*time.Second, time.Now())
		}
		return Response{
			StatusCode:  200,
			ContentType: "application/json",
			Body:        []byte(`{"status":"success","message":"WiFi credentials cleared, disconnecting in 5 seconds"}`),
		}
	}
}

// NewWifiStatusHandler reports scan results and the current connection.
func NewWifiStatusHandler(wifi WifiController) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		body := struct {
			SSIDs     []string `json:"ssids"`
			Connected *string  `json:"connected"`
		}{SSIDs: wifi.LastScanResults()}

		if wifi.IsConnected() {
			ssid := wifi.ConfiguredSSID()
			body.Connected = &ssid
		}
		return jsonResponse(body)
	}
}

// NewWifiScanHandler kicks off an async scan.
func NewWifiScanHandler(wifi WifiController) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		wifi.TriggerScan()
		return Response{
			StatusCode:  200,
			ContentType: "application/json",
			Body:        []byte(`{"status":"success","message":"scan initiated"}`),
		}
	}
}

// SystemInfoConfig supplies the static identity fields SystemInfoHandler
// reports alongside live process/Wi-Fi state.
type SystemInfoConfig struct {
	DeviceID        string
	PublicKeyHex    string
	FirmwareVersion string
	StartedAt       time.Time
	Wifi            WifiController
}

// NewSystemInfoHandler reports process and Wi-Fi telemetry, using
// runtime.MemStats and process uptime in place of the heap/CPU fields a
// microcontroller's system-info call would report.
func NewSystemInfoHandler(cfg SystemInfoConfig) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		totalMB := float64(mem.Sys) / (1024 * 1024)
		usedMB := float64(mem.Alloc) / (1024 * 1024)
		percentUsed := 0.0
		if totalMB > 0 {
			percentUsed = usedMB / totalMB * 100
		}

		network := map[string]any{"wifiStatus": "disconnected"}
		if cfg.Wifi != nil && cfg.Wifi.IsConnected() {
			network = map[string]any{
				"wifiStatus": "connected",
				"localIP":    cfg.Wifi.LocalIP(),
				"ssid":       cfg.Wifi.ConfiguredSSID(),
				"rssi":       cfg.Wifi.RSSI(),
			}
		}

		body := map[string]any{
			"time_utc_sec":   time.Now().Unix(),
			"uptime_seconds": int64(time.Since(cfg.StartedAt).Seconds()),
			"memory_MB": map[string]any{
				"total":        totalMB,
				"available":    totalMB - usedMB,
				"free":         totalMB - usedMB,
				"used":         usedMB,
				"percent_used": percentUsed,
			},
			"processes_average": map[string]any{
				"last_1min": 0, "last_5min": 0, "last_15min": 0,
			},
			"zap": map[string]any{
				"deviceId":        cfg.DeviceID,
				"goroutines":      runtime.NumGoroutine(),
				"firmwareVersion": cfg.FirmwareVersion,
				"publicKey":       cfg.PublicKeyHex,
				"network":         network,
			},
		}
		return jsonResponse(body)
	}
}

// NewSystemRebootHandler schedules a process restart.
func NewSystemRebootHandler(sched *scheduler.Scheduler) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		if sched != nil {
			sched.Trigger(scheduler.Reboot, 0, time.Now())
		}
		return Response{StatusCode: 200, ContentType: "application/json"}
	}
}

// NewCryptoInfoHandler reports the device's public identity.
func NewCryptoInfoHandler(deviceID, publicKeyHex string) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		return jsonResponse(struct {
			DeviceName   string `json:"deviceName"`
			SerialNumber string `json:"serialNumber"`
			PublicKey    string `json:"publicKey"`
		}{DeviceName: "software_zap", SerialNumber: deviceID, PublicKey: publicKeyHex})
	}
}

type cryptoSignRequest struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewCryptoSignHandler signs a pipe-delimited message|nonce|timestamp|serial
// string, with the signature field ordered first in the response body
// so it never gets fragmented across a BLE MTU boundary.
func NewCryptoSignHandler(sign *signer.Signer, deviceID string) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		var body cryptoSignRequest
		if len(req.Body) > 0 {
			_ = json.Unmarshal(req.Body, &body)
		}

		if strings.Contains(body.Message, "|") {
			return errorResponse(400, "Message cannot contain | characters")
		}
		if strings.Contains(body.Timestamp, "|") {
			return errorResponse(400, "Timestamp cannot contain | characters")
		}

		nonce := fmt.Sprintf("%d", 100000+rand.Intn(900000))

		timestamp := body.Timestamp
		if timestamp == "" {
			timestamp = time.Now().UTC().Format("2006-01-02T15:04:05Z")
		}

		var combined string
		if body.Message != "" {
			combined = strings.Join([]string{body.Message, nonce, timestamp, deviceID}, "|")
		} else {
			combined = strings.Join([]string{nonce, timestamp, deviceID}, "|")
		}

		signature, err := sign.SignHex([]byte(combined))
		if err != nil {
			return errorResponse(500, "failed to sign message")
		}

		return jsonResponse(struct {
			Sign    string `json:"sign"`
			Message string `json:"message"`
		}{Sign: signature, Message: combined})
	}
}

// NewNameInfoHandler resolves the gateway's backend-assigned name.
func NewNameInfoHandler(fetcher NameFetcher, deviceID string) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		name, err := fetcher.FetchName(ctx, deviceID)
		if err != nil {
			return Response{
				StatusCode:  500,
				ContentType: "application/json",
				Body:        mustMarshal(map[string]any{"name": "Unknown", "error": err.Error(), "status": "error"}),
			}
		}
		return jsonResponse(map[string]any{"name": name})
	}
}

// NewDebugHandler reports {"status":"success"} merged with whatever
// diagnostic fields provider contributes.
func NewDebugHandler(provider DebugProvider) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		body := map[string]any{"status": "success"}
		if provider != nil {
			for k, v := range provider.DebugReport() {
				body[k] = v
			}
		}
		return jsonResponse(body)
	}
}

// NewBLEStopHandler schedules the local provisioning service to stop 1
// second out, so the response reaches the caller first.
func NewBLEStopHandler(sched *scheduler.Scheduler) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		if sched != nil {
			sched.Trigger(scheduler.BleDisconnect, time.Second, time.Now())
		}
		return Response{
			StatusCode:  200,
			ContentType: "application/json",
			Body:        []byte(`{"status":"success","message":"BLE stopping..."}`),
		}
	}
}

// NewEchoHandler wraps the request body back in {"echo": ...}.
func NewEchoHandler() HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		return jsonResponse(map[string]string{"echo": string(req.Body)})
	}
}

// NewOTAUpdateHandler triggers a firmware update, mirroring
// the superseded firmware's OTA_UPDATE_PATH POST handler.
func NewOTAUpdateHandler(ota OTAController) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		if err := ota.TriggerUpdate(ctx); err != nil {
			return errorResponse(500, err.Error())
		}
		return jsonResponse(struct {
			Status string `json:"status"`
		}{Status: "update started"})
	}
}

// NewOTAStatusHandler reports the in-progress update's state.
func NewOTAStatusHandler(ota OTAController) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		return jsonResponse(ota.Status())
	}
}

// NewP1DataHandler echoes the last decoded meter frame.
func NewP1DataHandler(provider LastReadingProvider) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		reading, ok := provider.LastReading()
		if !ok {
			return jsonResponse(struct {
				Status string   `json:"status"`
				TS     int64    `json:"ts"`
				Data   []string `json:"data"`
			}{Status: "success", TS: 0, Data: []string{}})
		}
		return jsonResponse(struct {
			Status string   `json:"status"`
			TS     int64    `json:"ts"`
			Data   []string `json:"data"`
		}{Status: "success", TS: reading.TimestampUnix, Data: reading.ObisLines})
	}
}

// NewModbusHandler proxies one Modbus TCP call to a downstream device,
// validating the request fields before dialing out.
func NewModbusHandler(proxy ModbusProxy) HandlerFunc {
	return func(ctx context.Context, req Request) Response {
		var mreq ModbusRequest
		if err := json.Unmarshal(req.Body, &mreq); err != nil {
			return errorResponse(400, "invalid request body")
		}
		if !mreq.Valid() {
			return errorResponse(400, "invalid modbus request")
		}

		resp, err := proxy.Execute(ctx, mreq)
		if err != nil {
			return errorResponse(500, err.Error())
		}
		return jsonResponse(resp)
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{}`)
	}
	return b
}
