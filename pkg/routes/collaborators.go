package routes

import "context"

// WifiController is the narrow view of Wi-Fi management a handler needs,
// satisfied by the supervisor's wifisup manager.
type WifiController interface {
	Connect(ctx context.Context, ssid, psk string) error
	IsConnected() bool
	ConfiguredSSID() string
	LocalIP() string
	RSSI() int
	LastScanResults() []string
	TriggerScan()
}

// NameFetcher resolves the gateway's human-readable name from the
// backend, satisfied by a GraphQL query helper.
type NameFetcher interface {
	FetchName(ctx context.Context, deviceID string) (string, error)
}

// OTAController drives a firmware update, satisfied by pkg/ota.
type OTAController interface {
	TriggerUpdate(ctx context.Context) error
	Status() OTAStatus
}

// OTAStatus reports the current state of an in-progress or completed
// firmware update.
type OTAStatus struct {
	JobID    string `json:"jobId,omitempty"`
	State    string `json:"state"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// ModbusRequest is one proxied Modbus TCP call.
type ModbusRequest struct {
	IP            string   `json:"ip"`
	Port          int      `json:"port"`
	SlaveID       int      `json:"slaveId"`
	StartRegister int      `json:"startRegister"`
	NumRegisters  int      `json:"numRegisters"`
	FunctionCode  int      `json:"functionCode"`
	Values        []uint16 `json:"values,omitempty"`
}

// Valid reports whether r is a well-formed Modbus request.
func (r ModbusRequest) Valid() bool {
	switch r.FunctionCode {
	case 3, 4, 16:
	default:
		return false
	}
	if r.NumRegisters < 1 || r.NumRegisters > 125 {
		return false
	}
	if r.SlaveID < 0 || r.SlaveID > 247 {
		return false
	}
	if r.Port <= 0 || r.Port > 65535 {
		return false
	}
	if r.IP == "" {
		return false
	}
	if r.FunctionCode == 16 && len(r.Values) != r.NumRegisters {
		return false
	}
	return true
}

// ModbusResponse carries back the registers a proxied read returned, or
// the write acknowledgement for a function code 16 call.
type ModbusResponse struct {
	Registers []uint16 `json:"registers,omitempty"`
	Written   int      `json:"written,omitempty"`
}

// ModbusProxy executes one Modbus TCP request against a downstream
// device, satisfied by pkg/modbus.
type ModbusProxy interface {
	Execute(ctx context.Context, req ModbusRequest) (ModbusResponse, error)
}

// Reading is the subset of a decoded meter frame the P1 data endpoint
// echoes back, decoupling this package from pkg/meterreading.
type Reading struct {
	TimestampUnix int64
	ObisLines     []string
}

// LastReadingProvider exposes the most recently decoded meter frame.
type LastReadingProvider interface {
	LastReading() (Reading, bool)
}

// DebugProvider supplies the free-form diagnostic fields the debug
// endpoint appends alongside {"status":"success"}.
type DebugProvider interface {
	DebugReport() map[string]any
}
