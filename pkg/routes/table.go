package routes

import "context"

// Path constants for the local HTTP API's fixed set of endpoints.
const (
	WifiConfigPath   = "/api/wifi"
	WifiResetPath    = "/api/wifi"
	WifiStatusPath   = "/api/wifi"
	WifiScanPath     = "/api/wifi/scan"
	SystemInfoPath   = "/api/system"
	SystemRebootPath = "/api/system/reboot"
	DebugPath        = "/api/debug"
	CryptoInfoPath   = "/api/crypto"
	CryptoSignPath   = "/api/crypto/sign"
	NameInfoPath     = "/api/name"
	EchoPath         = "/api/echo"
	BLEStopPath      = "/api/ble/stop"
	OTAUpdatePath    = "/api/ota/update"
	OTAStatusPath    = "/api/ota/status"
	P1DataPath       = "/api/data/p1/obis"
	ModbusTCPPath    = "/api/modbus/tcp"
)

// Route binds one path+verb combination to a handler, the Go equivalent
// of one Endpoint row in the superseded firmware's static array.
type Route struct {
	Verb    string
	Path    string
	Handler HandlerFunc
}

// Table is the full set of routes a local server dispatches against.
type Table struct {
	routes []Route
}

// NewTable builds a Table from routes, in the order given.
func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

// Routes returns every registered route, in registration order, for a
// local server to register against its own mux.
func (t *Table) Routes() []Route {
	return t.routes
}

// Lookup finds the route matching path and verb with a linear scan over
// the table.
func (t *Table) Lookup(path, verb string) (Route, bool) {
	for _, r := range t.routes {
		if r.Path == path && r.Verb == verb {
			return r, true
		}
	}
	return Route{}, false
}

// Route dispatches req to its matching handler, returning NotFound when
// no route matches.
func (t *Table) Route(ctx context.Context, req Request) Response {
	route, ok := t.Lookup(req.Path, req.Verb)
	if !ok {
		return NotFound()
	}
	return route.Handler(ctx, req)
}
