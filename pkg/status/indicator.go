package status

import "github.com/srcful/zap-gateway/pkg/gwlog"

// State is the set of gateway-wide states an Indicator can display.
type State int

const (
	StateBooting State = iota
	StateProvisioning
	StateConnectingWifi
	StateConnected
	StateError
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateBooting:
		return "BOOTING"
	case StateProvisioning:
		return "PROVISIONING"
	case StateConnectingWifi:
		return "CONNECTING_WIFI"
	case StateConnected:
		return "CONNECTED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Indicator surfaces the gateway's current state.
type Indicator interface {
	Set(s State)
}

var tag = gwlog.NewTag("status", gwlog.LevelInfo)

// LogIndicator implements Indicator by logging each transition, the
// default when no physical indicator is wired in.
type LogIndicator struct{}

// Set logs the new state.
func (LogIndicator) Set(s State) {
	gwlog.Infof(tag, "state=%s", s)
}

var _ Indicator = LogIndicator{}
