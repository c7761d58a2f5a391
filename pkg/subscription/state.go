package subscription

// State is the subscription client's connection lifecycle state.
type State int

const (
	// StateDisconnected is the initial state and the state entered after
	// any connection loss; a reconnect is attempted from here.
	StateDisconnected State = iota
	// StateTCPOpen is set once the WebSocket dial (TCP connect + HTTP
	// upgrade handshake) has succeeded.
	StateTCPOpen
	// StateInitialized is set once a connection_init message has been
	// sent and we're waiting for connection_ack.
	StateInitialized
	// StateSubscribed is set once the GraphQL subscription start message
	// has been sent following connection_ack.
	StateSubscribed
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateTCPOpen:
		return "TCP_OPEN"
	case StateInitialized:
		return "INITIALIZED"
	case StateSubscribed:
		return "SUBSCRIBED"
	default:
		return "UNKNOWN"
	}
}
