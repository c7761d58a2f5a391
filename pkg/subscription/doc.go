// Package subscription maintains the gateway's persistent GraphQL
// subscription to the backend's configuration-change feed over a
// WebSocket.
//
// Maintains the same state machine and timing a hand-rolled WebSocket
// client over a raw TLS socket would need (45s ping interval,
// disconnect after two missed pongs, a fixed 5s reconnect delay), but
// delegates framing and the handshake itself to gorilla/websocket
// rather than implementing RFC 6455 by hand.
package subscription
