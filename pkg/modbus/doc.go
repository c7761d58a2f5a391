// Package modbus implements the Modbus-TCP PDU framing the local
// proxy endpoint needs to talk to a downstream meter or relay.
package modbus
