package meterserial

import "io"

// Port is a byte-oriented connection to the meter's serial interface.
// Read should return available bytes without blocking indefinitely past
// a reasonable poll interval, matching the superseded ESP32 firmware's
// non-blocking UART read loop.
type Port interface {
	io.Reader
	io.Closer
}
