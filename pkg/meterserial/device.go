package meterserial

import (
	"os"
	"os/exec"
	"strconv"
)

// DevicePort opens a tty device path (e.g. /dev/ttyUSB0) as a raw byte
// stream. Baud rate and line discipline are assumed configured outside
// this process (udev rule, stty, or the OS default), the same
// assumption the superseded ESP32 firmware's Serial.begin call made implicit.
type DevicePort struct {
	f *os.File
}

// OpenDevice opens path for reading the meter's serial stream.
func OpenDevice(path string) (*DevicePort, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &DevicePort{f: f}, nil
}

// ConfigureLine sets the tty at path to baud bps in raw mode via the
// system stty binary, the closest Linux analogue to a microcontroller's
// Serial.begin(baud). A zero baud is a no-op, for callers
// that rely on the line already being configured (udev rule, prior
// stty call) and have nothing to pass.
func ConfigureLine(path string, baud int) error {
	if baud <= 0 {
		return nil
	}
	cmd := exec.Command("stty", "-F", path, "raw", "-echo", strconv.Itoa(baud))
	return cmd.Run()
}

func (p *DevicePort) Read(b []byte) (int, error) { return p.f.Read(b) }
func (p *DevicePort) Close() error               { return p.f.Close() }

var _ Port = (*DevicePort)(nil)
