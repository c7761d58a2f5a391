// Package flasher defines the boundary pkg/ota uses to write a
// downloaded firmware image and reboot into it, standing in for the
// ESP32's OTA update partition API.
package flasher
