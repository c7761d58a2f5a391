// Package radio defines the short-range wireless boundary the
// provisioning transport (pkg/provisioning) uses to talk to a
// provisioning client, standing in for the BLE GATT service the
// superseded ESP32 firmware exposes. On this platform a TCP loopback listener
// plays the same role for local testing.
package radio
