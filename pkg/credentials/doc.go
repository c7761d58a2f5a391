// Package credentials persists the gateway's Wi-Fi provisioning state.
//
// The superseded ESP32 firmware kept SSID, password, and a provisioned flag in
// three NVS keys under a single namespace. There is no NVS on this
// platform, so Store mirrors that shape onto a single JSON file instead:
// same three fields, same "missing file means unprovisioned" semantics.
package credentials
