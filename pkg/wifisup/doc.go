// Package wifisup supervises the gateway's Wi-Fi station connection:
// associating with a configured network, persisting credentials across
// reboots, scanning for nearby networks, and republishing mDNS once an
// address is assigned. Manager is the Go rendering of WifiManager, and
// its Run loop plays the role of WifiStatusTask's periodic status check.
package wifisup
