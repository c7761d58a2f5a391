// Package nvs defines the small persistent key-value boundary several
// components use for settings that must survive a reboot, standing in
// for the ESP32's non-volatile storage (Preferences/NVS) partition. On
// this platform a JSON file plays that role.
package nvs
