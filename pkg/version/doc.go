// Package version holds the gateway's own firmware version, exported
// both as a dotted string and as a packed 24-bit integer, and compares
// it against the version strings an update-metadata endpoint reports.
package version
