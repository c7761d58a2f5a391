// Package ota checks a backend endpoint for newer firmware, downloads
// and applies it through a flasher.Flasher, and reports progress. Checker
// is the Go rendering of OtaChecker (the metadata poll), and Manager is
// the Go rendering of OTATask (the queued, single-slot update apply).
package ota
