// Package meterserial defines the UART boundary the ingestion task reads
// meter bytes from. Port is satisfied by a real serial device on the
// target hardware; tests use a pipe-backed implementation instead.
package meterserial
