// Package ingest runs the meter ingestion task: it pulls bytes off a
// pkg/meterserial.Port into a pkg/meterbuf.Buffer, asks a
// pkg/framedetect.Detector to carve out complete frames, decodes each one
// with the matching pkg/decode function, and publishes the resulting
// pkg/meterreading.Reading on a bounded channel.
//
// This is the Go-goroutine rendering of the superseded ESP32 firmware's
// DataReaderTask: the RTOS task loop becomes a goroutine gated by a
// context.Context, and the fixed-size FreeRTOS queue with "drop oldest on
// full" becomes an explicit drain-then-send against a buffered channel,
// since a plain Go channel send has no such semantics built in.
package ingest
