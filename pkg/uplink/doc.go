// Package uplink runs the uplink task: it drains decoded meter readings
// off a channel, wraps each one in a signed JWT, and POSTs it to the
// backend's data-ingest endpoint.
//
// The JWT header ("alg": "ES256", "typ": "JWT",
// device/opr/model/dtype/sn) matches the shape the ingest backend
// expects, signed over the reading's raw wire text via pkg/signer and
// POSTed as text/plain. A goroutine ranges over the readings channel in
// place of a dedicated RTOS polling task.
package uplink
