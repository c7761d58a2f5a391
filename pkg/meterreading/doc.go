// Package meterreading defines the normalized reading produced by every
// wire-format decoder in pkg/decode, regardless of whether the source
// frame was ASCII, HDLC+DLMS, or M-Bus.
package meterreading
