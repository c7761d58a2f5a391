// Package decode turns a detected frame (see pkg/framedetect) plus the
// meterbuf.Buffer it came from into a meterreading.Reading. Each wire
// format — ASCII P1 telegram, HDLC+DLMS, M-Bus — gets its own decoder
// with its own framing quirks, but all three produce the same
// meterreading.Reading shape.
package decode
