// Package framedetect finds delimited frames inside a meterbuf.Buffer.
//
// A Detector is configured with one or more DelimiterPair entries, each
// naming a start byte, an end byte, and the FrameType the pair identifies.
// Detect scans the buffer for the first configured start byte, then scans
// forward for the matching end byte; when both are found it reports the
// frame's extent as a Frame. A frame that sits open too long — no new byte
// arrives within the inter-frame timeout — is abandoned and the search for
// a new start byte begins again.
package framedetect
