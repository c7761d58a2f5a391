// Package meterbuf implements the ring buffer that sits between the meter
// serial reader and the frame detector.
//
// Bytes arrive one at a time off the wire and are appended with Add. Once
// full, Add keeps accepting bytes by dropping the oldest unread one and
// counting it in Overflow — the buffer never blocks the reader and never
// grows. Consumers peek ahead with At and commit consumed bytes with
// Advance.
package meterbuf
