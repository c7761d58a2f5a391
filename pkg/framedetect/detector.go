package framedetect

import (
	"time"

	"github.com/srcful/zap-gateway/pkg/meterbuf"
)

// FrameType identifies which wire protocol a detected frame belongs to.
type FrameType int

const (
	FrameTypeUnknown FrameType = -1
	FrameTypeASCII   FrameType = 0
	FrameTypeHDLC    FrameType = 1
	FrameTypeMBus    FrameType = 2
)

// DelimiterPair configures one recognizable frame shape.
type DelimiterPair struct {
	Start byte
	End   byte
	Type  FrameType
}

// Frame describes a complete frame located in a buffer, as an index range
// rather than a copy of the bytes.
type Frame struct {
	StartIndex int
	EndIndex   int
	Size       int
	Type       FrameType
}

// Detector scans a meterbuf.Buffer for frames matching its configured
// delimiter pairs. Not safe for concurrent use.
type Detector struct {
	pairs             []DelimiterPair
	interFrameTimeout time.Duration

	inProgress   bool
	startIndex   int
	activeEnd    byte
	activeType   FrameType
	frameCount   uint32
}

// DefaultInterFrameTimeout matches the superseded ESP32 firmware's 500ms default.
const DefaultInterFrameTimeout = 500 * time.Millisecond

// New creates a Detector configured with pairs. A zero timeout selects
// DefaultInterFrameTimeout.
func New(pairs []DelimiterPair, interFrameTimeout time.Duration) *Detector {
	if interFrameTimeout <= 0 {
		interFrameTimeout = DefaultInterFrameTimeout
	}
	return &Detector{pairs: pairs, interFrameTimeout: interFrameTimeout}
}

// SetDelimiters replaces the configured delimiter pairs and resets state.
func (d *Detector) SetDelimiters(pairs []DelimiterPair) {
	d.pairs = pairs
	d.Reset()
}

// Reset clears in-progress frame tracking. It does not affect FrameCount.
func (d *Detector) Reset() {
	d.inProgress = false
	d.startIndex = 0
	d.activeEnd = 0
	d.activeType = FrameTypeUnknown
}

// FrameCount returns the number of complete frames detected so far.
func (d *Detector) FrameCount() uint32 {
	return d.frameCount
}

// Detect scans buf for a complete frame. now is used both to expire a
// stalled in-progress frame against the buffer's last-byte time and has
// no other effect. Returns false if no complete frame is available yet.
func (d *Detector) Detect(buf *meterbuf.Buffer, now time.Time) (Frame, bool) {
	if d.inProgress && d.interFrameTimeout > 0 && now.Sub(buf.LastByteTime()) > d.interFrameTimeout {
		// Consume the stalled frame's start byte so the next search
		// cannot pick the same frame up again.
		buf.Advance((d.startIndex-buf.ReadIndex()+buf.Size())%buf.Size() + 1)
		d.Reset()
	}

	if !d.inProgress {
		if !d.findFrameStart(buf) {
			return Frame{}, false
		}
	}

	return d.extractFrame(buf)
}

// findFrameStart scans unread bytes for the first configured start
// delimiter, recording its ring position and the end delimiter to look
// for next.
func (d *Detector) findFrameStart(buf *meterbuf.Buffer) bool {
	if buf.Available() == 0 || len(d.pairs) == 0 {
		return false
	}

	used := buf.Available()
	for i := 0; i < used; i++ {
		current := buf.At(i)
		for _, pair := range d.pairs {
			if current == pair.Start {
				d.startIndex = (buf.ReadIndex() + i) % buf.Size()
				d.activeEnd = pair.End
				d.activeType = pair.Type
				d.inProgress = true
				return true
			}
		}
	}
	return false
}

// extractFrame searches from the recorded start position for the active
// end delimiter, wrapping around the ring as needed.
func (d *Detector) extractFrame(buf *meterbuf.Buffer) (Frame, bool) {
	if buf.Available() < 2 || !d.inProgress {
		return Frame{}, false
	}

	size := buf.Size()
	used := buf.Available()
	searchPos := d.startIndex

	for searched := 0; searched < used; searched++ {
		current := buf.AtAbsolute(searchPos)

		if current == d.activeEnd && searchPos != d.startIndex {
			var frameLen int
			if searchPos >= d.startIndex {
				frameLen = searchPos - d.startIndex + 1
			} else {
				frameLen = size - d.startIndex + searchPos + 1
			}

			if frameLen >= 2 {
				frame := Frame{
					StartIndex: d.startIndex,
					EndIndex:   searchPos,
					Size:       frameLen,
					Type:       d.activeType,
				}
				d.Reset()
				d.frameCount++
				// Consume everything up to and including the end byte; the
				// frame's bytes stay readable through AtAbsolute until
				// overwritten.
				buf.Advance((searchPos-buf.ReadIndex()+size)%size + 1)
				return frame, true
			}
		}

		searchPos = (searchPos + 1) % size
	}

	return Frame{}, false
}
