package decode

import (
	"errors"
	"strings"
	"time"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
	"github.com/srcful/zap-gateway/pkg/meterreading"
)

// MaxObisValues bounds how many OBIS data lines one ASCII telegram may
// contribute, mirroring the superseded ESP32 firmware's fixed P1Data array size.
const MaxObisValues = 36

// timestampPrefix is the OBIS code the P1 telegram uses for its own
// clock line, e.g. "0-0:1.0.0(250427132220W)".
const timestampPrefix = "0-0:1.0.0"

// ErrNoData is returned when a frame produced no usable line at all.
var ErrNoData = errors.New("decode: ascii frame contained no usable data")

// DecodeASCII extracts a meterreading.Reading from a P1 ASCII telegram
// frame, reading directly out of buf using frame's ring-relative bounds.
func DecodeASCII(buf *meterbuf.Buffer, frame framedetect.Frame) (meterreading.Reading, error) {
	reading := meterreading.Reading{Protocol: meterreading.ProtocolASCII}
	dataFound := false

	done := false
	var line strings.Builder
	flush := func() {
		if line.Len() == 0 {
			return
		}
		text := line.String()
		line.Reset()

		switch {
		case strings.HasPrefix(text, "/"):
			reading.DeviceID = strings.TrimPrefix(text, "/")
			dataFound = true
		case strings.HasPrefix(text, timestampPrefix):
			if ts, ok := parseASCIITimestamp(text); ok {
				reading.Timestamp = ts
				reading.HasTimestamp = true
				dataFound = true
			}
		case strings.HasPrefix(text, "!"):
			// checksum line marks end of telegram; nothing past it belongs
			// to this reading
			done = true
		case strings.Contains(text, "(") && strings.Contains(text, ":"):
			if len(reading.Values) < MaxObisValues {
				code, raw := splitObisLine(text)
				reading.AddValue(code, raw)
				dataFound = true
			}
		}
	}

	for i := 0; i < frame.Size && !done; i++ {
		b := buf.AtAbsolute((frame.StartIndex + i) % buf.Size())
		switch b {
		case '\r', '\n':
			flush()
		default:
			line.WriteByte(b)
		}
	}
	flush()

	if !dataFound {
		return reading, ErrNoData
	}
	return reading, nil
}

// splitObisLine separates an OBIS code from its parenthesized value,
// e.g. "1-0:1.8.0(00013139.107*kWh)" -> ("1-0:1.8.0", "1-0:1.8.0(00013139.107*kWh)").
// The raw line is kept whole since downstream consumers (the uplink task)
// forward it unparsed.
func splitObisLine(line string) (code, raw string) {
	if idx := strings.IndexByte(line, '('); idx >= 0 {
		return line[:idx], line
	}
	return line, line
}

// parseASCIITimestamp parses "0-0:1.0.0(YYMMDDhhmmssX)" lines. X is a W/S
// DST marker the superseded ESP32 firmware ignores beyond letting mktime pick a
// local offset; this implementation parses in time.Local for the same
// reason, and also ignores the marker's value.
func parseASCIITimestamp(line string) (time.Time, bool) {
	open := strings.IndexByte(line, '(')
	close := strings.IndexByte(line, ')')
	if open < 0 || close < 0 || close <= open {
		return time.Time{}, false
	}
	digits := line[open+1 : close]
	if len(digits) < 12 {
		return time.Time{}, false
	}
	digits = digits[:12]

	ts, err := time.ParseInLocation("060102150405", digits, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
