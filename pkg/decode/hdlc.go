package decode

import (
	"errors"
	"fmt"
	"time"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
	"github.com/srcful/zap-gateway/pkg/meterreading"
)

const (
	hdlcFrameFlag        = 0x7E
	hdlcDecoderStartOffs = 20
)

// DLMS/COSEM data type tags used by the subset of the wire format this
// decoder understands.
const (
	dataNull              = 0x00
	dataOctetString       = 0x09
	dataString            = 0x0A
	dataLongDoubleUnsigned = 0x06
	dataInteger           = 0x10
	dataUnsigned          = 0x11
	dataLongUnsigned      = 0x12
)

const obisCodeLen = 6

var (
	// ErrHDLCInvalidFrame covers malformed start/end flags or a frame
	// shorter than the decoder needs to even reach the payload.
	ErrHDLCInvalidFrame = errors.New("decode: invalid hdlc frame")
	// ErrHDLCInvalidFormat means the frame format field wasn't type-3.
	ErrHDLCInvalidFormat = errors.New("decode: hdlc frame is not a type-3 frame")
	// ErrHDLCInvalidLength means the header's declared length exceeds the
	// frame actually captured.
	ErrHDLCInvalidLength = errors.New("decode: hdlc frame length mismatch")
)

// frameByte fetches the byte at a frame-relative offset out of buf, given
// the frame's absolute ring start.
func frameByte(buf *meterbuf.Buffer, frame framedetect.Frame, offset int) byte {
	return buf.AtAbsolute((frame.StartIndex + offset) % buf.Size())
}

// DecodeHDLC decodes an HDLC-framed DLMS/COSEM payload (the wire format
// DSMR smart meters use over the P1 port's binary mode) into a
// meterreading.Reading.
func DecodeHDLC(buf *meterbuf.Buffer, frame framedetect.Frame) (meterreading.Reading, error) {
	reading := meterreading.Reading{Protocol: meterreading.ProtocolHDLC}

	if frame.Size < hdlcDecoderStartOffs {
		return reading, ErrHDLCInvalidFrame
	}
	if frameByte(buf, frame, 0) != hdlcFrameFlag || frameByte(buf, frame, frame.Size-1) != hdlcFrameFlag {
		return reading, ErrHDLCInvalidFrame
	}

	format := uint16(frameByte(buf, frame, 1))<<8 | uint16(frameByte(buf, frame, 2))
	if (format >> 12) != 0xA {
		return reading, ErrHDLCInvalidFormat
	}

	declaredLen := int(format & 0x07FF)
	if declaredLen > frame.Size {
		return reading, ErrHDLCInvalidLength
	}

	pos := 3
	// skip destination address, LSB-per-byte marks the last address byte
	for (frameByte(buf, frame, pos) & 0x01) == 0 {
		pos++
	}
	pos++
	// skip source address, same encoding
	for (frameByte(buf, frame, pos) & 0x01) == 0 {
		pos++
	}
	pos++

	// control field, HCS, and LLC header
	pos += 3 + 3

	dataFound := decodeDLMSPayload(buf, frame, pos, &reading)
	if !dataFound {
		return reading, ErrNoData
	}
	return reading, nil
}

// decodeDLMSPayload walks the COSEM payload starting at startPos looking
// for 6-byte OBIS code markers, decoding the value that follows each one
// it recognizes. It reports whether at least one value was decoded.
func decodeDLMSPayload(buf *meterbuf.Buffer, frame framedetect.Frame, startPos int, reading *meterreading.Reading) bool {
	dataFound := false
	pos := startPos

	for pos < frame.Size-10 {
		start := pos

		if frameByte(buf, frame, pos) == dataOctetString && frameByte(buf, frame, pos+1) == obisCodeLen {
			var obis [obisCodeLen]byte
			for i := 0; i < obisCodeLen; i++ {
				obis[i] = frameByte(buf, frame, pos+2+i)
			}
			pos += 2 + obisCodeLen

			if pos < frame.Size {
				dataType := frameByte(buf, frame, pos)
				pos++

				known, consumed := processObisValue(buf, frame, obis, pos, dataType, reading)
				pos += consumed
				if known {
					dataFound = true
				}
			}
		} else {
			pos++
		}

		if pos == start {
			pos++
		}
	}

	return dataFound
}

// processObisValue decodes the value following an OBIS code and, for
// recognized shapes, records it on reading. Returns whether the value was
// understood and how many payload bytes (after the type tag) it consumed.
func processObisValue(buf *meterbuf.Buffer, frame framedetect.Frame, obis [obisCodeLen]byte, pos int, dataType byte, reading *meterreading.Reading) (known bool, consumed int) {
	switch dataType {
	case dataInteger, dataUnsigned, dataLongUnsigned, dataLongDoubleUnsigned:
		size := dataTypeSize(dataType)
		if pos+size > frame.Size {
			return false, 0
		}
		value := extractNumericValue(buf, frame, pos, dataType)

		scale, unit, present, structConsumed := parseScaleUnitStructure(buf, frame, pos+size)
		if present {
			value = applyScale(value, scale, unit)
		}

		if obis[0] == 1 && obis[1] == 0 {
			code := fmt.Sprintf("1-0:%d.%d.0", obis[2], obis[3])
			raw := fmt.Sprintf("%s(%g*%s)", code, value, obisUnit(obis[2], obis[3]))
			reading.AddValue(code, raw)
			known = true
		}
		return known, size + structConsumed

	case dataOctetString:
		if pos >= frame.Size {
			return false, 0
		}
		length := int(frameByte(buf, frame, pos))
		pos++
		if pos+length > frame.Size {
			return false, 0
		}

		switch {
		case length == 12 && obis[0] == 0 && obis[1] == 0 && obis[2] == 1 && obis[3] == 0:
			if ts, ok := decodeHDLCTimestamp(buf, frame, pos); ok {
				reading.Timestamp = ts
				reading.HasTimestamp = true
				known = true
			}
		case obis[0] == 0 && obis[1] == 0 && obis[2] == 96 && obis[3] == 1:
			id := make([]byte, 0, length)
			for i := 0; i < length; i++ {
				b := frameByte(buf, frame, pos+i)
				if b == 0x00 {
					break
				}
				id = append(id, b)
			}
			reading.DeviceID = string(id)
			known = true
		}
		return known, 1 + length

	case dataString:
		return false, 0

	default:
		return false, 0
	}
}

// decodeHDLCTimestamp reads the 12-byte DLMS date-time octet string at
// pos. The wire format carries no reliable DST indicator in this layout,
// so unlike the ASCII decoder's W/S suffix this produces a plain UTC
// instant with no local-time adjustment.
func decodeHDLCTimestamp(buf *meterbuf.Buffer, frame framedetect.Frame, pos int) (time.Time, bool) {
	year := int(frameByte(buf, frame, pos))<<8 | int(frameByte(buf, frame, pos+1))
	month := int(frameByte(buf, frame, pos+2))
	day := int(frameByte(buf, frame, pos+3))
	hour := int(frameByte(buf, frame, pos+5))
	minute := int(frameByte(buf, frame, pos+6))
	second := int(frameByte(buf, frame, pos+7))

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), true
}

func dataTypeSize(dataType byte) int {
	switch dataType {
	case dataNull:
		return 0
	case dataUnsigned:
		return 1
	case dataInteger, dataLongUnsigned:
		return 2
	case dataLongDoubleUnsigned:
		return 4
	default:
		return 0
	}
}

var scaleFactors = [10]float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0, 100.0, 1000.0, 10000.0, 100000.0}

// dlmsUnitAmps and dlmsUnitVolts are the only COSEM unit codes that
// suppress the kilo-prefix special case in applyScale.
const (
	dlmsUnitAmps  = 0x21
	dlmsUnitVolts = 0x23
)

// extractNumericValue decodes the raw scalar at pos per dataType. The
// result is unscaled; callers apply the scale/unit structure that may
// follow via parseScaleUnitStructure and applyScale.
func extractNumericValue(buf *meterbuf.Buffer, frame framedetect.Frame, pos int, dataType byte) float64 {
	switch dataType {
	case dataInteger:
		v := int16(frameByte(buf, frame, pos))<<8 | int16(frameByte(buf, frame, pos+1))
		return float64(v)
	case dataUnsigned:
		return float64(frameByte(buf, frame, pos))
	case dataLongUnsigned:
		v := uint16(frameByte(buf, frame, pos))<<8 | uint16(frameByte(buf, frame, pos+1))
		return float64(v)
	case dataLongDoubleUnsigned:
		v := uint32(frameByte(buf, frame, pos))<<24 |
			uint32(frameByte(buf, frame, pos+1))<<16 |
			uint32(frameByte(buf, frame, pos+2))<<8 |
			uint32(frameByte(buf, frame, pos+3))
		return float64(v)
	default:
		return 0
	}
}

// parseScaleUnitStructure reads the optional structure that may follow a
// numeric value: tag 0x02, an element-count byte, then that many
// tag+value-byte pairs. Tag 0x0F carries a signed scale exponent, tag
// 0x16 an unsigned unit code; any other tag consumes one value byte and
// is otherwise ignored. Reports whether a structure was present at pos
// and how many bytes it occupied, so the caller can advance past it.
func parseScaleUnitStructure(buf *meterbuf.Buffer, frame framedetect.Frame, pos int) (scale int8, unit byte, present bool, consumed int) {
	if pos+1 >= frame.Size || frameByte(buf, frame, pos) != 0x02 {
		return 0, 0, false, 0
	}

	elements := int(frameByte(buf, frame, pos+1))
	p := pos + 2
	for i := 0; i < elements && p < frame.Size; i++ {
		tag := frameByte(buf, frame, p)
		p++
		if p >= frame.Size {
			break
		}
		switch tag {
		case 0x0F:
			scale = int8(frameByte(buf, frame, p))
		case 0x16:
			unit = frameByte(buf, frame, p)
		}
		p++
	}
	return scale, unit, true, p - pos
}

// applyScale multiplies raw by 10^scale using a fixed lookup table
// indexed by scale+4, clamped to the table's bounds. When scale is 0
// and the unit is neither current nor voltage, the register is assumed
// to already carry a kilo prefix and the -3 entry is used instead.
func applyScale(raw float64, scale int8, unit byte) float64 {
	if scale == 0 && unit != dlmsUnitAmps && unit != dlmsUnitVolts {
		scale = -3
	}
	idx := int(scale) + 4
	if idx < 0 {
		idx = 0
	}
	if idx > 9 {
		idx = 9
	}
	return raw * scaleFactors[idx]
}

// obisUnit maps a handful of well-known (C, D) pairs to their physical
// unit, mirroring the superseded ESP32 firmware's lookup table. Anything outside
// this set reports an empty unit rather than guessing.
func obisUnit(c, d byte) string {
	switch {
	case c == 1 && d == 8:
		return "kWh"
	case c == 2 && d == 8:
		return "kWh"
	case c == 1 && d == 7:
		return "kW"
	case c == 2 && d == 7:
		return "kW"
	case (c == 32 || c == 52 || c == 72) && d == 7:
		return "V"
	case (c == 31 || c == 51 || c == 71) && d == 7:
		return "A"
	default:
		return ""
	}
}
