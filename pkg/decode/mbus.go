package decode

import (
	"errors"
	"fmt"
	"math"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
	"github.com/srcful/zap-gateway/pkg/meterreading"
)

// ErrMBusInvalidFrame covers a frame that fails the 0x68-len-len-0x68
// variable-frame header check or doesn't carry a recognized CI field.
var ErrMBusInvalidFrame = errors.New("decode: invalid m-bus frame")

const (
	mbusStart        = 0x68
	mbusCIVariableV1 = 0x72
	mbusCIVariableV2 = 0x76
)

// maxMBusRecords bounds how many data records one frame may contribute,
// a safety limit against malformed frames driving an unbounded loop.
const maxMBusRecords = 20

// DecodeMBus decodes a variable-length M-Bus data frame (start-length-
// length-start header, CI field 0x72/0x76) into a meterreading.Reading.
func DecodeMBus(buf *meterbuf.Buffer, frame framedetect.Frame) (meterreading.Reading, error) {
	reading := meterreading.Reading{Protocol: meterreading.ProtocolMBus}

	if frame.Size < 6 {
		return reading, ErrMBusInvalidFrame
	}

	fb := func(offset int) byte { return frameByte(buf, frame, offset) }

	if fb(0) != mbusStart {
		return reading, ErrMBusInvalidFrame
	}
	length := int(fb(1))
	if fb(2) != byte(length) || fb(3) != mbusStart {
		return reading, ErrMBusInvalidFrame
	}

	expectedSize := 4 + length + 2
	if frame.Size < expectedSize {
		return reading, ErrMBusInvalidFrame
	}

	ci := fb(6)
	if ci != mbusCIVariableV1 && ci != mbusCIVariableV2 {
		return reading, ErrMBusInvalidFrame
	}

	pos := 7
	dataEnd := 4 + length

	// Skip the fixed identification block: ID (4) + manufacturer (2) +
	// version (1) + device type (1), then access number + status +
	// signature (3 more).
	if pos+11 > dataEnd {
		return reading, ErrMBusInvalidFrame
	}
	pos += 8 + 3

	// The identification block's exact layout varies by manufacturer;
	// resynchronize onto the first byte pair that looks like a genuine
	// DIF/VIF data-record header rather than trailing padding. This
	// heuristic only tries a handful of times before giving up and
	// decoding from wherever it landed.
	for attempts := 0; pos < dataEnd-4 && attempts < 5; attempts++ {
		dif := fb(pos)
		vif := fb(pos + 1)
		dataLen := dif & 0x0F
		validLen := dataLen >= 0x01 && dataLen <= 0x07
		commonVIF := vif == 0x13 || vif == 0x2B || vif == 0x03 || vif == 0x23
		if validLen && commonVIF {
			break
		}
		pos++
	}

	recordCount := 0
	for pos < dataEnd-2 && recordCount < maxMBusRecords {
		recordCount++

		if pos+2 > dataEnd {
			break
		}

		dif := fb(pos)
		pos++
		if dif == 0x0F || dif == 0x1F {
			break // manufacturer-specific trailer, nothing more to parse
		}
		for (dif&0x80) != 0 && pos < dataEnd {
			dif = fb(pos)
			pos++
		}

		if pos >= dataEnd {
			break
		}
		vif := fb(pos)
		pos++
		for (vif&0x80) != 0 && pos < dataEnd {
			vif = fb(pos)
			pos++
		}

		valueLen, ok := mbusValueLength(dif & 0x0F, &pos, dataEnd, fb)
		if !ok {
			continue
		}
		if pos+valueLen > dataEnd {
			break
		}

		if valueLen > 0 && valueLen <= 8 {
			raw := uint64(0)
			for i := 0; i < valueLen; i++ {
				raw |= uint64(fb(pos+i)) << (uint(i) * 8)
			}

			if code, obisRaw, ok := mbusDecodeRecord(dif, vif, raw, dif&0x0F); ok {
				reading.AddValue(code, obisRaw)
			}
		}

		pos += valueLen
	}

	if recordCount == 0 {
		return reading, ErrNoData
	}
	return reading, nil
}

// mbusValueLength resolves the byte length of a data record's value from
// its DIF length code. A variable-length code (0x0D) consumes one extra
// length-prefix byte from the stream, advancing pos.
func mbusValueLength(code byte, pos *int, dataEnd int, fb func(int) byte) (int, bool) {
	switch code {
	case 0x00:
		return 0, true
	case 0x01:
		return 1, true
	case 0x02:
		return 2, true
	case 0x03:
		return 3, true
	case 0x04:
		return 4, true
	case 0x05:
		return 4, true
	case 0x06:
		return 6, true
	case 0x07:
		return 8, true
	case 0x09:
		return 2, true
	case 0x0A:
		return 3, true
	case 0x0B:
		return 4, true
	case 0x0C:
		return 6, true
	case 0x0D:
		if *pos < dataEnd {
			n := int(fb(*pos))
			*pos++
			return n, true
		}
		return 0, false
	default:
		*pos += 2
		return 0, false
	}
}

// mbusDecodeRecord converts a raw little-endian record value into a
// scaled physical value and maps it to the OBIS code the rest of the
// pipeline expects, following the superseded ESP32 firmware's VIF table for
// energy (0x00-0x07, 0x13) and power (0x20-0x2F, 0x2B).
func mbusDecodeRecord(dif, vif byte, raw uint64, lengthCode byte) (code string, obisRaw string, ok bool) {
	var value float64
	switch {
	case lengthCode <= 0x04:
		value = float64(raw)
	case lengthCode == 0x05:
		bits := uint32(raw)
		value = float64(math.Float32frombits(bits))
		if math.IsNaN(value) || value > 1e10 || value < -1e10 {
			return "", "", false
		}
	default:
		value = float64(raw)
	}

	if value < 0 {
		return "", "", false
	}

	storageNum := (dif >> 4) & 0x0F

	var scaled float64
	var unit string
	var obisC, obisD byte

	switch {
	case vif == 0x13:
		scaled = value / 1000.0
		unit = "kWh"
		obisC, obisD = 1, 8

	case vif == 0x2B:
		scaled = value / 1000.0
		unit = "kW"
		if storageNum == 0 {
			obisC, obisD = 16, 7
		} else {
			obisC, obisD = 1, 6
		}

	case (vif & 0x78) == 0x00:
		exp := int(vif&0x07) - 3
		scaled = applyDecimalExponent(value, exp) / 1000.0
		unit = "kWh"
		obisC, obisD = 1, 8

	case (vif & 0x70) == 0x20:
		exp := int(vif&0x07) - 3
		scaled = applyDecimalExponent(value, exp) / 1000.0
		unit = "kW"
		if storageNum == 0 {
			obisC, obisD = 16, 7
		} else {
			obisC, obisD = 1, 6
		}

	default:
		return "", "", false
	}

	if scaled < 0 || scaled >= 1e6 {
		return "", "", false
	}

	code = fmt.Sprintf("1-0:%d.%d.0", obisC, obisD)
	obisRaw = fmt.Sprintf("%s(%g*%s)", code, scaled, unit)
	return code, obisRaw, true
}

func applyDecimalExponent(value float64, exp int) float64 {
	for i := 0; i < exp; i++ {
		value *= 10.0
	}
	for i := 0; i < -exp; i++ {
		value /= 10.0
	}
	return value
}
