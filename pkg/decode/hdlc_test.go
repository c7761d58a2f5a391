package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
)

func loadHDLCFrame(t *testing.T, raw []byte) (*meterbuf.Buffer, framedetect.Frame) {
	t.Helper()
	buf := meterbuf.New(256)
	now := time.Now()
	for _, b := range raw {
		buf.Add(b, now)
	}
	return buf, framedetect.Frame{StartIndex: 0, EndIndex: len(raw) - 1, Size: len(raw), Type: framedetect.FrameTypeHDLC}
}

func buildValidHDLCFrame() []byte {
	return []byte{
		0x7E,             // 0: start flag
		0xA0, 0x27,       // 1-2: type-3 format, length=39
		0x03,             // 3: dest address, LSB set
		0x03,             // 4: src address, LSB set
		0x00, 0x00, 0x00, // 5-7: control + HCS
		0x00, 0x00, 0x00, // 8-10: LLC
		0x09, 0x06, 1, 0, 1, 8, 0, 255, // 11-18: OBIS marker + 1-0:1.8.0*255
		0x06,                   // 19: data type long-double-unsigned
		0x00, 0x00, 0x01, 0x2C, // 20-23: value 300
		0x09, 0x06, 0, 0, 96, 1, 0, 255, // 24-31: OBIS marker + 0-0:96.1.0*255 (device id)
		0x09,                   // 32: data type octet string
		4,                      // 33: length
		'A', 'B', '1', '2',    // 34-37: device id bytes
		0x7E, // 38: end flag
	}
}

func TestDecodeHDLCExtractsNumericValueAndDeviceID(t *testing.T) {
	raw := buildValidHDLCFrame()
	buf, frame := loadHDLCFrame(t, raw)

	reading, err := DecodeHDLC(buf, frame)
	require.NoError(t, err)
	require.Equal(t, "AB12", reading.DeviceID)
	require.Len(t, reading.Values, 1)
	require.Equal(t, "1-0:1.8.0", reading.Values[0].Code)
	require.Equal(t, "1-0:1.8.0(300*kWh)", reading.Values[0].Raw)
}

func TestDecodeHDLCAppliesScaleFactorFromTrailingStructure(t *testing.T) {
	raw := []byte{
		0x7E,             // 0: start flag
		0xA0, 0x2D,       // 1-2: type-3 format, length=45
		0x03,             // 3: dest address, LSB set
		0x03,             // 4: src address, LSB set
		0x00, 0x00, 0x00, // 5-7: control + HCS
		0x00, 0x00, 0x00, // 8-10: LLC
		0x09, 0x06, 1, 0, 1, 8, 0, 255, // 11-18: OBIS marker + 1-0:1.8.0*255
		0x06,                   // 19: data type long-double-unsigned
		0x00, 0x00, 0x32, 0x89, // 20-23: raw value 12937
		0x02, 2, // 24-25: structure tag, 2 elements
		0x0F, 0xFD, // 26-27: scale tag, scale = -3
		0x16, 0x1E, // 28-29: unit tag, unit byte (not amps/volts, irrelevant since scale != 0)
		0x09, 0x06, 0, 0, 96, 1, 0, 255, // 30-37: OBIS marker + 0-0:96.1.0*255 (device id)
		0x09,                // 38: data type octet string
		4,                   // 39: length
		'A', 'B', '1', '2', // 40-43: device id bytes
		0x7E, // 44: end flag
	}
	buf, frame := loadHDLCFrame(t, raw)

	reading, err := DecodeHDLC(buf, frame)
	require.NoError(t, err)
	require.Len(t, reading.Values, 1)
	require.Equal(t, "1-0:1.8.0", reading.Values[0].Code)
	require.Equal(t, "1-0:1.8.0(12.937*kWh)", reading.Values[0].Raw)
}

func TestExtractNumericValueDataUnsignedReadsOneByte(t *testing.T) {
	buf := meterbuf.New(32)
	now := time.Now()
	for _, b := range []byte{0xFF, 0x00} {
		buf.Add(b, now)
	}
	frame := framedetect.Frame{StartIndex: 0, Size: 2}

	v := extractNumericValue(buf, frame, 0, dataUnsigned)
	require.Equal(t, float64(0xFF), v)
}

func TestExtractNumericValueDataLongUnsignedIsUnsigned(t *testing.T) {
	buf := meterbuf.New(32)
	now := time.Now()
	for _, b := range []byte{0xFF, 0xFF} {
		buf.Add(b, now)
	}
	frame := framedetect.Frame{StartIndex: 0, Size: 2}

	v := extractNumericValue(buf, frame, 0, dataLongUnsigned)
	require.Equal(t, float64(65535), v)
}

func TestDecodeHDLCRejectsBadFlags(t *testing.T) {
	raw := buildValidHDLCFrame()
	raw[0] = 0x00
	buf, frame := loadHDLCFrame(t, raw)

	_, err := DecodeHDLC(buf, frame)
	require.ErrorIs(t, err, ErrHDLCInvalidFrame)
}

func TestDecodeHDLCRejectsNonType3Format(t *testing.T) {
	raw := buildValidHDLCFrame()
	raw[1] = 0x10 // top nibble 0x1, not 0xA
	buf, frame := loadHDLCFrame(t, raw)

	_, err := DecodeHDLC(buf, frame)
	require.ErrorIs(t, err, ErrHDLCInvalidFormat)
}

func TestDecodeHDLCRejectsOversizedDeclaredLength(t *testing.T) {
	raw := buildValidHDLCFrame()
	raw[1], raw[2] = 0xAF, 0xFF // length = 0x7FF, far bigger than the frame
	buf, frame := loadHDLCFrame(t, raw)

	_, err := DecodeHDLC(buf, frame)
	require.ErrorIs(t, err, ErrHDLCInvalidLength)
}

func TestDecodeHDLCTimestampRejectsZeroMonthAndDay(t *testing.T) {
	ts, ok := decodeHDLCTimestamp(meterbuf.New(32), framedetect.Frame{}, 0)
	require.False(t, ok) // month/day are 0 in an empty buffer, rejected
	require.True(t, ts.IsZero())
}

func TestDecodeHDLCTimestampParsesUTCInstant(t *testing.T) {
	buf := meterbuf.New(32)
	now := time.Now()
	payload := []byte{0x07, 0xE9, 4, 27, 0, 13, 22, 20, 0, 0, 0, 0} // year 2025 (0x07E9), Apr 27, 13:22:20
	for _, b := range payload {
		buf.Add(b, now)
	}
	frame := framedetect.Frame{StartIndex: 0, Size: len(payload)}

	ts, ok := decodeHDLCTimestamp(buf, frame, 0)
	require.True(t, ok)
	require.Equal(t, 2025, ts.Year())
	require.Equal(t, time.April, ts.Month())
	require.Equal(t, 27, ts.Day())
	require.Equal(t, 13, ts.Hour())
	require.Equal(t, time.UTC, ts.Location())
}
