package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
)

func loadMBusFrame(t *testing.T, raw []byte) (*meterbuf.Buffer, framedetect.Frame) {
	t.Helper()
	buf := meterbuf.New(256)
	now := time.Now()
	for _, b := range raw {
		buf.Add(b, now)
	}
	return buf, framedetect.Frame{StartIndex: 0, EndIndex: len(raw) - 1, Size: len(raw), Type: framedetect.FrameTypeMBus}
}

func buildValidMBusFrame() []byte {
	raw := make([]byte, 26)
	raw[0] = 0x68
	raw[1] = 20 // length
	raw[2] = 20
	raw[3] = 0x68
	raw[4] = 0x08 // C field
	raw[5] = 0x01 // A field
	raw[6] = 0x72 // CI field, variable data structure
	// identification block (8) + access/status/signature (3): all zero
	// DIF/VIF data record at offset 18: energy, 32-bit integer, 12345 Wh
	raw[18] = 0x04 // DIF: length code 4 (32-bit int)
	raw[19] = 0x13 // VIF: energy 10^0 Wh
	raw[20], raw[21], raw[22], raw[23] = 0x39, 0x30, 0x00, 0x00
	raw[24] = 0x00 // checksum, unchecked
	raw[25] = 0x16 // stop byte, unchecked
	return raw
}

func TestDecodeMBusExtractsEnergyValue(t *testing.T) {
	raw := buildValidMBusFrame()
	buf, frame := loadMBusFrame(t, raw)

	reading, err := DecodeMBus(buf, frame)
	require.NoError(t, err)
	require.Len(t, reading.Values, 1)
	require.Equal(t, "1-0:1.8.0", reading.Values[0].Code)
	require.Equal(t, "1-0:1.8.0(12.345*kWh)", reading.Values[0].Raw)
}

func TestDecodeMBusRejectsBadHeader(t *testing.T) {
	raw := buildValidMBusFrame()
	raw[3] = 0x00 // second start byte wrong
	buf, frame := loadMBusFrame(t, raw)

	_, err := DecodeMBus(buf, frame)
	require.ErrorIs(t, err, ErrMBusInvalidFrame)
}

func TestDecodeMBusRejectsUnsupportedCIField(t *testing.T) {
	raw := buildValidMBusFrame()
	raw[6] = 0x00
	buf, frame := loadMBusFrame(t, raw)

	_, err := DecodeMBus(buf, frame)
	require.ErrorIs(t, err, ErrMBusInvalidFrame)
}

func TestDecodeMBusRejectsFrameShorterThanHeader(t *testing.T) {
	buf, frame := loadMBusFrame(t, []byte{0x68, 0x01})
	_, err := DecodeMBus(buf, frame)
	require.ErrorIs(t, err, ErrMBusInvalidFrame)
}
