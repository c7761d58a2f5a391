package modbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeReadRoundTrips(t *testing.T) {
	req := encodeReadRequest(7, 1, FuncReadHoldingRegisters, 100, 3)
	require.Equal(t, []byte{0, 7, 0, 0, 0, 6, 1, 3, 0, 100, 0, 3}, req)

	resp := wrapMBAP(7, 1, []byte{FuncReadHoldingRegisters, 6, 0, 10, 0, 20, 0, 30})
	registers, err := decodeReadResponse(resp, 7, FuncReadHoldingRegisters)
	require.NoError(t, err)
	require.Equal(t, []uint16{10, 20, 30}, registers)
}

func TestEncodeDecodeWriteRoundTrips(t *testing.T) {
	req := encodeWriteRequest(9, 1, 200, []uint16{1, 2})
	require.Equal(t, []byte{0, 9, 0, 0, 0, 11, 1, 16, 0, 200, 0, 2, 4, 0, 1, 0, 2}, req)

	resp := wrapMBAP(9, 1, []byte{FuncWriteMultiRegisters, 0, 200, 0, 2})
	written, err := decodeWriteResponse(resp, 9)
	require.NoError(t, err)
	require.Equal(t, 2, written)
}

func TestDecodeReadResponseRejectsTransactionMismatch(t *testing.T) {
	resp := wrapMBAP(5, 1, []byte{FuncReadHoldingRegisters, 2, 0, 1})
	_, err := decodeReadResponse(resp, 6, FuncReadHoldingRegisters)
	require.Error(t, err)
}

func TestDecodeReadResponseSurfacesException(t *testing.T) {
	resp := wrapMBAP(1, 1, []byte{FuncReadHoldingRegisters | exceptionBit, 0x02})
	_, err := decodeReadResponse(resp, 1, FuncReadHoldingRegisters)
	require.ErrorContains(t, err, "exception code 2")
}

func TestDecodeReadResponseRejectsInconsistentByteCount(t *testing.T) {
	resp := wrapMBAP(2, 1, []byte{FuncReadHoldingRegisters, 4, 0, 1})
	_, err := decodeReadResponse(resp, 2, FuncReadHoldingRegisters)
	require.Error(t, err)
}

func TestUnwrapMBAPRejectsShortFrame(t *testing.T) {
	_, err := unwrapMBAP([]byte{0, 1, 0, 0}, 1)
	require.Error(t, err)
}

func TestUnwrapMBAPRejectsNonZeroProtocolID(t *testing.T) {
	adu := wrapMBAP(1, 1, []byte{FuncReadHoldingRegisters, 2, 0, 1})
	adu[3] = 1
	_, err := unwrapMBAP(adu, 1)
	require.ErrorContains(t, err, "protocol id")
}
