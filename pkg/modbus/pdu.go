package modbus

import (
	"encoding/binary"
	"fmt"
)

// Function codes this proxy supports.
const (
	FuncReadHoldingRegisters byte = 3
	FuncReadInputRegisters   byte = 4
	FuncWriteMultiRegisters  byte = 16
)

// exceptionBit marks a function code in an exception response, per the
// Modbus application protocol.
const exceptionBit byte = 0x80

// mbapHeaderLen is the 7-byte MBAP header: transaction id (2), protocol
// id (2), length (2), unit id (1).
const mbapHeaderLen = 7

// encodeReadRequest builds a Read Holding/Input Registers request ADU.
func encodeReadRequest(transactionID uint16, unitID byte, functionCode byte, start, quantity uint16) []byte {
	pdu := make([]byte, 5)
	pdu[0] = functionCode
	binary.BigEndian.PutUint16(pdu[1:3], start)
	binary.BigEndian.PutUint16(pdu[3:5], quantity)
	return wrapMBAP(transactionID, unitID, pdu)
}

// encodeWriteRequest builds a Write Multiple Registers request ADU.
func encodeWriteRequest(transactionID uint16, unitID byte, start uint16, values []uint16) []byte {
	byteCount := len(values) * 2
	pdu := make([]byte, 6+byteCount)
	pdu[0] = FuncWriteMultiRegisters
	binary.BigEndian.PutUint16(pdu[1:3], start)
	binary.BigEndian.PutUint16(pdu[3:5], uint16(len(values)))
	pdu[5] = byte(byteCount)
	for i, v := range values {
		binary.BigEndian.PutUint16(pdu[6+2*i:8+2*i], v)
	}
	return wrapMBAP(transactionID, unitID, pdu)
}

func wrapMBAP(transactionID uint16, unitID byte, pdu []byte) []byte {
	adu := make([]byte, mbapHeaderLen+len(pdu))
	binary.BigEndian.PutUint16(adu[0:2], transactionID)
	binary.BigEndian.PutUint16(adu[2:4], 0) // protocol id is always 0 for Modbus TCP
	binary.BigEndian.PutUint16(adu[4:6], uint16(1+len(pdu)))
	adu[6] = unitID
	copy(adu[7:], pdu)
	return adu
}

// decodeReadResponse validates a Read Holding/Input Registers response
// ADU against the request it answers and returns the registers it
// carries.
func decodeReadResponse(adu []byte, wantTransactionID uint16, wantFunctionCode byte) ([]uint16, error) {
	pdu, err := unwrapMBAP(adu, wantTransactionID)
	if err != nil {
		return nil, err
	}
	if err := checkException(pdu, wantFunctionCode); err != nil {
		return nil, err
	}

	if len(pdu) < 2 {
		return nil, fmt.Errorf("modbus: response PDU too short")
	}
	byteCount := int(pdu[1])
	if len(pdu) < 2+byteCount || byteCount%2 != 0 {
		return nil, fmt.Errorf("modbus: response byte count %d inconsistent with payload", byteCount)
	}

	registers := make([]uint16, byteCount/2)
	for i := range registers {
		registers[i] = binary.BigEndian.Uint16(pdu[2+2*i : 4+2*i])
	}
	return registers, nil
}

// decodeWriteResponse validates a Write Multiple Registers response ADU
// and returns the register count it echoes back.
func decodeWriteResponse(adu []byte, wantTransactionID uint16) (int, error) {
	pdu, err := unwrapMBAP(adu, wantTransactionID)
	if err != nil {
		return 0, err
	}
	if err := checkException(pdu, FuncWriteMultiRegisters); err != nil {
		return 0, err
	}
	if len(pdu) < 5 {
		return 0, fmt.Errorf("modbus: write response PDU too short")
	}
	return int(binary.BigEndian.Uint16(pdu[3:5])), nil
}

func unwrapMBAP(adu []byte, wantTransactionID uint16) ([]byte, error) {
	if len(adu) < mbapHeaderLen+1 {
		return nil, fmt.Errorf("modbus: response too short (%d bytes)", len(adu))
	}
	transactionID := binary.BigEndian.Uint16(adu[0:2])
	if transactionID != wantTransactionID {
		return nil, fmt.Errorf("modbus: transaction id mismatch: got %d want %d", transactionID, wantTransactionID)
	}
	protocolID := binary.BigEndian.Uint16(adu[2:4])
	if protocolID != 0 {
		return nil, fmt.Errorf("modbus: unexpected protocol id %d", protocolID)
	}
	length := binary.BigEndian.Uint16(adu[4:6])
	if int(length) != len(adu)-6 {
		return nil, fmt.Errorf("modbus: length field %d doesn't match frame size", length)
	}
	return adu[7:], nil
}

func checkException(pdu []byte, wantFunctionCode byte) error {
	if len(pdu) == 0 {
		return fmt.Errorf("modbus: empty response PDU")
	}
	if pdu[0] == wantFunctionCode|exceptionBit {
		code := byte(0)
		if len(pdu) > 1 {
			code = pdu[1]
		}
		return fmt.Errorf("modbus: device returned exception code %d", code)
	}
	if pdu[0] != wantFunctionCode {
		return fmt.Errorf("modbus: unexpected function code %d in response (wanted %d)", pdu[0], wantFunctionCode)
	}
	return nil
}
