package modbus

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/routes"
)

// fakeSlave accepts one connection, echoes back a response built from a
// canned ADU or computed from the request it receives.
func fakeSlave(t *testing.T, handle func(reqADU []byte) []byte) (host string, port int, done chan struct{}) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done = make(chan struct{})
	go func() {
		defer close(done)
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		header := make([]byte, mbapHeaderLen)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		length := int(header[4])<<8 | int(header[5])
		rest := make([]byte, length-1)
		if _, err := io.ReadFull(conn, rest); err != nil {
			return
		}
		reqADU := append(header, rest...)

		respADU := handle(reqADU)
		_, _ = conn.Write(respADU)
	}()

	addr := ln.Addr().String()
	hostPart, portPart, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	p, err := strconv.Atoi(portPart)
	require.NoError(t, err)
	return hostPart, p, done
}

func transactionIDOf(adu []byte) uint16 {
	return uint16(adu[0])<<8 | uint16(adu[1])
}

func TestClientExecuteReadHoldingRegisters(t *testing.T) {
	host, port, done := fakeSlave(t, func(reqADU []byte) []byte {
		txn := transactionIDOf(reqADU)
		return wrapMBAP(txn, 1, []byte{FuncReadHoldingRegisters, 4, 0, 11, 0, 22})
	})

	c := NewClient()
	resp, err := c.Execute(context.Background(), routes.ModbusRequest{
		IP:            host,
		Port:          port,
		SlaveID:       1,
		StartRegister: 0,
		NumRegisters:  2,
		FunctionCode:  3,
	})
	require.NoError(t, err)
	require.Equal(t, []uint16{11, 22}, resp.Registers)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fake slave did not finish")
	}
}

func TestClientExecuteWriteMultipleRegisters(t *testing.T) {
	host, port, done := fakeSlave(t, func(reqADU []byte) []byte {
		txn := transactionIDOf(reqADU)
		return wrapMBAP(txn, 1, []byte{FuncWriteMultiRegisters, 0, 5, 0, 2})
	})

	c := NewClient()
	resp, err := c.Execute(context.Background(), routes.ModbusRequest{
		IP:            host,
		Port:          port,
		SlaveID:       1,
		StartRegister: 5,
		NumRegisters:  2,
		FunctionCode:  16,
		Values:        []uint16{7, 8},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Written)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fake slave did not finish")
	}
}

func TestClientExecuteRejectsInvalidRequest(t *testing.T) {
	c := NewClient()
	_, err := c.Execute(context.Background(), routes.ModbusRequest{FunctionCode: 99})
	require.Error(t, err)
}

func TestClientExecuteSurfacesDialError(t *testing.T) {
	c := NewClient()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := c.Execute(ctx, routes.ModbusRequest{
		IP:            "127.0.0.1",
		Port:          1, // nothing listens here
		SlaveID:       1,
		StartRegister: 0,
		NumRegisters:  1,
		FunctionCode:  3,
	})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "dial") || strings.Contains(err.Error(), "read"))
}
