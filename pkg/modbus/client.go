package modbus

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/routes"
)

var tag = gwlog.NewTag("modbus", gwlog.LevelInfo)

// dialTimeout bounds how long Execute waits to establish the TCP
// connection to the downstream device.
const dialTimeout = 5 * time.Second

// Client proxies one Modbus TCP request at a time to a downstream
// meter or relay, with plain ADU framing over net.Conn.
type Client struct {
	dialer  net.Dialer
	nextTxn uint32
}

// NewClient returns a ready-to-use Client.
func NewClient() *Client {
	return &Client{dialer: net.Dialer{Timeout: dialTimeout}}
}

// Execute satisfies routes.ModbusProxy: it dials req.IP:req.Port, sends
// the read or write request req describes, and decodes the response.
func (c *Client) Execute(ctx context.Context, req routes.ModbusRequest) (routes.ModbusResponse, error) {
	if !req.Valid() {
		return routes.ModbusResponse{}, fmt.Errorf("modbus: invalid request")
	}

	addr := fmt.Sprintf("%s:%d", req.IP, req.Port)
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, err := c.dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return routes.ModbusResponse{}, fmt.Errorf("modbus: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(dialTimeout))
	}

	txn := uint16(atomic.AddUint32(&c.nextTxn, 1))
	unitID := byte(req.SlaveID)

	switch byte(req.FunctionCode) {
	case FuncReadHoldingRegisters, FuncReadInputRegisters:
		fc := byte(req.FunctionCode)
		out := encodeReadRequest(txn, unitID, fc, uint16(req.StartRegister), uint16(req.NumRegisters))
		if err := writeFrame(conn, out); err != nil {
			return routes.ModbusResponse{}, err
		}
		adu, err := readFrame(conn)
		if err != nil {
			return routes.ModbusResponse{}, err
		}
		registers, err := decodeReadResponse(adu, txn, fc)
		if err != nil {
			gwlog.Warnf(tag, "read from %s failed: %v", addr, err)
			return routes.ModbusResponse{}, err
		}
		return routes.ModbusResponse{Registers: registers}, nil

	case FuncWriteMultiRegisters:
		out := encodeWriteRequest(txn, unitID, uint16(req.StartRegister), req.Values)
		if err := writeFrame(conn, out); err != nil {
			return routes.ModbusResponse{}, err
		}
		adu, err := readFrame(conn)
		if err != nil {
			return routes.ModbusResponse{}, err
		}
		written, err := decodeWriteResponse(adu, txn)
		if err != nil {
			gwlog.Warnf(tag, "write to %s failed: %v", addr, err)
			return routes.ModbusResponse{}, err
		}
		return routes.ModbusResponse{Written: written}, nil

	default:
		return routes.ModbusResponse{}, fmt.Errorf("modbus: unsupported function code %d", req.FunctionCode)
	}
}

func writeFrame(conn net.Conn, adu []byte) error {
	if _, err := conn.Write(adu); err != nil {
		return fmt.Errorf("modbus: write request: %w", err)
	}
	return nil
}

// readFrame reads one MBAP header, then the rest of the ADU the
// header's length field promises.
func readFrame(conn net.Conn) ([]byte, error) {
	header := make([]byte, mbapHeaderLen)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, fmt.Errorf("modbus: read response header: %w", err)
	}
	length := int(header[4])<<8 | int(header[5])
	if length < 1 || length > 253 {
		return nil, fmt.Errorf("modbus: response length field %d out of range", length)
	}
	rest := make([]byte, length-1)
	if _, err := io.ReadFull(conn, rest); err != nil {
		return nil, fmt.Errorf("modbus: read response body: %w", err)
	}
	return append(header, rest...), nil
}

var _ routes.ModbusProxy = (*Client)(nil)
