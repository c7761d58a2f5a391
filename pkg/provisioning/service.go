package provisioning

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/radio"
	"github.com/srcful/zap-gateway/pkg/routes"
)

var tag = gwlog.NewTag("provisioning", gwlog.LevelInfo)

// InboundCapacity bounds how many not-yet-processed requests the
// service holds at once; a request arriving when the queue is full is
// dropped and logged, mirroring enqueueRequest's full-queue behavior.
const InboundCapacity = 5

// maxFrameSize caps one length-prefixed frame, matching MaxPacketSize.
const maxFrameSize = MaxPacketSize

type pendingRequest struct {
	conn net.Conn
	data []byte
}

// Service accepts provisioning connections, decodes EGWTTP requests,
// routes them through a routes.Table, and writes back EGWTTP responses.
type Service struct {
	transport radio.Transport
	table     *routes.Table
	inbound   chan pendingRequest
	stopped   atomic.Bool
}

// New builds a Service reading connections from transport and
// dispatching requests against table.
func New(transport radio.Transport, table *routes.Table) *Service {
	return &Service{transport: transport, table: table, inbound: make(chan pendingRequest, InboundCapacity)}
}

// Run accepts connections and processes requests until ctx is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.acceptLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.inbound:
			s.handle(ctx, req)
		}
	}
}

func (s *Service) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.transport.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || s.stopped.Load() {
				return
			}
			gwlog.Warnf(tag, "accept failed: %v", err)
			continue
		}
		go s.readConn(ctx, conn)
	}
}

// Stop closes the underlying transport, ending the accept loop, the Go
// rendering of the superseded firmware's BLE shutdown timer tearing down the
// characteristic server once a BleDisconnect action fires.
func (s *Service) Stop() error {
	s.stopped.Store(true)
	return s.transport.Close()
}

// readConn reads length-prefixed frames off conn, standing in for one
// BLE characteristic write per request: a stream transport has no
// built-in message boundaries, so each frame is prefixed with a 4-byte
// big-endian length.
func (s *Service) readConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
			return
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		if n == 0 || n > maxFrameSize {
			gwlog.Warnf(tag, "rejecting frame of size %d", n)
			return
		}

		data := make([]byte, n)
		if _, err := io.ReadFull(conn, data); err != nil {
			return
		}

		select {
		case s.inbound <- pendingRequest{conn: conn, data: data}:
		default:
			gwlog.Warnf(tag, "dropping request: queue full")
		}
	}
}

func (s *Service) handle(ctx context.Context, pending pendingRequest) {
	req, err := ParseRequest(pending.data)
	if err != nil {
		gwlog.Warnf(tag, "failed to parse request: %v", err)
		s.respond(pending.conn, "", "", []byte(`{"status":"error","message":"Invalid request format"}`), 0)
		return
	}

	reqID := uuid.New().String()
	gwlog.Infof(tag, "request id=%s method=%s path=%s offset=%d", reqID, req.Method, req.Path, req.Offset)

	resp := s.table.Route(ctx, routes.Request{Path: req.Path, Verb: req.Method, Body: req.Content})
	gwlog.Infof(tag, "request id=%s completed status=%d", reqID, resp.StatusCode)
	s.respond(pending.conn, req.Path, req.Method, resp.Body, req.Offset)
}

func (s *Service) respond(conn net.Conn, location, method string, data []byte, offset int) {
	response := BuildResponse(location, method, data, offset)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(response)))

	if _, err := conn.Write(lenBuf[:]); err != nil {
		gwlog.Warnf(tag, "failed to write response length: %v", err)
		return
	}
	if _, err := conn.Write(response); err != nil {
		gwlog.Warnf(tag, "failed to write response: %v", err)
	}
}
