package radio

import (
	"context"
	"net"
)

// Transport accepts short-packet wireless connections from a
// provisioning client. Accept blocks until a client connects or ctx is
// canceled.
type Transport interface {
	Accept(ctx context.Context) (net.Conn, error)
	Close() error
}

// TCPLoopback is a Transport backed by a TCP listener on localhost,
// used in place of BLE on hardware that has no short-range radio.
type TCPLoopback struct {
	listener net.Listener
}

// NewTCPLoopback starts listening on addr (e.g. "127.0.0.1:0") and
// returns a Transport wrapping it.
func NewTCPLoopback(addr string) (*TCPLoopback, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPLoopback{listener: l}, nil
}

// Addr returns the address the loopback listener is bound to.
func (t *TCPLoopback) Addr() net.Addr {
	return t.listener.Addr()
}

// Accept waits for the next connection, or returns ctx.Err() if ctx is
// canceled first.
func (t *TCPLoopback) Accept(ctx context.Context) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := t.listener.Accept()
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.conn, r.err
	}
}

// Close stops accepting new connections.
func (t *TCPLoopback) Close() error {
	return t.listener.Close()
}

var _ Transport = (*TCPLoopback)(nil)
