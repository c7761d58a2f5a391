package provisioning

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/radio"
	"github.com/srcful/zap-gateway/pkg/routes"
)

func writeFrame(t *testing.T, conn net.Conn, data []byte) {
	t.Helper()
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	_, err := conn.Write(lenBuf[:])
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)
}

func readFrame(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	var lenBuf [4]byte
	_, err := io.ReadFull(conn, lenBuf[:])
	require.NoError(t, err)
	n := binary.BigEndian.Uint32(lenBuf[:])
	data := make([]byte, n)
	_, err = io.ReadFull(conn, data)
	require.NoError(t, err)
	return data
}

func TestServiceRoutesRequestAndRespondsOverTransport(t *testing.T) {
	transport, err := radio.NewTCPLoopback("127.0.0.1:0")
	require.NoError(t, err)
	defer transport.Close()

	table := routes.NewTable(routes.Route{
		Verb: "POST",
		Path: "/api/echo",
		Handler: func(ctx context.Context, req routes.Request) routes.Response {
			return routes.Response{StatusCode: 200, Body: []byte(`{"echo":"` + string(req.Body) + `"}`)}
		},
	})

	svc := New(transport, table)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	conn, err := net.Dial("tcp", transport.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	raw := []byte("POST /api/echo EGWTTP/1.1\r\n\r\nhi")
	writeFrame(t, conn, raw)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp := readFrame(t, conn)
	s := string(resp)
	require.Contains(t, s, "EGWTP/1.1 200 OK")
	require.Contains(t, s, `{"echo":"hi"}`)
}

func TestServiceRespondsWithErrorOnMalformedRequest(t *testing.T) {
	transport, err := radio.NewTCPLoopback("127.0.0.1:0")
	require.NoError(t, err)
	defer transport.Close()

	svc := New(transport, routes.NewTable())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	conn, err := net.Dial("tcp", transport.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	writeFrame(t, conn, []byte("not a valid request"))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp := readFrame(t, conn)
	require.Contains(t, string(resp), "Invalid request format")
}
