package provisioning

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequestExtractsMethodPathOffsetAndContent(t *testing.T) {
	raw := []byte("POST /api/wifi EGWTTP/1.1\r\nOffset: 0\r\n\r\n{\"ssid\":\"home\"}")
	req, err := ParseRequest(raw)
	require.NoError(t, err)
	require.Equal(t, "POST", req.Method)
	require.Equal(t, "/api/wifi", req.Path)
	require.Equal(t, 0, req.Offset)
	require.Equal(t, `{"ssid":"home"}`, string(req.Content))
}

func TestParseRequestReadsNonZeroOffset(t *testing.T) {
	raw := []byte("GET /api/system EGWTTP/1.1\r\nOffset: 128\r\n\r\n")
	req, err := ParseRequest(raw)
	require.NoError(t, err)
	require.Equal(t, 128, req.Offset)
}

func TestParseRequestRejectsMissingHeaderTerminator(t *testing.T) {
	_, err := ParseRequest([]byte("GET /api/system EGWTTP/1.1\r\n"))
	require.Error(t, err)
}

func TestParseRequestRejectsWrongProtocolVersion(t *testing.T) {
	_, err := ParseRequest([]byte("GET /api/system HTTP/1.1\r\n\r\n"))
	require.Error(t, err)
}

func TestBuildResponseIncludesLocationMethodAndBody(t *testing.T) {
	resp := BuildResponse("/api/echo", "POST", []byte(`{"echo":"hi"}`), 0)
	s := string(resp)
	require.Contains(t, s, "EGWTP/1.1 200 OK\r\n")
	require.Contains(t, s, "Location: /api/echo\r\n")
	require.Contains(t, s, "Method: POST\r\n")
	require.Contains(t, s, "Content-Length: 13\r\n")
	require.Contains(t, s, "{\"echo\":\"hi\"}")
}

func TestBuildResponseAppliesOffsetToBody(t *testing.T) {
	resp := BuildResponse("/api/echo", "GET", []byte("0123456789"), 5)
	s := string(resp)
	require.Contains(t, s, "Offset: 5\r\n")
	require.True(t, len(s) > 0)
	require.Contains(t, s, "56789")
	require.NotContains(t, s, "01234\r\n\r\n")
}

func TestBuildResponseTruncatesToMaxPacketSize(t *testing.T) {
	big := make([]byte, MaxPacketSize*2)
	for i := range big {
		big[i] = 'x'
	}
	resp := BuildResponse("/api/big", "GET", big, 0)
	require.LessOrEqual(t, len(resp), MaxPacketSize)
}
