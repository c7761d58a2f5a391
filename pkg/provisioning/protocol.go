package provisioning

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Version is the protocol version token every request's first line must
// end with and every response's status line announces.
const Version = "EGWTTP/1.1"

// MaxPacketSize caps a constructed response, matching the BLE
// characteristic MTU responses are truncated to.
const MaxPacketSize = 512

// Request is one parsed EGWTTP request line plus headers and body.
type Request struct {
	Method  string
	Path    string
	Offset  int
	Content []byte
}

// ParseRequest decodes raw EGWTTP bytes, mirroring parseRequest: a
// request line "<METHOD> <PATH> EGWTTP/1.1\r\n", an optional
// "Offset: <n>\r\n" header, a blank line, then the body.
func ParseRequest(raw []byte) (Request, error) {
	headerEnd := bytes.Index(raw, []byte("\r\n\r\n"))
	if headerEnd == -1 {
		return Request{}, fmt.Errorf("provisioning: no header terminator found")
	}

	header := string(raw[:headerEnd])
	content := raw[headerEnd+4:]

	lines := strings.Split(header, "\r\n")
	firstLine := lines[0]

	if !strings.HasSuffix(firstLine, " "+Version) {
		return Request{}, fmt.Errorf("provisioning: missing or unexpected protocol version in %q", firstLine)
	}

	spaceIdx := strings.Index(firstLine, " ")
	if spaceIdx == -1 {
		return Request{}, fmt.Errorf("provisioning: malformed request line %q", firstLine)
	}
	method := firstLine[:spaceIdx]
	path := strings.TrimSpace(firstLine[spaceIdx+1 : len(firstLine)-len(Version)])

	offset := 0
	for _, line := range lines[1:] {
		if v, ok := strings.CutPrefix(line, "Offset: "); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				offset = n
			}
		}
	}

	return Request{Method: method, Path: path, Offset: offset, Content: content}, nil
}

// BuildResponse constructs an EGWTTP response. The status line is
// always "200 OK" regardless of the routed handler's actual status
// code, since the protocol carries no status field of its own.
func BuildResponse(location, method string, data []byte, offset int) []byte {
	var b strings.Builder
	// The status line spells the protocol token "EGWTP", one T short of
	// the request line's "EGWTTP"; clients parse this response by fixed
	// offset rather than by token, so the mismatch is harmless but kept
	// byte-for-byte since it's part of the wire contract.
	b.WriteString("EGWTP/1.1 200 OK\r\n")
	b.WriteString("Location: ")
	b.WriteString(location)
	b.WriteString("\r\n")
	b.WriteString("Method: ")
	b.WriteString(method)
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/json\r\n")
	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(len(data)))
	b.WriteString("\r\n")
	if offset > 0 {
		b.WriteString("Offset: ")
		b.WriteString(strconv.Itoa(offset))
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")

	header := []byte(b.String())
	body := data
	if offset < len(body) {
		body = body[offset:]
	} else {
		body = nil
	}

	response := append(header, body...)
	if len(response) > MaxPacketSize {
		response = response[:MaxPacketSize]
	}
	return response
}
