package reqhandler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/routes"
	"github.com/srcful/zap-gateway/pkg/signer"
)

var tag = gwlog.NewTag("reqhandler", gwlog.LevelInfo)

// maxRequestAge matches the superseded firmware's fixed 60-second freshness window.
const maxRequestAge = 60 * time.Second

// Router dispatches a decoded routes.Request to its handler, satisfied
// by *routes.Table.
type Router interface {
	Route(ctx context.Context, req routes.Request) routes.Response
}

// ConfigPublisher pushes a signed response JWT back to the backend.
type ConfigPublisher interface {
	SetConfiguration(ctx context.Context, jwt string) error
}

// Handler turns "request" subKey configuration changes into routed
// HTTP-style calls and signs their results back as response JWTs.
type Handler struct {
	router    Router
	publisher ConfigPublisher
	signer    *signer.Signer
	deviceID  string
	now       func() time.Time
}

// New builds a Handler that reads the current time from time.Now.
func New(router Router, publisher ConfigPublisher, sign *signer.Signer, deviceID string) *Handler {
	return &Handler{router: router, publisher: publisher, signer: sign, deviceID: deviceID, now: time.Now}
}

// requestEnvelope is the outer shape of a "request" subKey payload: a
// JSON-encoded string carrying the actual request, matching
// handleRequestTask's configData.getString("data", data).
type requestEnvelope struct {
	Data string `json:"data"`
}

// innerRequest is the decoded contents of requestEnvelope.Data.
type innerRequest struct {
	ID        string          `json:"id"`
	Path      string          `json:"path"`
	Method    string          `json:"method"`
	Query     string          `json:"query"`
	Headers   json.RawMessage `json:"headers"`
	Timestamp int64           `json:"timestamp"`
	Body      json.RawMessage `json:"body"`
}

// HandleConfigData processes one "request" subKey payload, mirroring
// handleRequestTask: payloads missing id/path/method are some other
// configuration kind and are silently ignored rather than treated as
// malformed requests.
func (h *Handler) HandleConfigData(ctx context.Context, raw json.RawMessage) {
	var envelope requestEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		gwlog.Warnf(tag, "failed to parse configuration envelope: %v", err)
		return
	}

	var req innerRequest
	if err := json.Unmarshal([]byte(envelope.Data), &req); err != nil {
		gwlog.Warnf(tag, "failed to parse request data: %v", err)
		return
	}

	if req.ID == "" || req.Path == "" || req.Method == "" {
		gwlog.Debugf(tag, "received non-request configuration data")
		return
	}

	h.handleRequest(ctx, req)
}

func (h *Handler) handleRequest(ctx context.Context, req innerRequest) {
	nowMs := h.now().UnixMilli()
	if req.Timestamp < nowMs-maxRequestAge.Milliseconds() {
		gwlog.Warnf(tag, "request %s too old: timestamp=%d now=%d", req.ID, req.Timestamp, nowMs)
		h.sendErrorResponse(ctx, req.ID, "Request too old")
		return
	}

	resp := h.router.Route(ctx, routes.Request{
		Path: req.Path,
		Verb: req.Method,
		Body: requestBody(req.Body),
	})

	h.sendResponse(ctx, req.ID, resp.StatusCode, resp.Body)
}

// requestBody unwraps a body field that may be a JSON string (already
// containing encoded JSON text) or a raw JSON object/array, matching
// handleRequest's "body can be both string or object" handling.
func requestBody(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return []byte(s)
		}
	}
	return []byte(raw)
}

type jwtHeader struct {
	Alg    string `json:"alg"`
	Typ    string `json:"typ"`
	Device string `json:"device"`
	SubKey string `json:"subKey"`
}

type jwtPayload struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Code      int    `json:"code"`
	Response  string `json:"response"`
}

func (h *Handler) sendResponse(ctx context.Context, requestID string, statusCode int, body []byte) {
	header := jwtHeader{Alg: "ES256", Typ: "JWT", Device: h.deviceID, SubKey: "response"}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		gwlog.Warnf(tag, "failed to encode response header: %v", err)
		return
	}

	payload := jwtPayload{
		ID:        requestID,
		Timestamp: h.now().UnixMilli(),
		Code:      statusCode,
		Response:  string(body),
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		gwlog.Warnf(tag, "failed to encode response payload: %v", err)
		return
	}

	jwt, err := h.signer.SignJWT(string(headerJSON), string(payloadJSON))
	if err != nil {
		gwlog.Warnf(tag, "failed to sign response for request %s: %v", requestID, err)
		return
	}

	if err := h.publisher.SetConfiguration(ctx, jwt); err != nil {
		gwlog.Warnf(tag, "failed to send response for request %s: %v", requestID, err)
		return
	}
	gwlog.Infof(tag, "response for request %s sent successfully", requestID)
}

func (h *Handler) sendErrorResponse(ctx context.Context, requestID, message string) {
	body, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: message})
	h.sendResponse(ctx, requestID, 400, body)
}
