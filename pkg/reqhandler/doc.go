// Package reqhandler processes "request" subKey configuration-change
// payloads pushed over the subscription socket: it validates the
// request's age, dispatches it through a route table, and signs the
// result back into a response JWT for the backend to relay, the Go
// rendering of RequestHandler.
package reqhandler
