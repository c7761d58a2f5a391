// Package signer produces the device-signed artifacts the gateway
// presents to its backend: unpadded base64url signatures, JWT-shaped
// tokens, and DER-encoded signatures in hex. It wraps pkg/ecdsaprim's
// raw ECDSA signing with each of those three output encodings.
package signer
