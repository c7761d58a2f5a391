package signer

import (
	"encoding/base64"
	"encoding/hex"
	"errors"

	"github.com/srcful/zap-gateway/pkg/ecdsaprim"
)

// ErrInvalidPrivateKeyHex is returned when a caller-supplied private key
// string doesn't decode to a 32-byte scalar.
var ErrInvalidPrivateKeyHex = errors.New("signer: private key must be 64 hex characters")

// Signer signs data and formats the result as JWT, raw base64url, hex, or
// DER hex, using a single fixed private key.
type Signer struct {
	privateKey [ecdsaprim.ScalarSize]byte
}

// New builds a Signer from a private key given as a 64-character hex
// string, matching the firmware's provisioned key format.
func New(privateKeyHex string) (*Signer, error) {
	b, err := hex.DecodeString(privateKeyHex)
	if err != nil || len(b) != ecdsaprim.ScalarSize {
		return nil, ErrInvalidPrivateKeyHex
	}
	s := &Signer{}
	copy(s.privateKey[:], b)
	return s, nil
}

// PublicKeyHex returns this signer's P-256 public key as 128 hex
// characters (uncompressed X‖Y), the format the crypto-info and
// system-info endpoints publish.
func (s *Signer) PublicKeyHex() string {
	pub := ecdsaprim.PublicKey(s.privateKey)
	return hex.EncodeToString(pub[:])
}

// base64URLEncode is unpadded base64url, matching the firmware's
// hand-rolled base64url_encode (which strips trailing '=' rather than
// omitting them via an encoding option).
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// SignJWT builds a three-part "header.payload.signature" token: header
// and payload are base64url-encoded as given, and the signature covers
// the joined "header.payload" string.
func (s *Signer) SignJWT(header, payload string) (string, error) {
	encodedHeader := base64URLEncode([]byte(header))
	encodedPayload := base64URLEncode([]byte(payload))
	signingInput := encodedHeader + "." + encodedPayload

	sig, err := ecdsaprim.Sign(s.privateKey, []byte(signingInput))
	if err != nil {
		return "", err
	}

	return signingInput + "." + base64URLEncode(sig[:]), nil
}

// SignBase64URL signs data and returns the raw 64-byte r‖s signature as
// unpadded base64url.
func (s *Signer) SignBase64URL(data []byte) (string, error) {
	sig, err := ecdsaprim.Sign(s.privateKey, data)
	if err != nil {
		return "", err
	}
	return base64URLEncode(sig[:]), nil
}

// SignHex signs data and returns the raw 64-byte r‖s signature as a
// 128-character lowercase hex string.
func (s *Signer) SignHex(data []byte) (string, error) {
	sig, err := ecdsaprim.Sign(s.privateKey, data)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig[:]), nil
}

// SignDERHex signs data, re-encodes the raw signature as a DER SEQUENCE
// of two INTEGERs, and returns the DER bytes as hex.
func (s *Signer) SignDERHex(data []byte) (string, error) {
	sig, err := ecdsaprim.Sign(s.privateKey, data)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(encodeDER(sig[:ecdsaprim.ScalarSize], sig[ecdsaprim.ScalarSize:])), nil
}

// encodeDER builds a minimal DER SEQUENCE{ INTEGER r, INTEGER s }. Each
// of r and s has its leading zero bytes stripped, except where doing so
// would flip the sign (a leading zero is kept whenever the following
// byte's high bit is set), matching the ASN.1 DER rule for non-negative
// integers.
func encodeDER(r, s []byte) []byte {
	r = trimLeadingZeros(r)
	s = trimLeadingZeros(s)

	der := make([]byte, 0, 6+len(r)+len(s))
	der = append(der, 0x30, byte(2+len(r)+2+len(s)))
	der = append(der, 0x02, byte(len(r)))
	der = append(der, r...)
	der = append(der, 0x02, byte(len(s)))
	der = append(der, s...)
	return der
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 1 && b[0] == 0x00 && (b[1]&0x80) == 0 {
		b = b[1:]
	}
	return b
}
