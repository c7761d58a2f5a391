package ecdsaprim

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"
)

// ScalarSize is the byte length of a P-256 private scalar and of each of
// the two components of a raw signature.
const ScalarSize = 32

// SignatureSize is the length of a raw r‖s signature.
const SignatureSize = 2 * ScalarSize

// ErrInvalidScalar is returned when a private key does not decode to a
// valid 32-byte P-256 scalar.
var ErrInvalidScalar = errors.New("ecdsaprim: private key must be a 32-byte scalar")

// Sign hashes message with SHA-256 and produces a raw 64-byte r‖s P-256
// signature over it using privateKey as the scalar. Each of r and s is
// left-padded with zeros to exactly 32 bytes.
func Sign(privateKey [ScalarSize]byte, message []byte) ([SignatureSize]byte, error) {
	var out [SignatureSize]byte

	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = elliptic.P256()
	priv.D = new(big.Int).SetBytes(privateKey[:])
	if priv.D.Sign() == 0 || priv.D.Cmp(priv.Curve.Params().N) >= 0 {
		return out, ErrInvalidScalar
	}
	priv.PublicKey.X, priv.PublicKey.Y = priv.Curve.ScalarBaseMult(privateKey[:])

	hash := sha256.Sum256(message)

	r, s, err := ecdsa.Sign(rand.Reader, priv, hash[:])
	if err != nil {
		return out, err
	}

	r.FillBytes(out[:ScalarSize])
	s.FillBytes(out[ScalarSize:])
	return out, nil
}

// PublicKey derives the uncompressed (X‖Y) P-256 public key for
// privateKey, for callers that need to advertise their own public key
// (e.g. the crypto-info endpoint) without duplicating curve arithmetic.
func PublicKey(privateKey [ScalarSize]byte) [2 * ScalarSize]byte {
	var out [2 * ScalarSize]byte
	x, y := elliptic.P256().ScalarBaseMult(privateKey[:])
	x.FillBytes(out[:ScalarSize])
	y.FillBytes(out[ScalarSize:])
	return out
}

// Verify checks a raw 64-byte r‖s signature over message's SHA-256 hash
// against a 64-byte uncompressed (X‖Y) public key.
func Verify(publicKey [2 * ScalarSize]byte, message []byte, signature [SignatureSize]byte) bool {
	x := new(big.Int).SetBytes(publicKey[:ScalarSize])
	y := new(big.Int).SetBytes(publicKey[ScalarSize:])
	pub := ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}

	r := new(big.Int).SetBytes(signature[:ScalarSize])
	s := new(big.Int).SetBytes(signature[ScalarSize:])

	hash := sha256.Sum256(message)
	return ecdsa.Verify(&pub, hash[:], r, s)
}
