package ecdsaprim

import (
	"crypto/elliptic"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPrivateKeyHex = "4c6f7265006d697073756d000000000000000000000000000000000000000001"

func mustScalar(t *testing.T, hexStr string) [ScalarSize]byte {
	t.Helper()
	b, err := hex.DecodeString(hexStr)
	require.NoError(t, err)
	require.Len(t, b, ScalarSize)
	var out [ScalarSize]byte
	copy(out[:], b)
	return out
}

func publicKeyFor(t *testing.T, priv [ScalarSize]byte) [2 * ScalarSize]byte {
	t.Helper()
	x, y := elliptic.P256().ScalarBaseMult(priv[:])
	var pub [2 * ScalarSize]byte
	x.FillBytes(pub[:ScalarSize])
	y.FillBytes(pub[ScalarSize:])
	return pub
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	priv := mustScalar(t, testPrivateKeyHex)

	sig, err := Sign(priv, []byte("hello world"))
	require.NoError(t, err)

	pub := publicKeyFor(t, priv)
	require.True(t, Verify(pub, []byte("hello world"), sig))
	require.False(t, Verify(pub, []byte("tampered"), sig))
}

func TestSignRejectsZeroScalar(t *testing.T) {
	var zero [ScalarSize]byte
	_, err := Sign(zero, []byte("x"))
	require.ErrorIs(t, err, ErrInvalidScalar)
}

func TestSignIsNonDeterministicButBothVerify(t *testing.T) {
	priv := mustScalar(t, testPrivateKeyHex)
	pub := publicKeyFor(t, priv)

	sig1, err := Sign(priv, []byte("msg"))
	require.NoError(t, err)
	sig2, err := Sign(priv, []byte("msg"))
	require.NoError(t, err)

	require.True(t, Verify(pub, []byte("msg"), sig1))
	require.True(t, Verify(pub, []byte("msg"), sig2))
}
