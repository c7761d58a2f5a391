// Package ecdsaprim wraps crypto/ecdsa's P-256 operations behind the
// narrow interface the signer package needs: a 32-byte private scalar
// and a message in, a 64-byte raw r‖s signature out. No ASN.1, no key
// objects — just a raw import/sign/export dance against a hex-decoded
// private key.
package ecdsaprim
