// Package signer wraps the s256k1 operation layer in key-holding signers, so
// callers can sign, verify, recover and agree on secrets with raw byte slices
// instead of managing contexts and opaque values themselves.
package signer

// I is a key holder that signs and verifies ECDSA signatures over 32 byte
// message hashes. Public keys are 33 byte compressed encodings and signatures
// are DER encoded.
type I interface {
	// Generate creates a fresh key pair from system entropy.
	Generate() (err error)
	// InitSec initialises the secret (signing) key from the raw bytes, and
	// also derives the public key.
	InitSec(sec []byte) (err error)
	// InitPub initializes the public (verification) key from a 33 or 65 byte
	// encoding.
	InitPub(pub []byte) (err error)
	// Sec returns the secret key bytes.
	Sec() []byte
	// Pub returns the compressed public key bytes.
	Pub() []byte
	// Sign creates a DER encoded lower-S signature of a 32 byte hash.
	Sign(msg []byte) (sig []byte, err error)
	// Verify checks a DER signature of a 32 byte hash against the stored
	// public key. Upper-S signatures are accepted.
	Verify(msg, sig []byte) (valid bool, err error)
	// Zero wipes the secret key.
	Zero()
	// ECDH returns the SHA-256 of the compressed shared point between the
	// stored secret and pub.
	ECDH(pub []byte) (secret []byte, err error)
}

// Recoverer is an I that also produces signatures the public key can be
// recovered from.
type Recoverer interface {
	I
	// SignRecoverable creates a 65 byte r || s || recid signature.
	SignRecoverable(msg []byte) (sig []byte, err error)
}

// Gen searches key space, as for vanity keys: generate, inspect the public key,
// optionally flip its parity.
type Gen interface {
	// Generate gathers entropy and returns the compressed public key.
	Generate() (pubBytes []byte, err error)
	// Negate flips the public key Y coordinate between odd and even.
	Negate()
	// KeyPairBytes returns the secret key and the compressed public key.
	KeyPairBytes() (secBytes, cmprPubBytes []byte)
}
