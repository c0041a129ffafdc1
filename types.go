package s256k1

import (
	"fmt"
)

// Byte sizes of the values exchanged with the operation layer.
const (
	SecretKeySize             = 32
	PublicKeySize             = 64
	CompressedPublicKeySize   = 33
	UncompressedPublicKeySize = 65
	SignatureSize             = 64
	CompactSignatureSize      = 64
	RecoverableSignatureSize  = 65
	MaxDERSignatureSize       = 72
	ECDHSecretSize            = 32
	MessageHashSize           = 32
)

// Compression flags for public key serialization. A zero flag value selects
// the uncompressed format.
const (
	ECCompressed   = 0x0102
	ECUncompressed = 0x0002
)

// Tag bytes for encoded curve points
const (
	TagPubkeyEven         = 0x02
	TagPubkeyOdd          = 0x03
	TagPubkeyUncompressed = 0x04
)

// SecretKey is a 32 byte big-endian scalar. It is only a valid key when it is
// in the range [1, n-1], which ECSecKeyVerify checks.
type SecretKey [SecretKeySize]byte

// SecretKeyFromBytes copies b into a new SecretKey. Only the length is checked
// here.
func SecretKeyFromBytes(b []byte) (sk *SecretKey, err error) {
	if len(b) != SecretKeySize {
		err = makeError(ErrSecKeyInvalidLen, fmt.Sprintf(
			"secret key must be %d bytes, got %d", SecretKeySize, len(b)))
		return
	}
	sk = new(SecretKey)
	copy(sk[:], b)
	return
}

// Bytes returns a copy of the key bytes.
func (sk *SecretKey) Bytes() []byte {
	b := make([]byte, SecretKeySize)
	copy(b, sk[:])
	return b
}

// Zero wipes the key.
func (sk *SecretKey) Zero() {
	for i := range sk {
		sk[i] = 0
	}
}

// MessageHash is the 32 byte digest a signature commits to. Hashing the
// message is the caller's job.
type MessageHash [MessageHashSize]byte

// MessageHashFromBytes copies b into a new MessageHash.
func MessageHashFromBytes(b []byte) (h *MessageHash, err error) {
	if len(b) != MessageHashSize {
		err = makeError(ErrMsgHashInvalidLen, fmt.Sprintf(
			"message hash must be %d bytes, got %d", MessageHashSize, len(b)))
		return
	}
	h = new(MessageHash)
	copy(h[:], b)
	return
}

// PublicKey is a parsed and valid public key, held as the affine x and y
// coordinates. The zero value is not a valid key.
type PublicKey struct {
	data [PublicKeySize]byte
}

// Signature is a parsed ECDSA signature held as r || s.
type Signature struct {
	data [SignatureSize]byte
}

// RecoverableSignature is a parsed ECDSA signature with the recovery id of the
// signer's public key, held as r || s || recid.
type RecoverableSignature struct {
	data [RecoverableSignatureSize]byte
}

func (pubkey *PublicKey) clear() {
	memclear(pubkey.data[:])
}

func (sig *Signature) clear() {
	memclear(sig.data[:])
}

func (sig *RecoverableSignature) clear() {
	memclear(sig.data[:])
}

// memclear zeroes b.
func memclear(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
