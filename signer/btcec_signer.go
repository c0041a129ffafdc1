package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"lol.mleku.dev/chk"
	"lol.mleku.dev/errorf"

	"s256k1.mleku.dev"
)

// BtcecSigner implements the I and Recoverer interfaces using btcec directly.
// It produces the same encodings as Signer and is used to cross check it.
type BtcecSigner struct {
	privKey   *btcec.PrivateKey
	pubKey    *btcec.PublicKey
	hasSecret bool
}

var (
	_ I         = (*BtcecSigner)(nil)
	_ Recoverer = (*BtcecSigner)(nil)
)

// NewBtcecSigner creates a new BtcecSigner instance
func NewBtcecSigner() *BtcecSigner {
	return &BtcecSigner{}
}

// Generate creates a fresh new key pair from system entropy
func (s *BtcecSigner) Generate() (err error) {
	var privKey *btcec.PrivateKey
	if privKey, err = btcec.NewPrivateKey(); chk.E(err) {
		return
	}
	s.Zero()
	s.privKey, s.pubKey, s.hasSecret = privKey, privKey.PubKey(), true
	return
}

// InitSec initialises the secret (signing) key from the raw bytes, and also
// derives the public key
func (s *BtcecSigner) InitSec(sec []byte) (err error) {
	if len(sec) != s256k1.SecretKeySize {
		err = errorf.E("secret key must be %d bytes", s256k1.SecretKeySize)
		return
	}
	var k secp.ModNScalar
	if overflow := k.SetByteSlice(sec); overflow || k.IsZero() {
		err = errorf.E("secret key is zero or not below the group order")
		return
	}
	privKey, pubKey := btcec.PrivKeyFromBytes(sec)
	s.Zero()
	s.privKey, s.pubKey, s.hasSecret = privKey, pubKey, true
	return
}

// InitPub initializes the public (verification) key
func (s *BtcecSigner) InitPub(pub []byte) (err error) {
	var pubKey *btcec.PublicKey
	if pubKey, err = btcec.ParsePubKey(pub); chk.E(err) {
		return
	}
	s.Zero()
	s.pubKey = pubKey
	return
}

// Sec returns the secret key bytes
func (s *BtcecSigner) Sec() []byte {
	if !s.hasSecret || s.privKey == nil {
		return nil
	}
	return s.privKey.Serialize()
}

// Pub returns the compressed public key bytes
func (s *BtcecSigner) Pub() []byte {
	if s.pubKey == nil {
		return nil
	}
	return s.pubKey.SerializeCompressed()
}

// Sign creates a DER encoded signature using the stored secret key
func (s *BtcecSigner) Sign(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		err = errorf.E("no secret key available for signing")
		return
	}
	if len(msg) != s256k1.MessageHashSize {
		err = errorf.E("message must be %d bytes", s256k1.MessageHashSize)
		return
	}
	sig = btcecdsa.Sign(s.privKey, msg).Serialize()
	return
}

// SignRecoverable creates a 65 byte r || s || recid signature.
func (s *BtcecSigner) SignRecoverable(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		err = errorf.E("no secret key available for signing")
		return
	}
	if len(msg) != s256k1.MessageHashSize {
		err = errorf.E("message must be %d bytes", s256k1.MessageHashSize)
		return
	}
	compact := btcecdsa.SignCompact(s.privKey, msg, true)
	// btcec leads with a 27+4+recid header byte
	sig = make([]byte, s256k1.RecoverableSignatureSize)
	copy(sig, compact[1:])
	sig[s256k1.CompactSignatureSize] = compact[0] - 31
	return
}

// Verify checks a message hash and DER signature match the stored public key
func (s *BtcecSigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pubKey == nil {
		err = errorf.E("no public key available for verification")
		return
	}
	if len(msg) != s256k1.MessageHashSize {
		err = errorf.E("message must be %d bytes", s256k1.MessageHashSize)
		return
	}
	var parsed *btcecdsa.Signature
	if parsed, err = btcecdsa.ParseDERSignature(sig); chk.D(err) {
		return
	}
	valid = parsed.Verify(msg, s.pubKey)
	return
}

// Zero wipes the secret key to prevent memory leaks
func (s *BtcecSigner) Zero() {
	if s.privKey != nil {
		s.privKey.Zero()
		s.privKey = nil
	}
	s.hasSecret = false
	s.pubKey = nil
}

// ECDH returns a shared secret derived using Elliptic Curve Diffie-Hellman on
// the stored secret and the provided pubkey, hashed the same way as Signer
func (s *BtcecSigner) ECDH(pub []byte) (secret []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		err = errorf.E("no secret key available for ECDH")
		return
	}
	var pubKey *btcec.PublicKey
	if pubKey, err = btcec.ParsePubKey(pub); chk.E(err) {
		return
	}
	var point, result secp.JacobianPoint
	pubKey.AsJacobian(&point)
	secp.ScalarMultNonConst(&s.privKey.Key, &point, &result)
	result.ToAffine()
	shared := secp.NewPublicKey(&result.X, &result.Y).SerializeCompressed()
	h := s256k1.NewSHA256()
	h.Write(shared)
	secret = make([]byte, s256k1.ECDHSecretSize)
	h.Finalize(secret)
	h.Clear()
	return
}
