package signer

import (
	"lol.mleku.dev/chk"
	"lol.mleku.dev/errorf"

	"s256k1.mleku.dev"
)

// Signer implements the I and Recoverer interfaces on an s256k1 Context.
type Signer struct {
	ctx       *s256k1.Context
	seckey    *s256k1.SecretKey
	pubkey    *s256k1.PublicKey
	hasSecret bool // Whether we have the secret key (if false, can only verify)
}

var (
	_ I         = (*Signer)(nil)
	_ Recoverer = (*Signer)(nil)
)

// New creates a Signer on ctx. A nil ctx gets a fresh context; the static
// context gives a signer that can only verify.
func New(ctx *s256k1.Context) (s *Signer, err error) {
	if ctx == nil {
		if ctx, err = s256k1.ContextCreate(s256k1.ContextNone); chk.E(err) {
			return
		}
	}
	s = &Signer{ctx: ctx}
	return
}

// Generate creates a fresh new key pair from system entropy.
func (s *Signer) Generate() (err error) {
	var sk *s256k1.SecretKey
	var pk *s256k1.PublicKey
	if sk, pk, err = s256k1.ECKeyPairGenerate(s.ctx); chk.E(err) {
		return
	}
	s.Zero()
	s.seckey, s.pubkey, s.hasSecret = sk, pk, true
	return
}

// InitSec initialises the secret (signing) key from the raw bytes, and also
// derives the public key.
func (s *Signer) InitSec(sec []byte) (err error) {
	var sk *s256k1.SecretKey
	if sk, err = s256k1.SecretKeyFromBytes(sec); chk.E(err) {
		return
	}
	if !s256k1.ECSecKeyVerify(s.ctx, sk) {
		sk.Zero()
		err = errorf.E("secret key is zero or not below the group order")
		return
	}
	pk := new(s256k1.PublicKey)
	if !s256k1.ECPubkeyCreate(s.ctx, pk, sk) {
		sk.Zero()
		err = errorf.E("failed to derive public key")
		return
	}
	s.Zero()
	s.seckey, s.pubkey, s.hasSecret = sk, pk, true
	return
}

// InitPub initializes the public (verification) key from a 33 or 65 byte
// encoding.
func (s *Signer) InitPub(pub []byte) (err error) {
	var pk *s256k1.PublicKey
	if pk, err = s256k1.ParsePubKey(pub); chk.E(err) {
		return
	}
	s.Zero()
	s.pubkey = pk
	return
}

// Sec returns the secret key bytes
func (s *Signer) Sec() []byte {
	if !s.hasSecret || s.seckey == nil {
		return nil
	}
	return s.seckey.Bytes()
}

// Pub returns the compressed public key bytes
func (s *Signer) Pub() []byte {
	if s.pubkey == nil {
		return nil
	}
	out := make([]byte, s256k1.CompressedPublicKeySize)
	if _, ok := s256k1.ECPubkeySerialize(s.ctx, out, s.pubkey, s256k1.ECCompressed); !ok {
		return nil
	}
	return out
}

func (s *Signer) messageHash(msg []byte) (h *s256k1.MessageHash, err error) {
	if h, err = s256k1.MessageHashFromBytes(msg); chk.E(err) {
		return
	}
	return
}

// Sign creates a DER encoded signature using the stored secret key
func (s *Signer) Sign(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.seckey == nil {
		err = errorf.E("no secret key available for signing")
		return
	}
	var h *s256k1.MessageHash
	if h, err = s.messageHash(msg); err != nil {
		return
	}
	var si s256k1.Signature
	if !s256k1.ECDSASign(s.ctx, &si, h, s.seckey, nil, nil) {
		err = errorf.E("failed to sign")
		return
	}
	der := make([]byte, s256k1.MaxDERSignatureSize)
	n, ok := s256k1.ECDSASignatureSerializeDER(s.ctx, der, &si)
	if !ok {
		err = errorf.E("failed to encode signature")
		return
	}
	sig = der[:n]
	return
}

// SignRecoverable creates a 65 byte r || s || recid signature using the stored
// secret key.
func (s *Signer) SignRecoverable(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.seckey == nil {
		err = errorf.E("no secret key available for signing")
		return
	}
	var h *s256k1.MessageHash
	if h, err = s.messageHash(msg); err != nil {
		return
	}
	var rsig s256k1.RecoverableSignature
	if !s256k1.ECDSASignRecoverable(s.ctx, &rsig, h, s.seckey, nil, nil) {
		err = errorf.E("failed to sign")
		return
	}
	sig = make([]byte, s256k1.RecoverableSignatureSize)
	recid, ok := s256k1.ECDSARecoverableSignatureSerializeCompact(s.ctx,
		sig[:s256k1.CompactSignatureSize], &rsig)
	if !ok {
		err = errorf.E("failed to encode signature")
		return
	}
	sig[s256k1.CompactSignatureSize] = byte(recid)
	return
}

// Verify checks a message hash and DER signature match the stored public key.
// A malformed signature is an error, a well formed one that does not match is
// not.
func (s *Signer) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pubkey == nil {
		err = errorf.E("no public key available for verification")
		return
	}
	var h *s256k1.MessageHash
	if h, err = s.messageHash(msg); err != nil {
		return
	}
	var si *s256k1.Signature
	if si, err = s256k1.ParseDERSignature(sig); chk.D(err) {
		return
	}
	s256k1.ECDSASignatureNormalize(s.ctx, si, si)
	valid = s256k1.ECDSAVerify(s.ctx, si, h, s.pubkey)
	return
}

// Zero wipes the secret key to prevent memory leaks
func (s *Signer) Zero() {
	if s.seckey != nil {
		s.seckey.Zero()
		s.seckey = nil
	}
	s.hasSecret = false
	s.pubkey = nil
}

// ECDH returns a shared secret derived using Elliptic Curve Diffie-Hellman on
// the stored secret and the provided compressed or uncompressed pubkey
func (s *Signer) ECDH(pub []byte) (secret []byte, err error) {
	if !s.hasSecret || s.seckey == nil {
		err = errorf.E("no secret key available for ECDH")
		return
	}
	var pk *s256k1.PublicKey
	if pk, err = s256k1.ParsePubKey(pub); chk.E(err) {
		return
	}
	secret = make([]byte, s256k1.ECDHSecretSize)
	if !s256k1.ECDH(s.ctx, secret, pk, s.seckey, nil, nil) {
		secret, err = nil, errorf.E("failed to compute shared secret")
	}
	return
}

// KeyGen implements the Gen interface on an s256k1 Context.
type KeyGen struct {
	ctx    *s256k1.Context
	seckey *s256k1.SecretKey
	pubkey *s256k1.PublicKey
}

var _ Gen = (*KeyGen)(nil)

// NewKeyGen creates a KeyGen on ctx, which must be able to create keys.
func NewKeyGen(ctx *s256k1.Context) *KeyGen {
	return &KeyGen{ctx: ctx}
}

// Generate gathers entropy and derives pubkey bytes for matching, this returns
// the 33 byte compressed form for checking the oddness of the Y coordinate
func (g *KeyGen) Generate() (pubBytes []byte, err error) {
	if g.seckey, g.pubkey, err = s256k1.ECKeyPairGenerate(g.ctx); chk.E(err) {
		return
	}
	pubBytes = g.compressed()
	return
}

// Negate flips the public key Y coordinate between odd and even
func (g *KeyGen) Negate() {
	if g.seckey == nil {
		return
	}
	if !s256k1.ECSecKeyNegate(g.ctx, g.seckey) {
		return
	}
	s256k1.ECPubkeyNegate(g.ctx, g.pubkey)
}

// KeyPairBytes returns the raw bytes of the secret and the compressed public
// key
func (g *KeyGen) KeyPairBytes() (secBytes, cmprPubBytes []byte) {
	if g.seckey == nil {
		return
	}
	return g.seckey.Bytes(), g.compressed()
}

func (g *KeyGen) compressed() []byte {
	out := make([]byte, s256k1.CompressedPublicKeySize)
	s256k1.ECPubkeySerialize(g.ctx, out, g.pubkey, s256k1.ECCompressed)
	return out
}
