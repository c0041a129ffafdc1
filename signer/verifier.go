package signer

import (
	lru "github.com/hashicorp/golang-lru"
	"lol.mleku.dev/chk"
	"lol.mleku.dev/errorf"

	"s256k1.mleku.dev"
)

// DefaultCacheSize is the number of parsed public keys a Verifier keeps.
const DefaultCacheSize = 1024

// Verifier checks signatures from many keys. Parsed public keys are kept in
// an LRU cache keyed by their encoding, and the verifier is safe for
// concurrent use since it only ever reads through the static context.
type Verifier struct {
	keys *lru.Cache
}

// NewVerifier creates a Verifier caching up to size parsed keys.
func NewVerifier(size int) (v *Verifier, err error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	var c *lru.Cache
	if c, err = lru.New(size); chk.E(err) {
		return
	}
	v = &Verifier{keys: c}
	return
}

func (v *Verifier) pubkey(pub []byte) (pk *s256k1.PublicKey, err error) {
	if cached, ok := v.keys.Get(string(pub)); ok {
		pk = cached.(*s256k1.PublicKey)
		return
	}
	if pk, err = s256k1.ParsePubKey(pub); err != nil {
		return
	}
	v.keys.Add(string(pub), pk)
	return
}

// Cached reports whether the encoded key pub is in the cache.
func (v *Verifier) Cached(pub []byte) bool {
	return v.keys.Contains(string(pub))
}

// Verify checks that the DER signature sig over the 32 byte msg was made by
// the key encoded in pub. High S signatures are accepted.
func (v *Verifier) Verify(pub, msg, sig []byte) (valid bool, err error) {
	var h *s256k1.MessageHash
	if h, err = s256k1.MessageHashFromBytes(msg); err != nil {
		return
	}
	var pk *s256k1.PublicKey
	if pk, err = v.pubkey(pub); err != nil {
		return
	}
	var si *s256k1.Signature
	if si, err = s256k1.ParseDERSignature(sig); err != nil {
		return
	}
	s256k1.ECDSASignatureNormalize(s256k1.ContextStatic, si, si)
	valid = s256k1.ECDSAVerify(s256k1.ContextStatic, si, h, pk)
	return
}

// Recover returns the compressed public key that made the 65 byte
// r || s || recid signature sig over msg.
func (v *Verifier) Recover(msg, sig []byte) (pub []byte, err error) {
	if len(sig) != s256k1.RecoverableSignatureSize {
		err = errorf.E("recoverable signature must be %d bytes, got %d",
			s256k1.RecoverableSignatureSize, len(sig))
		return
	}
	recid := int(sig[s256k1.CompactSignatureSize])
	if recid > 3 {
		err = errorf.E("invalid recovery id %d", recid)
		return
	}
	var h *s256k1.MessageHash
	if h, err = s256k1.MessageHashFromBytes(msg); err != nil {
		return
	}
	var rsig s256k1.RecoverableSignature
	if !s256k1.ECDSARecoverableSignatureParseCompact(s256k1.ContextStatic, &rsig,
		sig[:s256k1.CompactSignatureSize], recid) {
		err = errorf.E("malformed recoverable signature")
		return
	}
	pk := new(s256k1.PublicKey)
	if !s256k1.ECDSARecover(s256k1.ContextStatic, pk, &rsig, h) {
		err = errorf.E("no public key recovers from signature")
		return
	}
	pub = make([]byte, s256k1.CompressedPublicKeySize)
	s256k1.ECPubkeySerialize(s256k1.ContextStatic, pub, pk, s256k1.ECCompressed)
	v.keys.Add(string(pub), pk)
	return
}
