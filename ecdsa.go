package s256k1

import (
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// maxNonceAttempts bounds the nonce loop in signing. A nonce function that
// keeps producing unusable nonces makes signing fail instead of spinning.
const maxNonceAttempts = 1000

// NonceFunction generates the signing nonce into nonce32. msg32 and key32 are
// the message hash and secret key, algo16 is nil for ECDSA, data is the ndata
// passed to the signing call and attempt counts up from zero each time the
// previous nonce was unusable. Returning false makes signing fail.
type NonceFunction func(
	nonce32, msg32, key32, algo16 []byte, data any, attempt uint,
) bool

// NonceFunctionRFC6979 is the default nonce function: RFC 6979 with
// HMAC-SHA256. data may be nil, or 32 bytes of extra entropy given as []byte
// or *[32]byte. Any other data makes it fail.
func NonceFunctionRFC6979(
	nonce32, msg32, key32, algo16 []byte, data any, attempt uint,
) bool {
	if len(nonce32) != 32 || len(msg32) != 32 || len(key32) != 32 {
		return false
	}
	var extra []byte
	switch d := data.(type) {
	case nil:
	case []byte:
		if len(d) != 32 {
			return false
		}
		extra = d
	case *[32]byte:
		if d == nil {
			return false
		}
		extra = d[:]
	default:
		return false
	}
	k := secp.NonceRFC6979(key32, msg32, extra, algo16, uint32(attempt))
	scalarSave(nonce32, k)
	k.Zero()
	return true
}

// sigLoad splits a stored signature into its scalars.
func sigLoad(r, s *secp.ModNScalar, data []byte) {
	scalarLoad(r, data[:32])
	scalarLoad(s, data[32:64])
}

func sigSave(data []byte, r, s *secp.ModNScalar) {
	scalarSave(data[:32], r)
	scalarSave(data[32:64], s)
}

// compactLoad parses r || s and fails if either is zero or not below the
// group order.
func compactLoad(r, s *secp.ModNScalar, input64 []byte) bool {
	if r.SetBytes((*[32]byte)(input64[:32])) != 0 || r.IsZero() {
		return false
	}
	if s.SetBytes((*[32]byte)(input64[32:64])) != 0 || s.IsZero() {
		return false
	}
	return true
}

// ECDSASignatureParseCompact parses a 64 byte r || s signature. On failure sig
// is zeroed.
func ECDSASignatureParseCompact(ctx *Context, sig *Signature, input64 []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	sig.clear()
	if !argCheck(len(input64) == CompactSignatureSize, ctx, "input64 != NULL") {
		return
	}
	var r, s secp.ModNScalar
	if !compactLoad(&r, &s, input64) {
		return
	}
	sigSave(sig.data[:], &r, &s)
	return true
}

// ECDSASignatureSerializeCompact writes sig as 64 bytes r || s.
func ECDSASignatureSerializeCompact(ctx *Context, output64 []byte, sig *Signature) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(len(output64) == CompactSignatureSize, ctx, "output64 != NULL") {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	copy(output64, sig.data[:])
	return true
}

// ECDSASignatureNormalize converts sigin to its lower-S form and reports
// whether it was not already lower-S. sigout may be nil to only check, and may
// be the same as sigin.
func ECDSASignatureNormalize(ctx *Context, sigout, sigin *Signature) (normalized bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(sigin != nil, ctx, "sigin != NULL") {
		return
	}
	var r, s secp.ModNScalar
	sigLoad(&r, &s, sigin.data[:])
	if normalized = s.IsOverHalfOrder(); normalized {
		s.Negate()
	}
	if sigout != nil {
		sigSave(sigout.data[:], &r, &s)
	}
	return
}

// ECDSASign creates a lower-S signature of msghash with seckey. A nil noncefp
// selects NonceFunctionRFC6979, which makes the signature deterministic; ndata
// is passed to the nonce function. It fails, leaving sig zeroed, if seckey is
// not valid or the nonce function fails.
func ECDSASign(
	ctx *Context, sig *Signature, msghash *MessageHash, seckey *SecretKey,
	noncefp NonceFunction, ndata any,
) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(sig != nil, ctx, "signature != NULL") {
		return
	}
	sig.clear()
	if !ctx.canGenerate() {
		return
	}
	if !argCheck(msghash != nil, ctx, "msghash32 != NULL") {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	var r, s secp.ModNScalar
	if !ctx.ecdsaSignInner(&r, &s, nil, msghash, seckey, noncefp, ndata) {
		return
	}
	sigSave(sig.data[:], &r, &s)
	return true
}

// ecdsaSignInner runs the nonce loop shared by plain and recoverable signing.
func (ctx *Context) ecdsaSignInner(
	r, s *secp.ModNScalar, recid *int, msghash *MessageHash, seckey *SecretKey,
	noncefp NonceFunction, ndata any,
) bool {
	if noncefp == nil {
		noncefp = NonceFunctionRFC6979
	}
	var sec, msg, non secp.ModNScalar
	defer sec.Zero()
	defer non.Zero()
	if !scalarSetB32Seckey(&sec, (*[32]byte)(seckey)) {
		return false
	}
	msg.SetBytes((*[32]byte)(msghash))
	var nonce32 [32]byte
	defer memclear(nonce32[:])
	for attempt := uint(0); attempt < maxNonceAttempts; attempt++ {
		if !noncefp(nonce32[:], msghash[:], seckey[:], nil, ndata, attempt) {
			return false
		}
		if !scalarSetB32Seckey(&non, &nonce32) {
			continue
		}
		if ctx.ecdsaSigSign(r, s, recid, &sec, &msg, &non) {
			return true
		}
	}
	return false
}

// ECDSAVerify checks sig over msghash against pubkey. Only lower-S signatures
// verify; run ECDSASignatureNormalize first to accept either form.
func ECDSAVerify(
	ctx *Context, sig *Signature, msghash *MessageHash, pubkey *PublicKey,
) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(msghash != nil, ctx, "msghash32 != NULL") {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	var r, s secp.ModNScalar
	sigLoad(&r, &s, sig.data[:])
	if s.IsOverHalfOrder() {
		return
	}
	pk, loaded := pubkeyLoad(pubkey)
	if !argCheck(loaded, ctx, "pubkey initialized") {
		return
	}
	return ecdsaSigVerify(&r, &s, pk, msghash)
}
