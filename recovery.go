package s256k1

import (
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ECDSARecoverableSignatureParseCompact parses a 64 byte r || s signature
// together with its recovery id. A recid outside 0 to 3 is an illegal
// argument. On failure sig is zeroed.
func ECDSARecoverableSignatureParseCompact(
	ctx *Context, sig *RecoverableSignature, input64 []byte, recid int,
) (ok bool) {
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
	if !argCheck(recid >= 0 && recid <= 3, ctx, "recid >= 0 && recid <= 3") {
		return
	}
	var r, s secp.ModNScalar
	if !compactLoad(&r, &s, input64) {
		return
	}
	sigSave(sig.data[:], &r, &s)
	sig.data[64] = byte(recid)
	return true
}

// ECDSARecoverableSignatureSerializeCompact writes sig as 64 bytes r || s and
// returns its recovery id.
func ECDSARecoverableSignatureSerializeCompact(
	ctx *Context, output64 []byte, sig *RecoverableSignature,
) (recid int, ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(len(output64) == CompactSignatureSize, ctx, "output64 != NULL") {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	copy(output64, sig.data[:64])
	return int(sig.data[64]), true
}

// ECDSARecoverableSignatureConvert drops the recovery id of sigin.
func ECDSARecoverableSignatureConvert(
	ctx *Context, sig *Signature, sigin *RecoverableSignature,
) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	if !argCheck(sigin != nil, ctx, "sigin != NULL") {
		return
	}
	copy(sig.data[:], sigin.data[:64])
	return true
}

// ECDSASignRecoverable creates a lower-S signature of msghash with seckey,
// recording the recovery id of the public key. Nonce handling is as for
// ECDSASign.
func ECDSASignRecoverable(
	ctx *Context, sig *RecoverableSignature, msghash *MessageHash,
	seckey *SecretKey, noncefp NonceFunction, ndata any,
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
	var recid int
	if !ctx.ecdsaSignInner(&r, &s, &recid, msghash, seckey, noncefp, ndata) {
		return
	}
	sigSave(sig.data[:], &r, &s)
	sig.data[64] = byte(recid)
	return true
}

// ECDSARecover computes the public key that produced sig over msghash. On
// failure pubkey is zeroed.
func ECDSARecover(
	ctx *Context, pubkey *PublicKey, sig *RecoverableSignature,
	msghash *MessageHash,
) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	pubkey.clear()
	if !argCheck(sig != nil, ctx, "signature != NULL") {
		return
	}
	if !argCheck(msghash != nil, ctx, "msghash32 != NULL") {
		return
	}
	recid := int(sig.data[64])
	if !argCheck(recid >= 0 && recid <= 3, ctx, "recid >= 0 && recid <= 3") {
		return
	}
	var r, s secp.ModNScalar
	sigLoad(&r, &s, sig.data[:])
	var q secp.JacobianPoint
	if !ecdsaSigRecover(&q, &r, &s, recid, msghash) {
		return
	}
	pubkeySave(pubkey, &q)
	return true
}
