package s256k1

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"lol.mleku.dev/chk"
	"lol.mleku.dev/log"
)

// ECSecKeyVerify reports whether seckey is a valid secret key, that is,
// nonzero and less than the group order.
func ECSecKeyVerify(ctx *Context, seckey *SecretKey) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	return scalarInRange((*[32]byte)(seckey))
}

// ECPubkeyCreate computes the public key for seckey. On failure pubkey is
// zeroed.
func ECPubkeyCreate(ctx *Context, pubkey *PublicKey, seckey *SecretKey) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	pubkey.clear()
	if !ctx.canGenerate() {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	return ctx.pubkeyCreate(pubkey, seckey)
}

// ECPubkeyParse decodes a 33 byte compressed (0x02, 0x03) or 65 byte
// uncompressed (0x04) public key. Hybrid encodings, coordinates not below the
// field prime and points off the curve are rejected. On failure pubkey is
// zeroed.
func ECPubkeyParse(ctx *Context, pubkey *PublicKey, input []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	pubkey.clear()
	if !argCheck(input != nil, ctx, "input != NULL") {
		return
	}
	parsed, err := ParsePubKey(input)
	if err != nil {
		log.T.F("rejecting public key: %v", err)
		return
	}
	*pubkey = *parsed
	return true
}

// ParsePubKey decodes a 33 byte compressed or 65 byte uncompressed public key
// and reports why an encoding was rejected.
func ParsePubKey(input []byte) (pubkey *PublicKey, err error) {
	switch {
	case len(input) == CompressedPublicKeySize &&
		(input[0] == TagPubkeyEven || input[0] == TagPubkeyOdd):
	case len(input) == UncompressedPublicKeySize &&
		input[0] == TagPubkeyUncompressed:
	default:
		var prefix byte
		if len(input) > 0 {
			prefix = input[0]
		}
		err = makeError(ErrPubKeyInvalidFormat, fmt.Sprintf(
			"unsupported public key encoding: prefix %#x, length %d",
			prefix, len(input)))
		return
	}
	pubkey = new(PublicKey)
	if err = pubkeyParse(pubkey, input); err != nil {
		pubkey = nil
	}
	return
}

// ECPubkeySerialize encodes pubkey into output and returns the number of bytes
// written. ECCompressed needs exactly 33 bytes of output, ECUncompressed (or
// a zero flag) exactly 65.
func ECPubkeySerialize(
	ctx *Context, output []byte, pubkey *PublicKey, flags uint,
) (n int, ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(output != nil, ctx, "output != NULL") {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	if !argCheck(flags == 0 || flags == ECCompressed || flags == ECUncompressed,
		ctx, "(flags & SECP256K1_FLAGS_TYPE_MASK) == SECP256K1_FLAGS_TYPE_COMPRESSION") {
		return
	}
	compressed := flags == ECCompressed
	want := UncompressedPublicKeySize
	if compressed {
		want = CompressedPublicKeySize
	}
	if !argCheck(len(output) == want, ctx, "*outputlen == ((flags & SECP256K1_FLAGS_BIT_COMPRESSION) ? 33u : 65u)") {
		return
	}
	memclear(output)
	pk, loaded := pubkeyLoad(pubkey)
	if !argCheck(loaded, ctx, "pubkey initialized") {
		return
	}
	if compressed {
		copy(output, pk.SerializeCompressed())
	} else {
		copy(output, pk.SerializeUncompressed())
	}
	return want, true
}

// ECPubkeyCmp compares the compressed encodings of two public keys and returns
// a negative, zero or positive value like bytes.Compare. An uninitialized key
// is an illegal argument and sorts before every valid key.
func ECPubkeyCmp(ctx *Context, pubkey1, pubkey2 *PublicKey) int {
	if !checkContext(ctx) {
		return 0
	}
	if !argCheck(pubkey1 != nil, ctx, "pubkey0 != NULL") {
		return 0
	}
	if !argCheck(pubkey2 != nil, ctx, "pubkey1 != NULL") {
		return 0
	}
	var out [2][CompressedPublicKeySize]byte
	for i, pk := range []*PublicKey{pubkey1, pubkey2} {
		if p, loaded := pubkeyLoad(pk); argCheck(loaded, ctx, "pubkey initialized") {
			copy(out[i][:], p.SerializeCompressed())
		}
	}
	return bytes.Compare(out[0][:], out[1][:])
}

// ECSecKeyGenerate draws secret keys from crypto/rand until one is valid.
func ECSecKeyGenerate(ctx *Context) (seckey *SecretKey, err error) {
	if !checkContext(ctx) {
		err = makeError(ErrContextDestroyed, "invalid context")
		return
	}
	seckey = new(SecretKey)
	for {
		if _, err = rand.Read(seckey[:]); chk.E(err) {
			seckey = nil
			return
		}
		if scalarInRange((*[32]byte)(seckey)) {
			return
		}
	}
}

// ECKeyPairGenerate generates a secret key and its public key.
func ECKeyPairGenerate(ctx *Context) (seckey *SecretKey, pubkey *PublicKey, err error) {
	if seckey, err = ECSecKeyGenerate(ctx); err != nil {
		return
	}
	if ctx.static {
		err = makeError(ErrStaticContext, "cannot create public keys on the static context")
		seckey.Zero()
		seckey = nil
		return
	}
	pubkey = new(PublicKey)
	if !ctx.pubkeyCreate(pubkey, seckey) {
		err = makeError(ErrSelfTest, "generated secret key did not produce a public key")
		seckey.Zero()
		seckey, pubkey = nil, nil
	}
	return
}

// ECSecKeyNegate replaces seckey with its negation. It fails, leaving seckey
// zeroed, if seckey is not valid.
func ECSecKeyNegate(ctx *Context, seckey *SecretKey) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	if ok = seckeyNegate(seckey); !ok {
		seckey.Zero()
	}
	return
}

// ECPubkeyNegate replaces pubkey with its negation.
func ECPubkeyNegate(ctx *Context, pubkey *PublicKey) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	return argCheck(pubkeyNegate(pubkey), ctx, "pubkey initialized")
}

// ECSecKeyTweakAdd adds tweak to seckey modulo the group order. It fails,
// leaving seckey zeroed, when seckey is invalid, tweak is not below the order
// or the result is zero.
func ECSecKeyTweakAdd(ctx *Context, seckey *SecretKey, tweak []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	if !argCheck(len(tweak) == 32, ctx, "tweak32 != NULL") {
		return
	}
	if ok = seckeyTweakAdd(seckey, (*[32]byte)(tweak)); !ok {
		seckey.Zero()
	}
	return
}

// ECSecKeyTweakMul multiplies seckey by tweak modulo the group order. The
// tweak must itself be a valid secret. On failure seckey is zeroed.
func ECSecKeyTweakMul(ctx *Context, seckey *SecretKey, tweak []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	if !argCheck(len(tweak) == 32, ctx, "tweak32 != NULL") {
		return
	}
	if ok = seckeyTweakMul(seckey, (*[32]byte)(tweak)); !ok {
		seckey.Zero()
	}
	return
}

// ECPubkeyTweakAdd adds tweak*G to pubkey. On failure pubkey is zeroed.
func ECPubkeyTweakAdd(ctx *Context, pubkey *PublicKey, tweak []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	if !argCheck(len(tweak) == 32, ctx, "tweak32 != NULL") {
		return
	}
	if ok = pubkeyTweakAdd(pubkey, (*[32]byte)(tweak)); !ok {
		pubkey.clear()
	}
	return
}

// ECPubkeyTweakMul multiplies pubkey by tweak. On failure pubkey is zeroed.
func ECPubkeyTweakMul(ctx *Context, pubkey *PublicKey, tweak []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	if !argCheck(len(tweak) == 32, ctx, "tweak32 != NULL") {
		return
	}
	if ok = pubkeyTweakMul(pubkey, (*[32]byte)(tweak)); !ok {
		pubkey.clear()
	}
	return
}
