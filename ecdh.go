package s256k1

import (
	"io"

	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/hkdf"
)

// ECDHHashFunction turns the shared point (x32, y32) into the output secret.
// It returns false to make ECDH fail.
type ECDHHashFunction func(output, x32, y32 []byte, data any) bool

// ECDHHashFunctionSHA256 is the default: SHA-256 of the compressed encoding of
// the shared point, that is the version byte 0x02 | (y & 1) followed by x.
// The output must be 32 bytes.
func ECDHHashFunctionSHA256(output, x32, y32 []byte, _ any) bool {
	if len(output) != ECDHSecretSize || len(x32) != 32 || len(y32) != 32 {
		return false
	}
	version := (y32[31] & 0x01) | 0x02
	sha := NewSHA256()
	sha.Write([]byte{version})
	sha.Write(x32)
	sha.Finalize(output)
	sha.Clear()
	return true
}

// ECDHHashFunctionRawX copies the x coordinate of the shared point unhashed,
// as RFC 5903 does. The output must be 32 bytes.
func ECDHHashFunctionRawX(output, x32, _ []byte, _ any) bool {
	if len(output) != ECDHSecretSize || len(x32) != 32 {
		return false
	}
	copy(output, x32)
	return true
}

// ECDHHashFunctionHKDF derives the output with HKDF-SHA256 from the compressed
// shared point. Any output length HKDF supports is allowed.
func ECDHHashFunctionHKDF(salt, info []byte) ECDHHashFunction {
	return func(output, x32, y32 []byte, _ any) bool {
		if len(output) == 0 || len(x32) != 32 || len(y32) != 32 {
			return false
		}
		var ikm [CompressedPublicKeySize]byte
		defer memclear(ikm[:])
		ikm[0] = (y32[31] & 0x01) | 0x02
		copy(ikm[1:], x32)
		r := hkdf.New(sha256simd.New, ikm[:], salt, info)
		if _, err := io.ReadFull(r, output); err != nil {
			return false
		}
		return true
	}
}

// ECDH computes an EC Diffie-Hellman secret from pubkey and seckey into
// output. A nil hashfp selects ECDHHashFunctionSHA256; data is passed through
// to hashfp. It fails if seckey is not a valid secret key or hashfp fails.
func ECDH(
	ctx *Context, output []byte, pubkey *PublicKey, seckey *SecretKey,
	hashfp ECDHHashFunction, data any,
) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(output != nil, ctx, "output != NULL") {
		return
	}
	if !argCheck(pubkey != nil, ctx, "pubkey != NULL") {
		return
	}
	if !argCheck(seckey != nil, ctx, "seckey != NULL") {
		return
	}
	if hashfp == nil {
		hashfp = ECDHHashFunctionSHA256
	}
	pk, loaded := pubkeyLoad(pubkey)
	if !argCheck(loaded, ctx, "pubkey initialized") {
		return
	}
	var x, y [32]byte
	defer memclear(x[:])
	defer memclear(y[:])
	if !ecdhPoint(&x, &y, pk, seckey) {
		return
	}
	return hashfp(output, x[:], y[:], data)
}
