// Package s256k1 is a secp256k1 operation layer shaped after libsecp256k1:
// secret key validation, public key derivation and encoding, ECDSA signing and
// verification, recoverable signatures with public key recovery, strict DER
// and compact signature encodings, lower-S normalization and ECDH.
//
// Every operation takes a *Context first and reports success as a bool.
// Invalid input data (a secret key out of range, a malformed encoding, a
// signature that does not verify) simply returns false. Misuse by the caller
// (a nil pointer, a buffer of the wrong size, an out of range recovery id) is
// reported through the context's error callback before returning false. The
// default callback logs and panics; install another with
// ContextSetErrorCallback to survive misuse.
//
// Point and scalar arithmetic is delegated to
// github.com/decred/dcrd/dcrec/secp256k1/v4.
package s256k1
