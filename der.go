package s256k1

import (
	"fmt"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"lol.mleku.dev/log"
)

const (
	// asn1SequenceID is the ASN.1 identifier for a sequence and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1IntegerID = 0x02

	// minSigLen is the minimum length of a DER encoded signature: the sequence
	// header and two one byte integers, each with their own headers.
	minSigLen = 8
)

// ParseDERSignature parses a signature in the strict subset of DER that
// Bitcoin consensus accepts and reports why an encoding was rejected. Both r
// and s must be in [1, n-1].
//
// The format is:
//
//	0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
//
// where R and S are minimal big-endian two's complement integers that must be
// positive.
func ParseDERSignature(sig []byte) (*Signature, error) {
	const (
		// The byte offsets of the fields within the encoding.
		sequenceOffset = 0
		dataLenOffset  = 1
		rTypeOffset    = 2
		rLenOffset     = 3
		rOffset        = 4
		dataLenPadding = 2
	)

	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			minSigLen)
		return nil, makeError(ErrSigTooShort, str)
	}
	if sigLen > MaxDERSignatureSize {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			MaxDERSignatureSize)
		return nil, makeError(ErrSigTooLong, str)
	}
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[sequenceOffset])
		return nil, makeError(ErrSigInvalidSeqID, str)
	}
	if int(sig[dataLenOffset]) != sigLen-dataLenPadding {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-dataLenPadding)
		return nil, makeError(ErrSigInvalidDataLen, str)
	}

	// R
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return nil, makeError(ErrSigMissingSTypeID, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return nil, makeError(ErrSigMissingSLen, str)
	}

	// S
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		str := "malformed signature: invalid S length"
		return nil, makeError(ErrSigInvalidSLen, str)
	}

	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return nil, makeError(ErrSigInvalidRIntID, str)
	}
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return nil, makeError(ErrSigZeroRLen, str)
	}
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return nil, makeError(ErrSigNegativeR, str)
	}
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return nil, makeError(ErrSigTooMuchRPadding, str)
	}

	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return nil, makeError(ErrSigInvalidSIntID, str)
	}
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return nil, makeError(ErrSigZeroSLen, str)
	}
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return nil, makeError(ErrSigNegativeS, str)
	}
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return nil, makeError(ErrSigTooMuchSPadding, str)
	}

	var r, s secp.ModNScalar
	rBytes := sig[rOffset : rOffset+rLen]
	for len(rBytes) > 0 && rBytes[0] == 0x00 {
		rBytes = rBytes[1:]
	}
	if len(rBytes) > 32 {
		str := "invalid signature: R is larger than 256 bits"
		return nil, makeError(ErrSigRTooBig, str)
	}
	if overflow := r.SetByteSlice(rBytes); overflow {
		str := "invalid signature: R >= group order"
		return nil, makeError(ErrSigRTooBig, str)
	}
	if r.IsZero() {
		str := "invalid signature: R is 0"
		return nil, makeError(ErrSigRIsZero, str)
	}

	sBytes := sig[sOffset : sOffset+sLen]
	for len(sBytes) > 0 && sBytes[0] == 0x00 {
		sBytes = sBytes[1:]
	}
	if len(sBytes) > 32 {
		str := "invalid signature: S is larger than 256 bits"
		return nil, makeError(ErrSigSTooBig, str)
	}
	if overflow := s.SetByteSlice(sBytes); overflow {
		str := "invalid signature: S >= group order"
		return nil, makeError(ErrSigSTooBig, str)
	}
	if s.IsZero() {
		str := "invalid signature: S is 0"
		return nil, makeError(ErrSigSIsZero, str)
	}

	sigOut := new(Signature)
	scalarSave(sigOut.data[:32], &r)
	scalarSave(sigOut.data[32:], &s)
	return sigOut, nil
}

// ECDSASignatureParseDER parses a strict DER signature into sig. On failure
// sig is zeroed.
func ECDSASignatureParseDER(ctx *Context, sig *Signature, input []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	sig.clear()
	if !argCheck(input != nil, ctx, "input != NULL") {
		return
	}
	parsed, err := ParseDERSignature(input)
	if err != nil {
		log.T.F("rejecting DER signature: %v", err)
		return
	}
	*sig = *parsed
	return true
}

// ECDSASignatureSerializeDER writes the minimal DER encoding of sig into
// output, which must have room for MaxDERSignatureSize bytes, and returns the
// encoded length. S is written as stored; normalize first if low-S is needed.
func ECDSASignatureSerializeDER(ctx *Context, output []byte, sig *Signature) (n int, ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(len(output) >= MaxDERSignatureSize, ctx,
		"output != NULL && *outputlen >= 72") {
		return
	}
	if !argCheck(sig != nil, ctx, "sig != NULL") {
		return
	}
	// Ensure the encoded bytes for r and s are canonical by removing leading
	// zero bytes and prepending a zero when the high bit would make them
	// negative.
	canonR := canonicalPadding(sig.data[:32])
	canonS := canonicalPadding(sig.data[32:])

	// Total length of returned signature is 1 byte for each magic and length
	// (6 total), plus lengths of R and S.
	n = 6 + len(canonR) + len(canonS)
	output[0] = asn1SequenceID
	output[1] = byte(n - 2)
	output[2] = asn1IntegerID
	output[3] = byte(len(canonR))
	offset := 4 + copy(output[4:], canonR)
	output[offset] = asn1IntegerID
	output[offset+1] = byte(len(canonS))
	copy(output[offset+2:], canonS)
	return n, true
}

// canonicalPadding strips leading zeros from a 32 byte big-endian value and
// prefixes 0x00 when the remaining high bit is set. A zero value encodes as a
// single zero byte.
func canonicalPadding(b []byte) []byte {
	for len(b) > 1 && b[0] == 0x00 {
		b = b[1:]
	}
	if b[0]&0x80 != 0 {
		padded := make([]byte, len(b)+1)
		copy(padded[1:], b)
		return padded
	}
	return b
}
