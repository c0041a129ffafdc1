package s256k1

import (
	"bytes"
	"errors"
	"testing"
)

const (
	derVectorHex = "304402204e45e16932b8af514961a1d3a1a25fdf3f4f7732e9d624c6c61548ab5fb8cd410220181522ec8eca07de4860a4acdd12909d831cc56cbbac4622082221a8768d1d09"
	// r has its high bit set so it carries a zero pad byte
	satoshiDERHex = "3045022100934b1ea10a4b3c1757e2b0c017d0b6143ce3c9a7e6a4a49860d7a6ab210ee3d802202442ce9d2b916064108014783e923ec36b49743e2ffa1c4496f01a512aafd9e5"
	// both values padded, the largest encoding
	maxDERHex = "3046022100fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140022100dbbd3162d46e9f9bef7feb87c16dc13b4f6568a87f4e83f728e2443ba586675c"
)

func TestDERRoundTrip(t *testing.T) {
	ctx, rec := newTestContext(t)
	for _, vec := range []string{
		derVectorHex,
		satoshiDERHex,
		maxDERHex,
		"3006020101020101",
	} {
		input := hexToBytes(t, vec)
		var sig Signature
		if !ECDSASignatureParseDER(ctx, &sig, input) {
			t.Fatalf("failed to parse %s", vec)
		}
		out := make([]byte, MaxDERSignatureSize)
		n, ok := ECDSASignatureSerializeDER(ctx, out, &sig)
		if !ok {
			t.Fatalf("failed to serialize %s", vec)
		}
		if !bytes.Equal(out[:n], input) {
			t.Errorf("round trip\n got %x\nwant %s", out[:n], vec)
		}
	}
	if rec.count() != 0 {
		t.Errorf("unexpected callbacks: %s", dump(rec.msgs))
	}
}

func TestDERSerializeDoesNotNormalize(t *testing.T) {
	ctx, _ := newTestContext(t)
	var sig Signature
	if !ECDSASignatureParseDER(ctx, &sig, hexToBytes(t, maxDERHex)) {
		t.Fatal("parse failed")
	}
	if !ECDSASignatureNormalize(ctx, nil, &sig) {
		t.Fatal("vector should be high-S")
	}
	out := make([]byte, MaxDERSignatureSize)
	if n, ok := ECDSASignatureSerializeDER(ctx, out, &sig); !ok || n != MaxDERSignatureSize {
		t.Errorf("n=%d ok=%v", n, ok)
	}
}

func TestDERSerializeShortBuffer(t *testing.T) {
	ctx, rec := newTestContext(t)
	var sig Signature
	ECDSASignatureParseDER(ctx, &sig, hexToBytes(t, derVectorHex))
	if _, ok := ECDSASignatureSerializeDER(ctx, make([]byte, 71), &sig); ok {
		t.Error("71 byte buffer should be rejected")
	}
	if rec.count() != 1 {
		t.Error("short buffer is an illegal argument")
	}
}

func TestParseDERSignatureErrors(t *testing.T) {
	ctx, rec := newTestContext(t)
	tooLong := make([]byte, MaxDERSignatureSize+1)
	tooLong[0] = asn1SequenceID
	tooLong[1] = byte(len(tooLong) - 2)
	testCases := []struct {
		name string
		sig  []byte
		err  ErrorKind
	}{
		{"empty", []byte{}, ErrSigTooShort},
		{"too short", hexToBytes(t, "300602010102"), ErrSigTooShort},
		{"too long", tooLong, ErrSigTooLong},
		{"bad sequence id", hexToBytes(t, "3106020101020101"), ErrSigInvalidSeqID},
		{"bad data length", hexToBytes(t, "3007020101020101"), ErrSigInvalidDataLen},
		{"S type missing", hexToBytes(t, "3006020401020101"), ErrSigMissingSTypeID},
		{"S length missing", hexToBytes(t, "3006020301020101"), ErrSigMissingSLen},
		{"bad S length", hexToBytes(t, "3006020101020201"), ErrSigInvalidSLen},
		{"bad R integer id", hexToBytes(t, "3006030101020101"), ErrSigInvalidRIntID},
		{"zero R length", hexToBytes(t, "3006020002020101"), ErrSigZeroRLen},
		{"negative R", hexToBytes(t, "3006020181020101"), ErrSigNegativeR},
		{"R padding", hexToBytes(t, "300702020001020101"), ErrSigTooMuchRPadding},
		{"bad S integer id", hexToBytes(t, "3006020101030101"), ErrSigInvalidSIntID},
		{"zero S length", hexToBytes(t, "3006020201010200"), ErrSigZeroSLen},
		{"negative S", hexToBytes(t, "3006020101020181"), ErrSigNegativeS},
		{"S padding", hexToBytes(t, "300702010102020001"), ErrSigTooMuchSPadding},
		{"R is zero", hexToBytes(t, "3006020100020101"), ErrSigRIsZero},
		{"S is zero", hexToBytes(t, "3006020101020100"), ErrSigSIsZero},
		{"R is order", hexToBytes(t, "3026022100"+orderHex+"020101"), ErrSigRTooBig},
		{"S is order", hexToBytes(t, "3026020101022100"+orderHex), ErrSigSTooBig},
		{"trailing byte", hexToBytes(t, "300702010102010100"), ErrSigInvalidSLen},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDERSignature(tc.sig)
			if !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}
			var e Error
			if !errors.As(err, &e) || e.Description == "" {
				t.Errorf("error should carry a description: %v", err)
			}
			sig := Signature{data: [SignatureSize]byte{1}}
			if ECDSASignatureParseDER(ctx, &sig, tc.sig) {
				t.Error("ECDSASignatureParseDER accepted the encoding")
			}
			if sig != (Signature{}) {
				t.Error("signature should be zeroed on failure")
			}
		})
	}
	if rec.count() != 0 {
		t.Errorf("malformed encodings are not illegal arguments: %s", dump(rec.msgs))
	}
}
