package s256k1

import (
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestContextCreate(t *testing.T) {
	testCases := []struct {
		name  string
		flags uint
	}{
		{"none", ContextNone},
		{"sign", ContextSign},
		{"verify", ContextVerify},
		{"both", ContextSign | ContextVerify},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, err := ContextCreate(tc.flags)
			if err != nil {
				t.Fatalf("ContextCreate failed: %v", err)
			}
			defer ContextDestroy(ctx)
			// every context can sign and verify regardless of the legacy flags
			var pk PublicKey
			if !ECPubkeyCreate(ctx, &pk, scalarSecretKey(1)) {
				t.Error("context should be able to create public keys")
			}
		})
	}

	if _, err := ContextCreate(1 << 5); !errors.Is(err, ErrInvalidFlags) {
		t.Errorf("expected ErrInvalidFlags, got %v", err)
	}
	if _, err := ContextCreate(ContextNone, WithRandomizationSeed(make([]byte, 31))); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestContextDestroy(t *testing.T) {
	// nil is a no-op
	ContextDestroy(nil)

	ctx, err := ContextCreate(ContextNone)
	if err != nil {
		t.Fatal(err)
	}
	ContextDestroy(ctx)

	r := expectPanic(t, "double destroy", func() { ContextDestroy(ctx) })
	if e, ok := r.(error); !ok || !errors.Is(e, ErrContextDestroyed) {
		t.Errorf("double destroy panicked with %v", r)
	}
	r = expectPanic(t, "use after destroy", func() {
		ECSecKeyVerify(ctx, scalarSecretKey(1))
	})
	if e, ok := r.(error); !ok || !errors.Is(e, ErrContextDestroyed) {
		t.Errorf("use after destroy panicked with %v", r)
	}
}

func TestContextDestroyedIgnoresCallback(t *testing.T) {
	rec := new(recorder)
	ctx, err := ContextCreate(ContextNone, WithErrorCallback(rec.callback, nil))
	if err != nil {
		t.Fatal(err)
	}
	ContextDestroy(ctx)
	expectPanic(t, "sign after destroy", func() {
		var sig Signature
		ECDSASign(ctx, &sig, new(MessageHash), scalarSecretKey(1), nil, nil)
	})
	if rec.count() != 0 {
		t.Errorf("callback should not be involved, got %d calls", rec.count())
	}
}

func TestDefaultCallbackPanics(t *testing.T) {
	ctx, err := ContextCreate(ContextNone)
	if err != nil {
		t.Fatal(err)
	}
	defer ContextDestroy(ctx)
	r := expectPanic(t, "nil seckey", func() { ECSecKeyVerify(ctx, nil) })
	if s, ok := r.(string); !ok || s != "illegal argument: seckey != NULL" {
		t.Errorf("unexpected panic value %v", r)
	}
	expectPanic(t, "nil context", func() { ECSecKeyVerify(nil, scalarSecretKey(1)) })
}

func TestCustomCallback(t *testing.T) {
	ctx, rec := newTestContext(t)
	var data any
	ContextSetErrorCallback(ctx, func(message string, d any) {
		rec.callback(message, d)
		data = d
	}, "marker")

	if ECSecKeyVerify(ctx, nil) {
		t.Error("nil seckey should fail")
	}
	if rec.count() != 1 || rec.last() != "seckey != NULL" {
		t.Errorf("callback calls: %s", dump(rec.msgs))
	}
	if data != "marker" {
		t.Errorf("callback data = %v", data)
	}

	// invalid data is not an illegal argument
	var zero SecretKey
	if ECSecKeyVerify(ctx, &zero) {
		t.Error("zero key should not verify")
	}
	if rec.count() != 1 {
		t.Errorf("validation failure should not reach the callback")
	}
}

func TestCallbackReplacesItself(t *testing.T) {
	ctx, rec := newTestContext(t)
	calls := 0
	ContextSetErrorCallback(ctx, func(message string, _ any) {
		calls++
		// replacing the callback from inside the callback must not deadlock
		ContextSetErrorCallback(ctx, rec.callback, nil)
	}, nil)
	ECSecKeyVerify(ctx, nil)
	ECSecKeyVerify(ctx, nil)
	if calls != 1 || rec.count() != 1 {
		t.Errorf("calls=%d recorded=%d", calls, rec.count())
	}
}

func TestContextStatic(t *testing.T) {
	sk := scalarSecretKey(1)
	if !ECSecKeyVerify(ContextStatic, sk) {
		t.Error("static context should verify secret keys")
	}
	var pk PublicKey
	expectPanic(t, "create on static", func() { ECPubkeyCreate(ContextStatic, &pk, sk) })
	expectPanic(t, "sign on static", func() {
		var sig Signature
		ECDSASign(ContextStatic, &sig, new(MessageHash), sk, nil, nil)
	})
	expectPanic(t, "randomize static", func() { ContextRandomize(ContextStatic, nil) })
	expectPanic(t, "destroy static", func() { ContextDestroy(ContextStatic) })

	// parsing and verifying work
	ctx, _ := newTestContext(t)
	if !ECPubkeyCreate(ctx, &pk, sk) {
		t.Fatal("failed to create public key")
	}
	var sig Signature
	msg := hexToMessageHash(t, abcHashHex)
	if !ECDSASign(ctx, &sig, msg, sk, nil, nil) {
		t.Fatal("failed to sign")
	}
	var ser [CompressedPublicKeySize]byte
	if _, ok := ECPubkeySerialize(ContextStatic, ser[:], &pk, ECCompressed); !ok {
		t.Fatal("static serialize failed")
	}
	var parsed PublicKey
	if !ECPubkeyParse(ContextStatic, &parsed, ser[:]) {
		t.Fatal("static parse failed")
	}
	if !ECDSAVerify(ContextStatic, &sig, msg, &parsed) {
		t.Error("static verify failed")
	}
}

func TestContextClone(t *testing.T) {
	rec := new(recorder)
	ctx, err := ContextCreate(ContextNone, WithErrorCallback(rec.callback, nil))
	if err != nil {
		t.Fatal(err)
	}
	if !ContextRandomize(ctx, make([]byte, 32)) {
		t.Fatal("randomize failed")
	}
	clone, err := ContextClone(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ContextDestroy(ctx)
	defer ContextDestroy(clone)
	// the clone keeps the recording callback and is independent of ctx
	if ECSecKeyVerify(clone, nil) {
		t.Error("nil seckey should fail")
	}
	if rec.count() != 1 {
		t.Errorf("clone should share the callback, got %d calls", rec.count())
	}
	if _, err = ContextClone(ContextStatic); !errors.Is(err, ErrStaticContext) {
		t.Errorf("expected ErrStaticContext, got %v", err)
	}
}

func TestContextRandomize(t *testing.T) {
	ctx, rec := newTestContext(t)
	sk := hexToSecretKey(t, orderMinusOneHex)
	msg := hexToMessageHash(t, abcHashHex)

	var pk0, pk1 PublicKey
	var sig0, sig1 Signature
	if !ECPubkeyCreate(ctx, &pk0, sk) || !ECDSASign(ctx, &sig0, msg, sk, nil, nil) {
		t.Fatal("unblinded operations failed")
	}
	seeds := [][]byte{
		make([]byte, 32),
		hexToBytes(t, abcHashHex),
		hexToBytes(t, orderHex),
		nil,
	}
	for i, seed := range seeds {
		if !ContextRandomize(ctx, seed) {
			t.Fatalf("seed %d: randomize failed", i)
		}
		if !ECPubkeyCreate(ctx, &pk1, sk) || !ECDSASign(ctx, &sig1, msg, sk, nil, nil) {
			t.Fatalf("seed %d: blinded operations failed", i)
		}
		// blinding never changes results
		if pk0 != pk1 || sig0 != sig1 {
			t.Errorf("seed %d: blinding changed the output\n%s", i, dump(pk0, pk1))
		}
	}
	if ContextRandomize(ctx, make([]byte, 16)) {
		t.Error("short seed should be rejected")
	}
	if rec.count() != 1 {
		t.Errorf("short seed should be an illegal argument")
	}
}

func TestContextConcurrentUse(t *testing.T) {
	ctx, rec := newTestContext(t)
	msg := hexToMessageHash(t, abcHashHex)
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			sk := scalarSecretKey(uint64(i + 1))
			var pk PublicKey
			var sig Signature
			for j := 0; j < 16; j++ {
				if !ECPubkeyCreate(ctx, &pk, sk) {
					return errors.New("create failed")
				}
				if !ECDSASign(ctx, &sig, msg, sk, nil, nil) {
					return errors.New("sign failed")
				}
				if !ECDSAVerify(ctx, &sig, msg, &pk) {
					return errors.New("verify failed")
				}
				// callback traffic interleaved with signing
				ECSecKeyVerify(ctx, nil)
			}
			return nil
		})
	}
	g.Go(func() error {
		for j := 0; j < 32; j++ {
			ContextSetErrorCallback(ctx, rec.callback, j)
			seed := scalarSecretKey(uint64(j + 1))
			if !ContextRandomize(ctx, seed[:]) {
				return errors.New("randomize failed")
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if rec.count() != 8*16 {
		t.Errorf("expected %d callback calls, got %d", 8*16, rec.count())
	}
}

func TestSelftest(t *testing.T) {
	if err := selftest(); err != nil {
		t.Fatalf("self test failed: %v", err)
	}
}
