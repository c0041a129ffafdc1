package s256k1

import (
	"encoding/hex"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// recorder collects the messages passed to an error callback.
type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) callback(message string, _ any) {
	r.mu.Lock()
	r.msgs = append(r.msgs, message)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return ""
	}
	return r.msgs[len(r.msgs)-1]
}

// newTestContext creates a context whose callback records instead of
// panicking. It is destroyed when the test ends.
func newTestContext(t testing.TB) (*Context, *recorder) {
	t.Helper()
	rec := new(recorder)
	ctx, err := ContextCreate(ContextNone, WithErrorCallback(rec.callback, nil))
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	t.Cleanup(func() { ContextDestroy(ctx) })
	return ctx, rec
}

func hexToBytes(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func hexToSecretKey(t testing.TB, s string) *SecretKey {
	t.Helper()
	sk, err := SecretKeyFromBytes(hexToBytes(t, s))
	if err != nil {
		t.Fatalf("bad secret key %q: %v", s, err)
	}
	return sk
}

func hexToMessageHash(t testing.TB, s string) *MessageHash {
	t.Helper()
	h, err := MessageHashFromBytes(hexToBytes(t, s))
	if err != nil {
		t.Fatalf("bad message hash %q: %v", s, err)
	}
	return h
}

// scalarSecretKey returns the secret key holding the small value v.
func scalarSecretKey(v uint64) *SecretKey {
	var sk SecretKey
	for i := 0; i < 8; i++ {
		sk[31-i] = byte(v >> (8 * i))
	}
	return &sk
}

// expectPanic runs fn and fails the test unless it panics.
func expectPanic(t *testing.T, name string, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		if recovered = recover(); recovered == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
	return
}

// dump renders values for failure messages.
func dump(v ...any) string {
	return spew.Sdump(v...)
}

// Known values used across the tests.
const (
	// order of the group
	orderHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	// order minus one
	orderMinusOneHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140"
	// order / 2
	halfOrderHex = "7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0"

	generatorXHex = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	generatorYHex = "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
	twoGXHex      = "c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
	twoGYHex      = "1ae168fea63dc339a3c58419466ceaeef7f632653266d0e1236431a950cfe52a"
	negGYHex      = "b7c52588d95c3b9aa25b0403f1eef75702e84bb7597aabe663b82f6f04ef2777"

	// sha256("abc")
	abcHashHex = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	// sha256("Satoshi Nakamoto")
	satoshiHashHex = "a0dc65ffca799873cbea0ac274015b9526505daaaed385155425f7337704883e"
)
