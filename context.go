package s256k1

import (
	"fmt"
	"sync"
	"sync/atomic"

	"lol.mleku.dev/log"
)

// Context flags. Every non-static context can sign and verify, the sign and
// verify flags are kept so callers written against the older flag scheme still
// work.
const (
	ContextNone   = 0
	ContextSign   = 1 << 0
	ContextVerify = 1 << 1

	contextFlagsMask = ContextSign | ContextVerify
)

// ErrorCallback receives the message describing an illegal argument or an
// internal invariant violation. It cannot change the outcome of the call that
// triggered it: that call still reports failure.
type ErrorCallback func(message string, data any)

type callback struct {
	fn   ErrorCallback
	data any
}

func (cb callback) call(message string) {
	if cb.fn == nil {
		defaultErrorCallback(message, nil)
		return
	}
	cb.fn(message, cb.data)
}

// defaultErrorCallback is fatal: it logs and panics. Hosts that need to survive
// illegal arguments install their own callback with ContextSetErrorCallback.
func defaultErrorCallback(message string, _ any) {
	log.E.F("illegal argument: %s", message)
	panic("illegal argument: " + message)
}

// Context holds the error callback and the generator blinding state. It is
// safe for concurrent use; replacing the callback and randomizing take a write
// lock, operations only ever read.
type Context struct {
	mu        sync.RWMutex
	errorCb   callback
	blind     blinding
	static    bool
	destroyed atomic.Bool
}

// ContextStatic can parse, serialize and verify but has no generator state
// of its own: creating keys, signing and randomizing on it are illegal
// arguments. It is never destroyed and its callback cannot be replaced.
var ContextStatic = &Context{static: true}

// Option configures a context at creation.
type Option func(ctx *Context) (err error)

// WithErrorCallback installs fn as the error callback of the new context.
func WithErrorCallback(fn ErrorCallback, data any) Option {
	return func(ctx *Context) (err error) {
		ctx.errorCb = callback{fn: fn, data: data}
		return
	}
}

// WithRandomizationSeed blinds generator multiplication with the given 32
// byte seed, as ContextRandomize does.
func WithRandomizationSeed(seed32 []byte) Option {
	return func(ctx *Context) (err error) {
		if len(seed32) != 32 {
			err = makeError(ErrInvalidSeed, fmt.Sprintf(
				"seed must be 32 bytes, got %d", len(seed32)))
			return
		}
		ctx.blind = newBlinding(seed32)
		return
	}
}

// ContextCreate creates a new context. It must be released exactly once with
// ContextDestroy.
func ContextCreate(flags uint, opts ...Option) (ctx *Context, err error) {
	if flags&^contextFlagsMask != 0 {
		err = makeError(ErrInvalidFlags, fmt.Sprintf(
			"invalid context flags %#x", flags))
		return
	}
	c := &Context{}
	for _, opt := range opts {
		if err = opt(c); err != nil {
			return
		}
	}
	// the self test also warms the engine's generator tables
	if err = selftest(); err != nil {
		c.fireError("self test failed")
		return
	}
	ctx = c
	return
}

// ContextClone creates a copy of a context, including its callback and
// blinding. The copy must be destroyed separately.
func ContextClone(ctx *Context) (newCtx *Context, err error) {
	if !checkContext(ctx) {
		err = makeError(ErrContextDestroyed, "invalid context")
		return
	}
	if ctx.static {
		err = makeError(ErrStaticContext, "cannot clone static context")
		return
	}
	ctx.mu.RLock()
	newCtx = &Context{
		errorCb: ctx.errorCb,
		blind:   ctx.blind,
	}
	ctx.mu.RUnlock()
	return
}

// ContextDestroy releases a context. Destroying a context twice panics with
// ErrContextDestroyed, as does any later use of it.
func ContextDestroy(ctx *Context) {
	if ctx == nil {
		return
	}
	if !argCheck(!ctx.static, ctx, "ctx != ContextStatic") {
		return
	}
	if !ctx.destroyed.CompareAndSwap(false, true) {
		panic(makeError(ErrContextDestroyed, "context destroyed twice"))
	}
	ctx.mu.Lock()
	ctx.blind.clear()
	ctx.errorCb = callback{}
	ctx.mu.Unlock()
}

// ContextSetErrorCallback replaces the callback invoked on illegal arguments
// and internal errors. A nil fn restores the default, which panics.
func ContextSetErrorCallback(ctx *Context, fn ErrorCallback, data any) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(!ctx.static, ctx, "ctx != ContextStatic") {
		return
	}
	ctx.mu.Lock()
	ctx.errorCb = callback{fn: fn, data: data}
	ctx.mu.Unlock()
}

// ContextRandomize blinds the generator multiplication used for key creation
// and signing with a value derived from seed32. A nil seed removes the
// blinding.
func ContextRandomize(ctx *Context, seed32 []byte) (ok bool) {
	if !checkContext(ctx) {
		return
	}
	if !argCheck(!ctx.static, ctx, "ctx != ContextStatic") {
		return
	}
	if !argCheck(seed32 == nil || len(seed32) == 32, ctx,
		"seed32 == NULL || len(seed32) == 32") {
		return
	}
	var bl blinding
	if seed32 != nil {
		bl = newBlinding(seed32)
	}
	ctx.mu.Lock()
	old := ctx.blind
	ctx.blind = bl
	ctx.mu.Unlock()
	old.clear()
	return true
}

// fireError reports message through the current callback. The callback is
// read under the lock and invoked after it is released, so a callback may
// itself replace the callback.
func (ctx *Context) fireError(message string) {
	ctx.mu.RLock()
	cb := ctx.errorCb
	ctx.mu.RUnlock()
	cb.call(message)
}

// blinding returns a copy of the current blinding state.
func (ctx *Context) blinding() (bl blinding) {
	ctx.mu.RLock()
	bl = ctx.blind
	ctx.mu.RUnlock()
	return
}

// argCheck reports message through the context callback when condition is
// false and returns condition.
func argCheck(condition bool, ctx *Context, message string) bool {
	if condition {
		return true
	}
	if ctx == nil {
		defaultErrorCallback(message, nil)
		return false
	}
	ctx.fireError(message)
	return false
}

// checkContext rejects a nil context through the default callback and panics
// on a destroyed one.
func checkContext(ctx *Context) bool {
	if !argCheck(ctx != nil, ctx, "ctx != NULL") {
		return false
	}
	if ctx.destroyed.Load() {
		panic(makeError(ErrContextDestroyed, "use of destroyed context"))
	}
	return true
}

// canGenerate checks that ctx may be used for operations that multiply the
// generator by a secret.
func (ctx *Context) canGenerate() bool {
	return argCheck(!ctx.static, ctx, "ctx != ContextStatic")
}
