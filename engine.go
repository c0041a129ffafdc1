package s256k1

import (
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// This file is the only place that talks to the curve arithmetic. Everything
// above it deals in the byte layouts of PublicKey, Signature and
// RecoverableSignature.

// orderAsFieldVal is the group order as a field value, used when the recovery
// id says the x coordinate of R overflowed the order.
var orderAsFieldVal = func() *secp.FieldVal {
	var f secp.FieldVal
	f.SetByteSlice(secp.Params().N.Bytes())
	return &f
}()

// generatorX and generatorY are the affine coordinates of the base point.
var (
	generatorX = [32]byte{
		0x79, 0xBE, 0x66, 0x7E, 0xF9, 0xDC, 0xBB, 0xAC,
		0x55, 0xA0, 0x62, 0x95, 0xCE, 0x87, 0x0B, 0x07,
		0x02, 0x9B, 0xFC, 0xDB, 0x2D, 0xCE, 0x28, 0xD9,
		0x59, 0xF2, 0x81, 0x5B, 0x16, 0xF8, 0x17, 0x98,
	}
	generatorY = [32]byte{
		0x48, 0x3A, 0xDA, 0x77, 0x26, 0xA3, 0xC4, 0x65,
		0x5D, 0xA4, 0xFB, 0xFC, 0x0E, 0x11, 0x08, 0xA8,
		0xFD, 0x17, 0xB4, 0x48, 0xA6, 0x85, 0x54, 0x19,
		0x9C, 0x47, 0xD0, 0x8F, 0xFB, 0x10, 0xD4, 0xB8,
	}
)

// blinding is the additive blinding of generator multiplication:
// k*G = (k-b)*G + b*G.
type blinding struct {
	active bool
	b      secp.ModNScalar
	bG     secp.JacobianPoint
}

func newBlinding(seed32 []byte) (bl blinding) {
	h := sha256Sum(seed32)
	bl.b.SetBytes(&h)
	memclear(h[:])
	if bl.b.IsZero() {
		return
	}
	secp.ScalarBaseMultNonConst(&bl.b, &bl.bG)
	bl.bG.ToAffine()
	bl.active = true
	return
}

func (bl *blinding) clear() {
	bl.b.Zero()
	bl.bG.X.Zero()
	bl.bG.Y.Zero()
	bl.bG.Z.Zero()
	bl.active = false
}

// selftest checks the generator multiplication against the known base point
// and 2*G against G+G.
func selftest() (err error) {
	var one, two secp.ModNScalar
	one.SetInt(1)
	two.SetInt(2)
	var g, g2, gg secp.JacobianPoint
	secp.ScalarBaseMultNonConst(&one, &g)
	g.ToAffine()
	var x, y [32]byte
	g.X.PutBytes(&x)
	g.Y.PutBytes(&y)
	if x != generatorX || y != generatorY {
		return makeError(ErrSelfTest, "generator multiplication self test failed")
	}
	secp.ScalarBaseMultNonConst(&two, &g2)
	secp.AddNonConst(&g, &g, &gg)
	g2.ToAffine()
	gg.ToAffine()
	if !g2.X.Equals(&gg.X) || !g2.Y.Equals(&gg.Y) {
		return makeError(ErrSelfTest, "point doubling self test failed")
	}
	return
}

// ecmultGen computes result = k*G, blinded when the context has been
// randomized.
func (ctx *Context) ecmultGen(k *secp.ModNScalar, result *secp.JacobianPoint) {
	bl := ctx.blinding()
	if !bl.active {
		secp.ScalarBaseMultNonConst(k, result)
		return
	}
	var kb secp.ModNScalar
	kb.NegateVal(&bl.b).Add(k)
	var partial secp.JacobianPoint
	secp.ScalarBaseMultNonConst(&kb, &partial)
	secp.AddNonConst(&partial, &bl.bG, result)
	kb.Zero()
	bl.clear()
}

func isInfinity(p *secp.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

// scalarSetB32Seckey loads b into s and reports whether it is a valid secret,
// that is, in [1, n-1].
func scalarSetB32Seckey(s *secp.ModNScalar, b *[32]byte) bool {
	overflow := s.SetBytes(b)
	return overflow == 0 && !s.IsZero()
}

// scalarInRange reports whether the 32 byte big-endian value is in [1, n-1].
func scalarInRange(b *[32]byte) bool {
	var s secp.ModNScalar
	return scalarSetB32Seckey(&s, b)
}

func scalarLoad(s *secp.ModNScalar, b []byte) {
	s.SetBytes((*[32]byte)(b))
}

func scalarSave(b []byte, s *secp.ModNScalar) {
	s.PutBytes((*[32]byte)(b))
}

// pubkeyLoad loads the affine point held by pubkey. It fails only for a public
// key that was never initialized.
func pubkeyLoad(pubkey *PublicKey) (pk *secp.PublicKey, ok bool) {
	var x, y secp.FieldVal
	if x.SetByteSlice(pubkey.data[:32]) || y.SetByteSlice(pubkey.data[32:]) {
		return
	}
	if x.IsZero() && y.IsZero() {
		return
	}
	return secp.NewPublicKey(&x, &y), true
}

// pubkeySave stores the point p, which must not be the point at infinity, in
// pubkey.
func pubkeySave(pubkey *PublicKey, p *secp.JacobianPoint) {
	p.ToAffine()
	var x, y [32]byte
	p.X.PutBytes(&x)
	p.Y.PutBytes(&y)
	copy(pubkey.data[:32], x[:])
	copy(pubkey.data[32:], y[:])
}

// pubkeyParse decodes a 33 or 65 byte SEC1 encoding. The caller has already
// checked the prefix and length.
func pubkeyParse(pubkey *PublicKey, input []byte) (err error) {
	var pk *btcec.PublicKey
	if pk, err = btcec.ParsePubKey(input); err != nil {
		return
	}
	var p secp.JacobianPoint
	pk.AsJacobian(&p)
	pubkeySave(pubkey, &p)
	return
}

// pubkeyNegate flips the y coordinate of pubkey in place.
func pubkeyNegate(pubkey *PublicKey) bool {
	pk, ok := pubkeyLoad(pubkey)
	if !ok {
		return false
	}
	var p secp.JacobianPoint
	pk.AsJacobian(&p)
	p.Y.Negate(1).Normalize()
	pubkeySave(pubkey, &p)
	return true
}

// pubkeyCreate computes pubkey = seckey*G.
func (ctx *Context) pubkeyCreate(pubkey *PublicKey, seckey *SecretKey) bool {
	var sec secp.ModNScalar
	defer sec.Zero()
	if !scalarSetB32Seckey(&sec, (*[32]byte)(seckey)) {
		return false
	}
	var p secp.JacobianPoint
	ctx.ecmultGen(&sec, &p)
	pubkeySave(pubkey, &p)
	return true
}

// pubkeyTweakAdd computes pubkey = pubkey + tweak*G. A zero tweak is allowed.
func pubkeyTweakAdd(pubkey *PublicKey, tweak *[32]byte) bool {
	pk, ok := pubkeyLoad(pubkey)
	if !ok {
		return false
	}
	var tw secp.ModNScalar
	if tw.SetBytes(tweak) != 0 {
		return false
	}
	var p, tG, result secp.JacobianPoint
	pk.AsJacobian(&p)
	secp.ScalarBaseMultNonConst(&tw, &tG)
	secp.AddNonConst(&p, &tG, &result)
	if isInfinity(&result) {
		return false
	}
	pubkeySave(pubkey, &result)
	return true
}

// pubkeyTweakMul computes pubkey = tweak*pubkey. The tweak must be a valid
// nonzero scalar.
func pubkeyTweakMul(pubkey *PublicKey, tweak *[32]byte) bool {
	pk, ok := pubkeyLoad(pubkey)
	if !ok {
		return false
	}
	var tw secp.ModNScalar
	if !scalarSetB32Seckey(&tw, tweak) {
		return false
	}
	var p, result secp.JacobianPoint
	pk.AsJacobian(&p)
	secp.ScalarMultNonConst(&tw, &p, &result)
	if isInfinity(&result) {
		return false
	}
	pubkeySave(pubkey, &result)
	return true
}

// seckeyNegate replaces seckey with n - seckey.
func seckeyNegate(seckey *SecretKey) bool {
	var sec secp.ModNScalar
	defer sec.Zero()
	if !scalarSetB32Seckey(&sec, (*[32]byte)(seckey)) {
		return false
	}
	sec.Negate()
	scalarSave(seckey[:], &sec)
	return true
}

// seckeyTweakAdd computes seckey = seckey + tweak mod n. A zero tweak is
// allowed, a zero result is not.
func seckeyTweakAdd(seckey *SecretKey, tweak *[32]byte) bool {
	var sec, tw secp.ModNScalar
	defer sec.Zero()
	defer tw.Zero()
	if !scalarSetB32Seckey(&sec, (*[32]byte)(seckey)) {
		return false
	}
	if tw.SetBytes(tweak) != 0 {
		return false
	}
	sec.Add(&tw)
	if sec.IsZero() {
		return false
	}
	scalarSave(seckey[:], &sec)
	return true
}

// seckeyTweakMul computes seckey = seckey * tweak mod n.
func seckeyTweakMul(seckey *SecretKey, tweak *[32]byte) bool {
	var sec, tw secp.ModNScalar
	defer sec.Zero()
	defer tw.Zero()
	if !scalarSetB32Seckey(&sec, (*[32]byte)(seckey)) {
		return false
	}
	if !scalarSetB32Seckey(&tw, tweak) {
		return false
	}
	sec.Mul(&tw)
	scalarSave(seckey[:], &sec)
	return true
}

// ecdsaSigSign computes the signature (r, s) for message under seckey with the
// given nonce. recid receives the recovery id: bit 0 is the parity of R.y, bit
// 1 is set when R.x was not less than the order. It fails when r or s comes
// out zero, in which case the caller retries with another nonce.
func (ctx *Context) ecdsaSigSign(
	sigr, sigs *secp.ModNScalar, recid *int,
	seckey, message, nonce *secp.ModNScalar,
) bool {
	var rp secp.JacobianPoint
	ctx.ecmultGen(nonce, &rp)
	rp.ToAffine()
	var xb [32]byte
	rp.X.PutBytes(&xb)
	overflow := sigr.SetBytes(&xb)
	if sigr.IsZero() {
		return false
	}
	code := 0
	if rp.Y.IsOdd() {
		code |= 1
	}
	if overflow != 0 {
		code |= 2
	}
	// s = nonce^-1 * (message + r*seckey)
	var n, kinv secp.ModNScalar
	n.Mul2(sigr, seckey).Add(message)
	kinv.InverseValNonConst(nonce)
	sigs.Mul2(&kinv, &n)
	n.Zero()
	kinv.Zero()
	if sigs.IsZero() {
		return false
	}
	if sigs.IsOverHalfOrder() {
		sigs.Negate()
		code ^= 1
	}
	if recid != nil {
		*recid = code
	}
	return true
}

// ecdsaSigVerify checks (r, s) for msghash under pubkey.
func ecdsaSigVerify(
	r, s *secp.ModNScalar, pubkey *secp.PublicKey, msghash *MessageHash,
) bool {
	if r.IsZero() || s.IsZero() {
		return false
	}
	return btcecdsa.NewSignature(r, s).Verify(msghash[:], pubkey)
}

// ecdsaSigRecover reconstructs the public key Q = r^-1 (s*R - e*G) where R is
// the candidate point selected by recid.
func ecdsaSigRecover(
	q *secp.JacobianPoint, r, s *secp.ModNScalar, recid int,
	msghash *MessageHash,
) bool {
	if r.IsZero() || s.IsZero() {
		return false
	}
	var rb [32]byte
	r.PutBytes(&rb)
	var fx secp.FieldVal
	fx.SetBytes(&rb)
	if recid&2 != 0 {
		if fx.IsGtOrEqPrimeMinusOrder() {
			return false
		}
		fx.Add(orderAsFieldVal).Normalize()
	}
	var y secp.FieldVal
	if !secp.DecompressY(&fx, recid&1 != 0, &y) {
		return false
	}
	var rp secp.JacobianPoint
	rp.X.Set(&fx)
	rp.Y.Set(&y).Normalize()
	rp.Z.SetInt(1)
	var e, w, u1, u2 secp.ModNScalar
	e.SetBytes((*[32]byte)(msghash))
	w.InverseValNonConst(r)
	u1.Mul2(&e, &w).Negate()
	u2.Mul2(s, &w)
	var u1G, u2R secp.JacobianPoint
	secp.ScalarBaseMultNonConst(&u1, &u1G)
	secp.ScalarMultNonConst(&u2, &rp, &u2R)
	secp.AddNonConst(&u1G, &u2R, q)
	return !isInfinity(q)
}

// ecdhPoint computes seckey*pubkey and writes the affine coordinates to x and
// y. It fails if seckey is not a valid secret.
func ecdhPoint(x, y *[32]byte, pubkey *secp.PublicKey, seckey *SecretKey) bool {
	var s secp.ModNScalar
	defer s.Zero()
	if !scalarSetB32Seckey(&s, (*[32]byte)(seckey)) {
		return false
	}
	var p, result secp.JacobianPoint
	pubkey.AsJacobian(&p)
	secp.ScalarMultNonConst(&s, &p, &result)
	if isInfinity(&result) {
		return false
	}
	result.ToAffine()
	result.X.PutBytes(x)
	result.Y.PutBytes(y)
	result.X.Zero()
	result.Y.Zero()
	return true
}
