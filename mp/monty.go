package mp

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
)

// MontyInverse returns -a⁻¹ mod 2^W for odd a, the per-word constant p' of
// Montgomery reduction.
func MontyInverse(a big.Word) big.Word {
	// Newton iteration doubles the number of correct low bits each round;
	// a itself is a correct inverse mod 8, so five rounds cover 64 bits.
	y := a
	for i := 0; i < 5; i++ {
		y = y * (2 - a*y)
	}
	return -y
}

// MontyRedc writes z·R⁻¹ mod p to r[:len(p)], where R = 2^(W·len(p)), and
// clears any further words of r.
//
// It requires len(z) >= 2·len(p) > 0, z < p², p odd, pDash = MontyInverse(p[0])
// and len(r) >= len(p). r must not overlap z, p or the workspace; the
// workspace needs len(p) words and is grown when smaller.
//
// The reduction is the product scanning form (Algorithm 5 of "Energy-Efficient
// Software Implementation of Long Integer Modular Arithmetic", CHES 2005)
// followed by a subtraction of p that is always computed and kept or
// discarded with a constant-time select.
func MontyRedc(r, z, p []big.Word, pDash big.Word, ws *Workspace) error {
	pSize := len(p)
	if pSize == 0 || len(z) < 2*pSize {
		return errs.InvalidArgument("MontyRedc: z has %d words, need at least 2*%d", len(z), pSize)
	}
	if len(r) < pSize {
		return errs.InvalidArgument("MontyRedc: output has %d words, need %d", len(r), pSize)
	}
	if Overlaps(r, z) || Overlaps(r, p) {
		return errs.InvalidArgument("MontyRedc: output aliases an input")
	}
	t := ws.Get(pSize)
	if Overlaps(t, r) || Overlaps(t, z) || Overlaps(t, p) {
		return errs.InvalidArgument("MontyRedc: workspace aliases an operand")
	}
	montyRedc(r[:pSize], z, p, pDash, t)
	ct.Wipe(t)
	clearWords(r[pSize:])
	return nil
}

// montyRedc is MontyRedc without checks. ws must hold len(p) words.
func montyRedc(r, z, p []big.Word, pDash big.Word, ws []big.Word) {
	pSize := len(p)
	var acc word3

	acc.add(z[0])
	ws[0] = acc.montyStep(p[0], pDash)

	for i := 1; i < pSize; i++ {
		acc.mulRevRange(ws, p, i)
		acc.add(z[i])
		ws[i] = acc.montyStep(p[0], pDash)
	}

	for i := 0; i < pSize-1; i++ {
		acc.mulRevRange(ws[i+1:], p[i:], pSize-(i+1))
		acc.add(z[pSize+i])
		ws[i] = acc.extract()
	}

	acc.add(z[2*pSize-1])
	ws[pSize-1] = acc.extract()
	// the candidate is (w1:ws) and w1 is at most 1 when z < p²
	w1 := acc.extract()

	montyMaybeSub(r, w1, ws, p)
}

// montyMaybeSub sets r = (x0:x) - p when that does not borrow and r = x
// otherwise, without branching on the outcome.
func montyMaybeSub(r []big.Word, x0 big.Word, x, p []big.Word) {
	borrow := Sub3(r, x, p)
	// (x0:x) < p exactly when the top word cannot absorb the borrow
	keep := ct.IsLt(x0, borrow)
	keep.ConditionalCopy(r, x)
}

// MontyMul writes x·y·R⁻¹ mod p to r[:len(p)] for x, y of len(p) words
// below p. r must not overlap x, y, p or the workspace, which needs
// 3·len(p) words.
func MontyMul(r, x, y, p []big.Word, pDash big.Word, ws *Workspace) error {
	n := len(p)
	if n == 0 || len(x) != n || len(y) != n || len(r) < n {
		return errs.InvalidArgument("MontyMul: operands must be %d words", n)
	}
	if Overlaps(r, x) || Overlaps(r, y) || Overlaps(r, p) {
		return errs.InvalidArgument("MontyMul: output aliases an input")
	}
	buf := ws.Get(3 * n)
	if Overlaps(buf, r) || Overlaps(buf, x) || Overlaps(buf, y) || Overlaps(buf, p) {
		return errs.InvalidArgument("MontyMul: workspace aliases an operand")
	}
	z, t := buf[:2*n], buf[2*n:]
	Mul(z, x, y)
	montyRedc(r[:n], z, p, pDash, t)
	clearWords(r[n:])
	ct.Wipe(buf)
	return nil
}

// MontySqr writes x²·R⁻¹ mod p to r[:len(p)]. The requirements are those of
// MontyMul.
func MontySqr(r, x, p []big.Word, pDash big.Word, ws *Workspace) error {
	n := len(p)
	if n == 0 || len(x) != n || len(r) < n {
		return errs.InvalidArgument("MontySqr: operand must be %d words", n)
	}
	if Overlaps(r, x) || Overlaps(r, p) {
		return errs.InvalidArgument("MontySqr: output aliases an input")
	}
	buf := ws.Get(3 * n)
	if Overlaps(buf, r) || Overlaps(buf, x) || Overlaps(buf, p) {
		return errs.InvalidArgument("MontySqr: workspace aliases an operand")
	}
	z, t := buf[:2*n], buf[2*n:]
	Sqr(z, x)
	montyRedc(r[:n], z, p, pDash, t)
	clearWords(r[n:])
	ct.Wipe(buf)
	return nil
}
