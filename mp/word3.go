package mp

import (
	"math/big"
	"math/bits"
)

// word3 is a three word accumulator (w2:w1:w0) for product scanning
// multiplication. Summing up to 2^W double-word products into one column
// cannot overflow it, so carries only need resolving when a column is
// extracted.
type word3 struct {
	w0, w1, w2 big.Word
}

// add adds a single word.
func (a *word3) add(x big.Word) {
	w0, c := bits.Add(uint(a.w0), uint(x), 0)
	w1, c := bits.Add(uint(a.w1), 0, c)
	a.w0 = big.Word(w0)
	a.w1 = big.Word(w1)
	a.w2 += big.Word(c)
}

// mul adds the double-word product x*y.
func (a *word3) mul(x, y big.Word) {
	hi, lo := bits.Mul(uint(x), uint(y))
	w0, c := bits.Add(uint(a.w0), lo, 0)
	w1, c := bits.Add(uint(a.w1), hi, c)
	a.w0 = big.Word(w0)
	a.w1 = big.Word(w1)
	a.w2 += big.Word(c)
}

// montyStep computes the Montgomery quotient digit u = w0*pDash mod 2^W,
// adds u*p0 which clears the low word, then shifts the accumulator down
// one word. It returns u.
func (a *word3) montyStep(p0, pDash big.Word) big.Word {
	u := a.w0 * pDash
	a.mul(u, p0)
	a.w0 = a.w1
	a.w1 = a.w2
	a.w2 = 0
	return u
}

// extract returns the low word and shifts the accumulator down one word.
func (a *word3) extract() big.Word {
	r := a.w0
	a.w0 = a.w1
	a.w1 = a.w2
	a.w2 = 0
	return r
}

// mulRevRange accumulates sum(ws[j] * p[i-j]) for 0 <= j < i.
func (a *word3) mulRevRange(ws, p []big.Word, i int) {
	for j := 0; j < i; j++ {
		a.mul(ws[j], p[i-j])
	}
}
