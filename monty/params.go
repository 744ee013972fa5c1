// Package monty holds Montgomery parameters for an odd modulus and the
// Montgomery-form integers built on them.
//
// With n the word count of p and R = 2^(W·n), a value x is stored as x·R mod p.
// Multiplication is a word-level product followed by mp.MontyRedc, so no
// operation here divides. Everything except the Vartime functions runs in
// time that depends only on n.
package monty

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/barrett"
	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/mp"
	"github.com/sirupsen/logrus"
)

// Params are the constants of Montgomery arithmetic modulo an odd p > 1.
// They are immutable and safe for concurrent use.
type Params struct {
	p     []big.Word
	pDash big.Word
	n     int
	r1    []big.Word // R mod p
	r2    []big.Word // R² mod p
	r3    []big.Word // R³ mod p
	bar   *barrett.Reduction
}

// NewParams precomputes the Montgomery constants for p, which must be odd
// and greater than one. p is treated as public.
func NewParams(p *bigint.Int) (*Params, error) {
	if p == nil || p.IsNegative() || p.Cmp(bigint.FromUint64(1)) <= 0 {
		return nil, errs.InvalidArgument("monty: modulus must be greater than one")
	}
	if p.Bit(0) == 0 {
		return nil, errs.InvalidArgument("monty: modulus must be odd")
	}
	bar, err := barrett.ForPublicModulus(p)
	if err != nil {
		return nil, err
	}
	n := p.SigWords()
	pw, _ := p.Padded(n)

	r1, err := bar.Reduce(bigint.PowerOf2(mp.WordBits * n))
	if err != nil {
		return nil, err
	}
	r2, err := bar.Square(r1)
	if err != nil {
		return nil, err
	}
	r3, err := bar.Multiply(r1, r2)
	if err != nil {
		return nil, err
	}

	params := &Params{
		p:     pw,
		pDash: mp.MontyInverse(pw[0]),
		n:     n,
		bar:   bar,
	}
	params.r1, _ = r1.Padded(n)
	params.r2, _ = r2.Padded(n)
	params.r3, _ = r3.Padded(n)

	logging.For("monty", "NewParams").WithFields(logrus.Fields{
		"bits":  p.BitLen(),
		"words": n,
	}).Debug("montgomery parameters ready")
	return params, nil
}

// P returns a copy of the modulus.
func (params *Params) P() *bigint.Int { return bigint.FromWords(params.p) }

// Words returns the word count n of the modulus.
func (params *Params) Words() int { return params.n }

// PDash returns -p⁻¹ mod 2^W.
func (params *Params) PDash() big.Word { return params.pDash }

// R1 returns R mod p.
func (params *Params) R1() *bigint.Int { return bigint.FromWords(params.r1) }

// R2 returns R² mod p.
func (params *Params) R2() *bigint.Int { return bigint.FromWords(params.r2) }

// R3 returns R³ mod p.
func (params *Params) R3() *bigint.Int { return bigint.FromWords(params.r3) }

// Reducer returns the public-modulus Barrett reducer for p.
func (params *Params) Reducer() *barrett.Reduction { return params.bar }

// Redc writes z·R⁻¹ mod p to out for z of 2n words.
func (params *Params) Redc(out, z []big.Word, ws *mp.Workspace) error {
	return mp.MontyRedc(out, z, params.p, params.pDash, ws)
}

// Mul writes x·y·R⁻¹ mod p to out for n-word x, y below p.
func (params *Params) Mul(out, x, y []big.Word, ws *mp.Workspace) error {
	return mp.MontyMul(out, x, y, params.p, params.pDash, ws)
}

// Sqr writes x²·R⁻¹ mod p to out for an n-word x below p.
func (params *Params) Sqr(out, x []big.Word, ws *mp.Workspace) error {
	return mp.MontySqr(out, x, params.p, params.pDash, ws)
}

// SameModulus reports whether params and o describe the same p.
func (params *Params) SameModulus(o *Params) bool {
	if params == o {
		return true
	}
	if params == nil || o == nil || params.n != o.n {
		return false
	}
	return ct.EqualWords(params.p, o.p).IsSet()
}
