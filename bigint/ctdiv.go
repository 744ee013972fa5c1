package bigint

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/mp"
)

// ctDivRem runs schoolbook binary long division over an nbits wide dividend
// whose bits are produced by bit, most significant first. Every step shifts
// the remainder, always computes remainder - y and keeps it with a mask, so
// the work depends only on nbits and len(y).
func ctDivRem(nbits int, bit func(i int) big.Word, y []big.Word) (q, r []big.Word) {
	q = make([]big.Word, nbits/mp.WordBits+1)
	r = make([]big.Word, len(y)+1)
	t := make([]big.Word, len(y)+1)
	for i := nbits - 1; i >= 0; i-- {
		mp.ShiftLeft1(r)
		r[0] |= bit(i)
		borrow := mp.Sub3(t, r, y)
		gte := ct.IsZero(borrow)
		gte.ConditionalCopy(r, t)
		q[i/mp.WordBits] |= gte.Bit() << uint(i%mp.WordBits)
	}
	ct.Wipe(t)
	return q, r
}

func checkDivisor(y *Int) ([]big.Word, error) {
	if y.Sign() <= 0 {
		return nil, errs.InvalidArgument("divisor must be positive")
	}
	return y.words[:y.SigWords()], nil
}

// CtModulo returns x mod y in [0, y) in time that depends only on the word
// sizes of x and y. y must be positive. A negative x yields the
// non-negative residue.
func CtModulo(x, y *Int) (*Int, error) {
	yw, err := checkDivisor(y)
	if err != nil {
		return nil, err
	}
	q, r := ctDivRem(len(x.words)*mp.WordBits, x.Bit, yw)
	ct.Wipe(q)
	res := &Int{words: r[:len(yw)]}
	if x.neg && !res.IsZero() {
		res = Sub(y, res)
		res.words = res.words[:len(yw)]
	}
	return res, nil
}

// CtDivide returns the quotient and remainder of |x| / y in time that
// depends only on the word sizes of x and y. y must be positive.
func CtDivide(x, y *Int) (q, r *Int, err error) {
	yw, err := checkDivisor(y)
	if err != nil {
		return nil, nil, err
	}
	qw, rw := ctDivRem(len(x.words)*mp.WordBits, x.Bit, yw)
	return &Int{words: qw}, &Int{words: rw[:len(yw)]}, nil
}

// CtDividePow2k returns floor(2^k / y) in time that depends only on k and
// the word size of y. y must be positive.
func CtDividePow2k(k int, y *Int) (*Int, error) {
	yw, err := checkDivisor(y)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, errs.InvalidArgument("negative exponent %d", k)
	}
	one := func(i int) big.Word {
		if i == k {
			return 1
		}
		return 0
	}
	q, r := ctDivRem(k+1, one, yw)
	ct.Wipe(r)
	return &Int{words: q}, nil
}
