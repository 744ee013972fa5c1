package monty

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/mp"
)

// Int is an integer modulo p held in Montgomery form. Operations return new
// values and leave their receivers untouched, except CondSwap and Assign.
//
// Combining Ints of different Params is a programming error and panics
// with an error wrapping errs.ErrInvalidArgument.
type Int struct {
	params *Params
	v      []big.Word // n words, v = x·R mod p < p
}

// Zero returns 0.
func Zero(params *Params) *Int {
	return &Int{params: params, v: make([]big.Word, params.n)}
}

// One returns 1, whose Montgomery form is R mod p.
func One(params *Params) *Int {
	return &Int{params: params, v: append([]big.Word(nil), params.r1...)}
}

// FromBigint converts a non-negative x, reducing it modulo p first.
func FromBigint(params *Params, x *bigint.Int) (*Int, error) {
	if x.IsNegative() {
		return nil, errs.InvalidArgument("monty: negative value")
	}
	red, err := params.bar.Reduce(x)
	if err != nil {
		return nil, err
	}
	w, err := red.Padded(params.n)
	if err != nil {
		return nil, err
	}
	defer ct.Wipe(w)
	return fromReduced(params, w), nil
}

// FromWords converts an n-word value, which must be below p.
func FromWords(params *Params, w []big.Word) (*Int, error) {
	if len(w) != params.n {
		return nil, errs.InvalidArgument("monty: value must be %d words", params.n)
	}
	lt, _ := mp.Cmp(w, params.p)
	if !lt.IsSet() {
		return nil, errs.InvalidArgument("monty: value is not below the modulus")
	}
	return fromReduced(params, w), nil
}

// FromUint64 converts a small constant.
func FromUint64(params *Params, v uint64) *Int {
	x, err := FromBigint(params, bigint.FromUint64(v))
	if err != nil {
		panic(err)
	}
	return x
}

// fromReduced maps w < p to w·R mod p by multiplying with R².
func fromReduced(params *Params, w []big.Word) *Int {
	r := &Int{params: params, v: make([]big.Word, params.n)}
	if err := params.Mul(r.v, w, params.r2, nil); err != nil {
		panic(err)
	}
	return r
}

// FromMontgomeryWords wraps words already in Montgomery form, which must be
// n words below p. The slice is copied.
func FromMontgomeryWords(params *Params, v []big.Word) (*Int, error) {
	if len(v) != params.n {
		return nil, errs.InvalidArgument("monty: value must be %d words", params.n)
	}
	lt, _ := mp.Cmp(v, params.p)
	if !lt.IsSet() {
		return nil, errs.InvalidArgument("monty: value is not below the modulus")
	}
	return &Int{params: params, v: append([]big.Word(nil), v...)}, nil
}

// Params returns the parameters x is bound to.
func (x *Int) Params() *Params { return x.params }

// MontgomeryWords returns the raw x·R mod p words. The slice is shared.
func (x *Int) MontgomeryWords() []big.Word { return x.v }

func (x *Int) check(y *Int) {
	if x.params != y.params && !x.params.SameModulus(y.params) {
		panic(errs.InvalidArgument("monty: operands bound to different moduli"))
	}
}

// Words returns the value in normal form as n words.
func (x *Int) Words() []big.Word {
	n := x.params.n
	z := make([]big.Word, 2*n)
	copy(z, x.v)
	out := make([]big.Word, n)
	if err := x.params.Redc(out, z, nil); err != nil {
		panic(err)
	}
	ct.Wipe(z)
	return out
}

// Value returns the value in normal form.
func (x *Int) Value() *bigint.Int { return bigint.FromWords(x.Words()) }

// FillBytes writes the value big-endian into buf.
func (x *Int) FillBytes(buf []byte) error {
	w := x.Words()
	defer ct.Wipe(w)
	return bigint.FromWords(w).FillBytes(buf)
}

// Clone returns a copy of x.
func (x *Int) Clone() *Int {
	return &Int{params: x.params, v: append([]big.Word(nil), x.v...)}
}

// Assign sets x to y.
func (x *Int) Assign(y *Int) *Int {
	x.check(y)
	copy(x.v, y.v)
	return x
}

// Add returns x + y mod p.
func (x *Int) Add(y *Int) *Int {
	x.check(y)
	n := x.params.n
	s := make([]big.Word, n)
	t := make([]big.Word, n)
	c := mp.Add3(s, x.v, y.v)
	b := mp.Sub3(t, s, x.params.p)
	// x + y >= p exactly when the sum carried or the subtraction did not borrow
	ct.IsLt(c, b).Not().ConditionalCopy(s, t)
	return &Int{params: x.params, v: s}
}

// Double returns 2x mod p.
func (x *Int) Double() *Int { return x.Add(x) }

// Sub returns x - y mod p.
func (x *Int) Sub(y *Int) *Int {
	x.check(y)
	d := make([]big.Word, x.params.n)
	b := mp.Sub3(d, x.v, y.v)
	mp.CondAdd(ct.FromBit(b), d, x.params.p)
	return &Int{params: x.params, v: d}
}

// Negate returns -x mod p.
func (x *Int) Negate() *Int {
	d := make([]big.Word, x.params.n)
	mp.Sub3(d, x.params.p, x.v)
	ct.AllZeros(x.v).ZeroIfSet(d)
	return &Int{params: x.params, v: d}
}

// Mul returns x·y mod p.
func (x *Int) Mul(y *Int) *Int {
	x.check(y)
	r := &Int{params: x.params, v: make([]big.Word, x.params.n)}
	_ = x.params.Mul(r.v, x.v, y.v, nil)
	return r
}

// Square returns x² mod p.
func (x *Int) Square() *Int {
	r := &Int{params: x.params, v: make([]big.Word, x.params.n)}
	_ = x.params.Sqr(r.v, x.v, nil)
	return r
}

// SquareN returns x^(2^k) mod p.
func (x *Int) SquareN(k int) *Int {
	r := x.Clone()
	for i := 0; i < k; i++ {
		r = r.Square()
	}
	return r
}

const windowBits = 4

// Pow returns x^e mod p for the exponent held in the low bits words of e.
// The exponent is secret; only bits is public.
func (x *Int) Pow(e []big.Word, bits int) *Int {
	var table [1 << windowBits]*Int
	table[0] = One(x.params)
	for i := 1; i < len(table); i++ {
		table[i] = table[i-1].Mul(x)
	}

	windows := (bits + windowBits - 1) / windowBits
	r := One(x.params)
	sel := Zero(x.params)
	for w := windows - 1; w >= 0; w-- {
		r = r.SquareN(windowBits)
		k := windowAt(e, w*windowBits)
		for i := range table {
			ct.IsEqual(big.Word(i), k).ConditionalCopy(sel.v, table[i].v)
		}
		r = r.Mul(sel)
	}
	for i := range table {
		ct.Wipe(table[i].v)
	}
	return r
}

// windowAt returns the windowBits bits of e starting at bit pos.
func windowAt(e []big.Word, pos int) big.Word {
	var w big.Word
	for i := 0; i < windowBits; i++ {
		bit := pos + i
		idx := bit / mp.WordBits
		if idx < len(e) {
			w |= ((e[idx] >> uint(bit%mp.WordBits)) & 1) << uint(i)
		}
	}
	return w
}

// PowVartime returns x^e mod p for a public non-negative exponent.
func (x *Int) PowVartime(e *big.Int) *Int {
	r := One(x.params)
	for i := e.BitLen() - 1; i >= 0; i-- {
		r = r.Square()
		if e.Bit(i) == 1 {
			r = r.Mul(x)
		}
	}
	return r
}

// Inverse returns x^(p-2) mod p, the inverse of x for prime p. The inverse
// of zero is zero.
func (x *Int) Inverse() *Int {
	e := new(big.Int).Sub(x.params.P().Big(), big.NewInt(2))
	return x.Pow(e.Bits(), e.BitLen())
}

// Sqrt returns a square root of x and a mask that is set when x is a
// quadratic residue. Only p ≡ 3 (mod 4) is supported.
func (x *Int) Sqrt() (*Int, ct.Mask, error) {
	if x.params.p[0]&3 != 3 {
		return nil, ct.Cleared(), errs.NotImplemented("monty: square root for p != 3 mod 4")
	}
	e := new(big.Int).Add(x.params.P().Big(), big.NewInt(1))
	e.Rsh(e, 2)
	r := x.Pow(e.Bits(), e.BitLen())
	return r, r.Square().EqualMask(x), nil
}

// EqualMask returns a set mask iff x == y.
func (x *Int) EqualMask(y *Int) ct.Mask {
	x.check(y)
	return ct.EqualWords(x.v, y.v)
}

// Equal reports whether x == y. The result is declassified.
func (x *Int) Equal(y *Int) bool { return x.EqualMask(y).IsSet() }

// IsZeroMask returns a set mask iff x == 0.
func (x *Int) IsZeroMask() ct.Mask { return ct.AllZeros(x.v) }

// IsZero reports whether x == 0. The result is declassified.
func (x *Int) IsZero() bool { return x.IsZeroMask().IsSet() }

// IsOdd returns a set mask iff the normal-form value is odd.
func (x *Int) IsOdd() ct.Mask {
	w := x.Words()
	defer ct.Wipe(w)
	return ct.FromBit(w[0] & 1)
}

// Select returns a copy of a when m is set and of b otherwise.
func Select(m ct.Mask, a, b *Int) *Int {
	a.check(b)
	r := &Int{params: a.params, v: make([]big.Word, a.params.n)}
	m.SelectN(r.v, a.v, b.v)
	return r
}

// CondSwap exchanges a and b in place when m is set.
func CondSwap(m ct.Mask, a, b *Int) {
	a.check(b)
	m.ConditionalSwap(a.v, b.v)
}

// CondAssign sets x to y when m is set.
func (x *Int) CondAssign(m ct.Mask, y *Int) {
	x.check(y)
	m.ConditionalCopy(x.v, y.v)
}

// Wipe zeroes x.
func (x *Int) Wipe() { ct.Wipe(x.v) }
