// Package bigint implements the signed-magnitude multi-precision integer the
// reducers operate on.
//
// An Int is a little-endian slice of big.Words holding the magnitude and a
// separate sign flag. The word slice may carry leading zero words; the
// significant word count is the index of the highest non-zero word plus one.
// Zero is always positive.
//
// Arithmetic on magnitudes runs over fixed word lengths and is constant time
// in the values. Comparisons that return int or bool, sign handling and the
// conversions to and from math/big are variable time and meant for public
// values.
package bigint

import (
	"math/big"
	"math/bits"

	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/mp"
)

// Int is a signed multi-precision integer. The zero value is 0.
type Int struct {
	words []big.Word
	neg   bool
}

// New returns a zero Int.
func New() *Int { return &Int{} }

// FromUint64 returns v as an Int.
func FromUint64(v uint64) *Int {
	if bits.UintSize == 32 {
		return &Int{words: []big.Word{big.Word(v), big.Word(v >> 32)}}
	}
	return &Int{words: []big.Word{big.Word(v)}}
}

// FromWords returns the non-negative value held in w. The words are copied.
func FromWords(w []big.Word) *Int {
	return &Int{words: append([]big.Word(nil), w...)}
}

// FromBig converts a math/big integer.
func FromBig(x *big.Int) *Int {
	r := &Int{words: append([]big.Word(nil), x.Bits()...)}
	r.neg = x.Sign() < 0
	return r
}

// FromBytes returns the non-negative value of the big-endian bytes b.
func FromBytes(b []byte) *Int {
	n := (len(b) + mp.WordBits/8 - 1) / (mp.WordBits / 8)
	r := &Int{words: make([]big.Word, n)}
	for i := 0; i < len(b); i++ {
		pos := len(b) - 1 - i
		r.words[i/(mp.WordBits/8)] |= big.Word(b[pos]) << (8 * uint(i%(mp.WordBits/8)))
	}
	return r
}

// FromString parses s in the given base (0 selects by prefix, as math/big).
func FromString(s string, base int) (*Int, error) {
	x, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, errs.InvalidArgument("cannot parse %q as an integer", s)
	}
	return FromBig(x), nil
}

// PowerOf2 returns 2^n.
func PowerOf2(n int) *Int {
	r := &Int{words: make([]big.Word, n/mp.WordBits+1)}
	r.words[n/mp.WordBits] = 1 << uint(n%mp.WordBits)
	return r
}

// Big converts x to a math/big integer.
func (x *Int) Big() *big.Int {
	r := new(big.Int).SetBits(append([]big.Word(nil), x.words[:x.SigWords()]...))
	if x.neg {
		r.Neg(r)
	}
	return r
}

// Clone returns a deep copy of x.
func (x *Int) Clone() *Int {
	return &Int{words: append([]big.Word(nil), x.words...), neg: x.neg}
}

// Words returns the magnitude words. The slice is shared with x and must not
// be modified.
func (x *Int) Words() []big.Word { return x.words }

// Size returns the number of words backing x, including leading zeros.
func (x *Int) Size() int { return len(x.words) }

// SigWords returns the number of significant words.
func (x *Int) SigWords() int { return mp.SigWords(x.words) }

// BitLen returns the number of significant bits of the magnitude.
func (x *Int) BitLen() int { return mp.BitLen(x.words) }

// ByteLen returns the number of significant bytes of the magnitude.
func (x *Int) ByteLen() int { return (x.BitLen() + 7) / 8 }

// WordAt returns word i of the magnitude, or zero past the end.
func (x *Int) WordAt(i int) big.Word {
	if i < 0 || i >= len(x.words) {
		return 0
	}
	return x.words[i]
}

// Bit returns bit i of the magnitude.
func (x *Int) Bit(i int) big.Word {
	return (x.WordAt(i/mp.WordBits) >> uint(i%mp.WordBits)) & 1
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool { return ct.AllZeros(x.words).IsSet() }

// IsNegative reports whether x < 0.
func (x *Int) IsNegative() bool { return x.neg }

// Sign returns -1, 0 or 1.
func (x *Int) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.neg:
		return -1
	}
	return 1
}

// SetNegative sets the sign. Zero stays positive.
func (x *Int) SetNegative(neg bool) *Int {
	x.neg = neg && !x.IsZero()
	return x
}

// Neg flips the sign of x in place.
func (x *Int) Neg() *Int { return x.SetNegative(!x.neg) }

// Abs returns |x| as a new Int.
func (x *Int) Abs() *Int {
	r := x.Clone()
	r.neg = false
	return r
}

// Grow zero extends the magnitude to at least n words.
func (x *Int) Grow(n int) *Int {
	if len(x.words) < n {
		w := make([]big.Word, n)
		copy(w, x.words)
		x.words = w
	}
	return x
}

// Padded returns the magnitude as exactly n words. It fails when x has more
// than n significant words.
func (x *Int) Padded(n int) ([]big.Word, error) {
	if x.SigWords() > n {
		return nil, errs.InvalidArgument("value needs %d words, have room for %d", x.SigWords(), n)
	}
	r := make([]big.Word, n)
	m := len(x.words)
	if m > n {
		m = n
	}
	copy(r, x.words[:m])
	return r, nil
}

// Cmp compares x and y as signed integers and returns -1, 0 or +1.
func (x *Int) Cmp(y *Int) int {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1
		}
		return 1
	}
	c := cmpAbs(x.words, y.words)
	if xs < 0 {
		return -c
	}
	return c
}

// CmpAbs compares |x| and |y|.
func (x *Int) CmpAbs(y *Int) int {
	return cmpAbs(x.words, y.words)
}

func cmpAbs(x, y []big.Word) int {
	lt, eq := mp.Cmp(x, y)
	switch {
	case eq.IsSet():
		return 0
	case lt.IsSet():
		return -1
	}
	return 1
}

// Add returns x + y.
func Add(x, y *Int) *Int {
	if x.neg == y.neg {
		return &Int{words: addAbs(x.words, y.words), neg: x.neg}
	}
	if cmpAbs(x.words, y.words) >= 0 {
		return (&Int{words: subAbs(x.words, y.words)}).SetNegative(x.neg)
	}
	return (&Int{words: subAbs(y.words, x.words)}).SetNegative(y.neg)
}

// Sub returns x - y.
func Sub(x, y *Int) *Int {
	ny := &Int{words: y.words, neg: !y.neg}
	return Add(x, ny)
}

// Mul returns x * y.
func Mul(x, y *Int) *Int {
	xw, yw := x.words[:x.SigWords()], y.words[:y.SigWords()]
	z := make([]big.Word, len(xw)+len(yw))
	mp.Mul(z, xw, yw)
	return (&Int{words: z}).SetNegative(x.neg != y.neg)
}

// Sqr returns x * x.
func Sqr(x *Int) *Int {
	xw := x.words[:x.SigWords()]
	z := make([]big.Word, 2*len(xw))
	mp.Sqr(z, xw)
	return &Int{words: z}
}

func addAbs(x, y []big.Word) []big.Word {
	if len(x) < len(y) {
		x, y = y, x
	}
	z := make([]big.Word, len(x)+1)
	z[len(x)] = mp.Add3(z, x, y)
	return z
}

// subAbs returns x - y for |x| >= |y|.
func subAbs(x, y []big.Word) []big.Word {
	n := len(x)
	if len(y) > n {
		n = len(y)
	}
	xp := make([]big.Word, n)
	copy(xp, x)
	yp := make([]big.Word, n)
	copy(yp, y)
	mp.Sub2(xp, yp)
	return xp
}

// Rsh returns |x| >> n with the sign of x kept.
func (x *Int) Rsh(n int) *Int {
	wordShift, bitShift := n/mp.WordBits, uint(n%mp.WordBits)
	if wordShift >= len(x.words) {
		return New()
	}
	src := x.words[wordShift:]
	r := make([]big.Word, len(src))
	for i := range src {
		r[i] = src[i] >> bitShift
		if bitShift != 0 && i+1 < len(src) {
			r[i] |= src[i+1] << (mp.WordBits - bitShift)
		}
	}
	return (&Int{words: r}).SetNegative(x.neg)
}

// Lsh returns |x| << n with the sign of x kept.
func (x *Int) Lsh(n int) *Int {
	wordShift, bitShift := n/mp.WordBits, uint(n%mp.WordBits)
	r := make([]big.Word, len(x.words)+wordShift+1)
	for i, w := range x.words {
		r[i+wordShift] |= w << bitShift
		if bitShift != 0 {
			r[i+wordShift+1] |= w >> (mp.WordBits - bitShift)
		}
	}
	return (&Int{words: r}).SetNegative(x.neg)
}

// MaskBits clears every bit at position n and above.
func (x *Int) MaskBits(n int) *Int {
	wordIdx, bitIdx := n/mp.WordBits, uint(n%mp.WordBits)
	if wordIdx >= len(x.words) {
		return x
	}
	x.words[wordIdx] &= (1 << bitIdx) - 1
	for i := wordIdx + 1; i < len(x.words); i++ {
		x.words[i] = 0
	}
	return x.SetNegative(x.neg)
}

// FillBytes writes |x| big-endian into buf, zero padded on the left. It
// fails when the value does not fit.
func (x *Int) FillBytes(buf []byte) error {
	if x.ByteLen() > len(buf) {
		return errs.InvalidArgument("value needs %d bytes, buffer has %d", x.ByteLen(), len(buf))
	}
	const wordBytes = mp.WordBits / 8
	for i := range buf {
		pos := len(buf) - 1 - i
		buf[pos] = byte(x.WordAt(i/wordBytes) >> (8 * uint(i%wordBytes)))
	}
	return nil
}

// Bytes returns |x| big-endian in exactly n bytes.
func (x *Int) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := x.FillBytes(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// String returns the decimal representation.
func (x *Int) String() string { return x.Big().String() }

// Text returns the representation in the given base.
func (x *Int) Text(base int) string { return x.Big().Text(base) }

// Wipe zeroes the magnitude.
func (x *Int) Wipe() {
	ct.Wipe(x.words)
	x.neg = false
}
