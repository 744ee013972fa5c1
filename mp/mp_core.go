// Package mp implements fixed-length arithmetic on little-endian word
// slices. The loops depend only on slice lengths, never on word values, so
// every routine here is constant time with respect to the data.
//
// Helpers in this package do not validate their inputs beyond what is noted
// on each function; the exported entry points of the packages built on top
// perform the checks.
package mp

import (
	"math/big"
	"math/bits"

	"gitee.com/jkuang/go-ctreduce/ct"
)

// WordBits is the width of a big.Word in bits.
const WordBits = bits.UintSize

// Add3 sets z = x + y and returns the carry. It requires
// len(z) >= len(x) >= len(y); words of z past len(x) are left untouched.
func Add3(z, x, y []big.Word) big.Word {
	var c uint
	for i := range y {
		var s uint
		s, c = bits.Add(uint(x[i]), uint(y[i]), c)
		z[i] = big.Word(s)
	}
	for i := len(y); i < len(x); i++ {
		var s uint
		s, c = bits.Add(uint(x[i]), 0, c)
		z[i] = big.Word(s)
	}
	return big.Word(c)
}

// Add2 sets x += y and returns the carry. It requires len(x) >= len(y).
func Add2(x, y []big.Word) big.Word {
	return Add3(x, x, y)
}

// Sub3 sets z = x - y and returns the borrow. It requires
// len(z) >= len(x) >= len(y).
func Sub3(z, x, y []big.Word) big.Word {
	var b uint
	for i := range y {
		var d uint
		d, b = bits.Sub(uint(x[i]), uint(y[i]), b)
		z[i] = big.Word(d)
	}
	for i := len(y); i < len(x); i++ {
		var d uint
		d, b = bits.Sub(uint(x[i]), 0, b)
		z[i] = big.Word(d)
	}
	return big.Word(b)
}

// Sub2 sets x -= y and returns the borrow. It requires len(x) >= len(y).
func Sub2(x, y []big.Word) big.Word {
	return Sub3(x, x, y)
}

// CondAdd adds y to x when the mask is set and returns the carry (always
// zero when the mask is cleared). It requires len(x) >= len(y).
func CondAdd(m ct.Mask, x, y []big.Word) big.Word {
	var c uint
	for i := range y {
		var s uint
		s, c = bits.Add(uint(x[i]), uint(m.IfSetReturn(y[i])), c)
		x[i] = big.Word(s)
	}
	for i := len(y); i < len(x); i++ {
		var s uint
		s, c = bits.Add(uint(x[i]), 0, c)
		x[i] = big.Word(s)
	}
	return big.Word(c)
}

// CondSub subtracts y from x when the mask is set and returns the borrow.
// It requires len(x) >= len(y).
func CondSub(m ct.Mask, x, y []big.Word) big.Word {
	var b uint
	for i := range y {
		var d uint
		d, b = bits.Sub(uint(x[i]), uint(m.IfSetReturn(y[i])), b)
		x[i] = big.Word(d)
	}
	for i := len(y); i < len(x); i++ {
		var d uint
		d, b = bits.Sub(uint(x[i]), 0, b)
		x[i] = big.Word(d)
	}
	return big.Word(b)
}

// Mul sets z = x * y by product scanning. It requires
// len(z) >= len(x) + len(y); the remaining words of z are cleared. z must not
// overlap x or y.
func Mul(z, x, y []big.Word) {
	xn, yn := len(x), len(y)
	if xn == 0 || yn == 0 {
		clearWords(z)
		return
	}
	var acc word3
	for k := 0; k < xn+yn-1; k++ {
		lo := 0
		if k >= yn {
			lo = k - yn + 1
		}
		hi := k
		if hi >= xn {
			hi = xn - 1
		}
		for i := lo; i <= hi; i++ {
			acc.mul(x[i], y[k-i])
		}
		z[k] = acc.extract()
	}
	z[xn+yn-1] = acc.extract()
	clearWords(z[xn+yn:])
}

// Sqr sets z = x * x. It requires len(z) >= 2*len(x) and z must not overlap x.
func Sqr(z, x []big.Word) {
	xn := len(x)
	if xn == 0 {
		clearWords(z)
		return
	}
	var acc word3
	for k := 0; k < 2*xn-1; k++ {
		lo := 0
		if k >= xn {
			lo = k - xn + 1
		}
		hi := k
		if hi >= xn {
			hi = xn - 1
		}
		// cross terms x[i]*x[k-i] with i < k-i appear twice
		for i := lo; i <= hi; i++ {
			j := k - i
			if i < j {
				acc.mul(x[i], x[j])
				acc.mul(x[i], x[j])
			} else if i == j {
				acc.mul(x[i], x[i])
			}
		}
		z[k] = acc.extract()
	}
	z[2*xn-1] = acc.extract()
	clearWords(z[2*xn:])
}

// Cmp compares x and y as unsigned integers of any lengths and returns
// masks for x < y and x == y.
func Cmp(x, y []big.Word) (lt, eq ct.Mask) {
	n := len(x)
	if len(y) > n {
		n = len(y)
	}
	var b uint
	var diff big.Word
	for i := 0; i < n; i++ {
		var xi, yi big.Word
		if i < len(x) {
			xi = x[i]
		}
		if i < len(y) {
			yi = y[i]
		}
		_, b = bits.Sub(uint(xi), uint(yi), b)
		diff |= xi ^ yi
	}
	return ct.FromBit(big.Word(b)), ct.IsZero(diff)
}

// SigWords returns the index of the highest non-zero word plus one. The
// scan touches every word; the result itself is treated as public.
func SigWords(x []big.Word) int {
	var sig big.Word
	for i, w := range x {
		sig = ct.Expand(w).Select(big.Word(i+1), sig)
	}
	return int(sig)
}

// BitLen returns the number of significant bits of x.
func BitLen(x []big.Word) int {
	sw := SigWords(x)
	if sw == 0 {
		return 0
	}
	return (sw-1)*WordBits + bits.Len(uint(x[sw-1]))
}

// ShiftLeft1 sets x = 2x in place and returns the bit shifted out.
func ShiftLeft1(x []big.Word) big.Word {
	var carry big.Word
	for i := range x {
		w := x[i]
		x[i] = w<<1 | carry
		carry = w >> (WordBits - 1)
	}
	return carry
}

func clearWords(z []big.Word) {
	for i := range z {
		z[i] = 0
	}
}
