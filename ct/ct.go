// Package ct implements the constant-time building blocks used by the
// reducers: masks derived from comparisons and data-independent selection
// over words and word slices.
//
// A Mask is either all zeros or all ones. Every function here runs in time
// independent of the values of its arguments; only slice lengths matter.
package ct

import (
	"math/big"
	"math/bits"
	"runtime"
)

const wordBits = bits.UintSize

// Mask is a word that is either all ones (set) or all zeros (cleared).
type Mask big.Word

// Set returns the all-ones mask.
func Set() Mask { return Mask(^big.Word(0)) }

// Cleared returns the all-zero mask.
func Cleared() Mask { return 0 }

// FromBit expands the low bit of b (which must be 0 or 1) into a mask.
func FromBit(b big.Word) Mask {
	return Mask(-(b & 1))
}

// FromBool expands a public boolean into a mask.
func FromBool(b bool) Mask {
	var w big.Word
	if b {
		w = 1
	}
	return FromBit(w)
}

// IsZero returns a set mask iff w == 0.
func IsZero(w big.Word) Mask {
	// the top bit of ^w & (w-1) is set only when w == 0
	return FromBit((^w & (w - 1)) >> (wordBits - 1))
}

// Expand returns a set mask iff w != 0.
func Expand(w big.Word) Mask {
	return IsZero(w).Not()
}

// IsEqual returns a set mask iff a == b.
func IsEqual(a, b big.Word) Mask {
	return IsZero(a ^ b)
}

// IsLt returns a set mask iff a < b.
func IsLt(a, b big.Word) Mask {
	_, borrow := bits.Sub(uint(a), uint(b), 0)
	return FromBit(big.Word(borrow))
}

// IsGte returns a set mask iff a >= b.
func IsGte(a, b big.Word) Mask {
	return IsLt(a, b).Not()
}

// Not inverts the mask.
func (m Mask) Not() Mask { return ^m }

// And intersects two masks.
func (m Mask) And(o Mask) Mask { return m & o }

// Or unions two masks.
func (m Mask) Or(o Mask) Mask { return m | o }

// Value returns the mask as a word.
func (m Mask) Value() big.Word { return big.Word(m) }

// Bit returns 1 if the mask is set and 0 otherwise.
func (m Mask) Bit() big.Word { return big.Word(m) & 1 }

// IsSet declassifies the mask. Only call it when the result is public.
func (m Mask) IsSet() bool { return m != 0 }

// Select returns a if the mask is set and b otherwise.
func (m Mask) Select(a, b big.Word) big.Word {
	return b ^ (big.Word(m) & (a ^ b))
}

// IfSetReturn returns x if the mask is set and zero otherwise.
func (m Mask) IfSetReturn(x big.Word) big.Word {
	return big.Word(m) & x
}

// IfNotSetReturn returns x if the mask is cleared and zero otherwise.
func (m Mask) IfNotSetReturn(x big.Word) big.Word {
	return ^big.Word(m) & x
}

// SelectN writes a[i] to out[i] when the mask is set and b[i] otherwise.
// The three slices must have the same length; out may alias a or b.
func (m Mask) SelectN(out, a, b []big.Word) {
	for i := range out {
		out[i] = m.Select(a[i], b[i])
	}
}

// ConditionalCopy copies src into dst when the mask is set.
func (m Mask) ConditionalCopy(dst, src []big.Word) {
	m.SelectN(dst, src, dst)
}

// ConditionalSwap exchanges the contents of a and b when the mask is set.
func (m Mask) ConditionalSwap(a, b []big.Word) {
	for i := range a {
		t := big.Word(m) & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// ZeroIfSet clears x when the mask is set.
func (m Mask) ZeroIfSet(x []big.Word) {
	for i := range x {
		x[i] = m.IfNotSetReturn(x[i])
	}
}

// AllZeros returns a set mask iff every word of x is zero.
func AllZeros(x []big.Word) Mask {
	var acc big.Word
	for _, w := range x {
		acc |= w
	}
	return IsZero(acc)
}

// EqualWords returns a set mask iff a and b hold the same value. Slices of
// different lengths are compared as if the shorter was zero extended.
func EqualWords(a, b []big.Word) Mask {
	if len(a) < len(b) {
		a, b = b, a
	}
	var diff big.Word
	for i := range b {
		diff |= a[i] ^ b[i]
	}
	for _, w := range a[len(b):] {
		diff |= w
	}
	return IsZero(diff)
}

// Wipe overwrites x with zeros. It is used on scratch space that held values
// derived from secret operands.
func Wipe(x []big.Word) {
	for i := range x {
		x[i] = 0
	}
	runtime.KeepAlive(x)
}

// WipeBytes is Wipe for byte slices.
func WipeBytes(x []byte) {
	for i := range x {
		x[i] = 0
	}
	runtime.KeepAlive(x)
}
