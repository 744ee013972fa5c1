package ct

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

const maxWord = ^big.Word(0)

func TestMaskPredicates(t *testing.T) {
	tests := []struct {
		name string
		got  Mask
		want bool
	}{
		{"IsZero(0)", IsZero(0), true},
		{"IsZero(1)", IsZero(1), false},
		{"IsZero(max)", IsZero(maxWord), false},
		{"IsZero(top bit)", IsZero(1 << (wordBits - 1)), false},
		{"Expand(0)", Expand(0), false},
		{"Expand(7)", Expand(7), true},
		{"IsEqual(5,5)", IsEqual(5, 5), true},
		{"IsEqual(5,6)", IsEqual(5, 6), false},
		{"IsLt(1,2)", IsLt(1, 2), true},
		{"IsLt(2,2)", IsLt(2, 2), false},
		{"IsLt(max,0)", IsLt(maxWord, 0), false},
		{"IsGte(2,2)", IsGte(2, 2), true},
		{"IsGte(0,max)", IsGte(0, maxWord), false},
		{"FromBool(true)", FromBool(true), true},
		{"FromBit(0)", FromBit(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.IsSet())
			if tt.want {
				assert.Equal(t, maxWord, tt.got.Value(), "set mask must be all ones")
			} else {
				assert.Equal(t, big.Word(0), tt.got.Value(), "cleared mask must be zero")
			}
		})
	}
}

func TestSelect(t *testing.T) {
	assert.Equal(t, big.Word(10), Set().Select(10, 20))
	assert.Equal(t, big.Word(20), Cleared().Select(10, 20))
	assert.Equal(t, big.Word(3), Set().IfSetReturn(3))
	assert.Equal(t, big.Word(0), Set().IfNotSetReturn(3))
	assert.Equal(t, big.Word(1), Set().Bit())
	assert.Equal(t, big.Word(0), Cleared().Bit())

	a := []big.Word{1, 2, 3}
	b := []big.Word{4, 5, 6}
	out := make([]big.Word, 3)
	Set().SelectN(out, a, b)
	assert.Equal(t, a, out)
	Cleared().SelectN(out, a, b)
	assert.Equal(t, b, out)

	Set().ConditionalSwap(a, b)
	assert.Equal(t, []big.Word{4, 5, 6}, a)
	assert.Equal(t, []big.Word{1, 2, 3}, b)
	Cleared().ConditionalSwap(a, b)
	assert.Equal(t, []big.Word{4, 5, 6}, a)

	Cleared().ConditionalCopy(a, b)
	assert.Equal(t, []big.Word{4, 5, 6}, a)
	Set().ConditionalCopy(a, b)
	assert.Equal(t, []big.Word{1, 2, 3}, a)

	Set().ZeroIfSet(a)
	assert.Equal(t, []big.Word{0, 0, 0}, a)
}

func TestWordSlices(t *testing.T) {
	assert.True(t, AllZeros(nil).IsSet())
	assert.True(t, AllZeros([]big.Word{0, 0}).IsSet())
	assert.False(t, AllZeros([]big.Word{0, 1}).IsSet())

	assert.True(t, EqualWords([]big.Word{1, 2}, []big.Word{1, 2, 0}).IsSet())
	assert.False(t, EqualWords([]big.Word{1, 2}, []big.Word{1, 2, 1}).IsSet())
	assert.False(t, EqualWords([]big.Word{1, 3}, []big.Word{1, 2}).IsSet())

	x := []big.Word{9, 9}
	Wipe(x)
	assert.Equal(t, []big.Word{0, 0}, x)
	bs := []byte{1, 2}
	WipeBytes(bs)
	assert.Equal(t, []byte{0, 0}, bs)
}
