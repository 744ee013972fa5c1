// Package x25519 implements the X25519 function of RFC 7748 as a
// Montgomery ladder over the monty field arithmetic.
package x25519

import (
	"math/big"
	"sync"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/monty"
	"gitee.com/jkuang/go-ctreduce/mp"
)

const (
	// ScalarSize is the size of a scalar in bytes.
	ScalarSize = 32
	// PointSize is the size of an encoded u coordinate in bytes.
	PointSize = 32

	a24 = 121665
)

// Basepoint is the canonical u = 9 generator.
var Basepoint = []byte{9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

var (
	fieldOnce sync.Once
	field     *monty.Params
)

// p = 2^255 - 19
func fieldParams() *monty.Params {
	fieldOnce.Do(func() {
		p := bigint.Sub(bigint.PowerOf2(255), bigint.FromUint64(19))
		var err error
		if field, err = monty.NewParams(p); err != nil {
			panic(err)
		}
		logging.For("x25519", "fieldParams").Debug("field ready")
	})
	return field
}

func reversed(b []byte) []byte {
	r := make([]byte, len(b))
	for i := range b {
		r[len(b)-1-i] = b[i]
	}
	return r
}

// decodeU reads a little-endian u coordinate, ignoring the top bit and
// reducing non-canonical values.
func decodeU(fp *monty.Params, b []byte) (*monty.Int, error) {
	be := reversed(b)
	be[0] &= 0x7f
	return monty.FromBigint(fp, bigint.FromBytes(be))
}

// clamp returns the clamped scalar as words.
func clamp(fp *monty.Params, scalar []byte) ([]big.Word, error) {
	be := reversed(scalar)
	defer ct.WipeBytes(be)
	be[31] &= 248
	be[0] &= 127
	be[0] |= 64
	k := bigint.FromBytes(be)
	defer k.Wipe()
	return k.Padded(fp.Words())
}

// X25519 returns scalar·point, both 32 bytes. An all-zero result, which
// comes from a low-order point, is an error.
func X25519(scalar, point []byte) ([]byte, error) {
	if len(scalar) != ScalarSize {
		return nil, errs.InvalidArgument("x25519: scalar must be %d bytes", ScalarSize)
	}
	if len(point) != PointSize {
		return nil, errs.InvalidArgument("x25519: point must be %d bytes", PointSize)
	}
	fp := fieldParams()
	u, err := decodeU(fp, point)
	if err != nil {
		return nil, err
	}
	k, err := clamp(fp, scalar)
	if err != nil {
		return nil, err
	}
	defer ct.Wipe(k)

	r := ladder(fp, k, u)
	out := make([]byte, PointSize)
	if err := r.FillBytes(out); err != nil {
		return nil, err
	}
	out = reversed(out)
	if r.IsZero() {
		return nil, errs.InvalidArgument("x25519: low order point")
	}
	return out, nil
}

// ladder runs the RFC 7748 Montgomery ladder over the 255 scalar bits.
func ladder(fp *monty.Params, k []big.Word, u *monty.Int) *monty.Int {
	x1 := u
	x2, z2 := monty.One(fp), monty.Zero(fp)
	x3, z3 := u.Clone(), monty.One(fp)
	a := monty.FromUint64(fp, a24)

	var swap big.Word
	for t := 254; t >= 0; t-- {
		kt := (k[t/mp.WordBits] >> uint(t%mp.WordBits)) & 1
		swap ^= kt
		m := ct.FromBit(swap)
		monty.CondSwap(m, x2, x3)
		monty.CondSwap(m, z2, z3)
		swap = kt

		A := x2.Add(z2)
		AA := A.Square()
		B := x2.Sub(z2)
		BB := B.Square()
		E := AA.Sub(BB)
		C := x3.Add(z3)
		D := x3.Sub(z3)
		DA := D.Mul(A)
		CB := C.Mul(B)
		x3 = DA.Add(CB).Square()
		z3 = x1.Mul(DA.Sub(CB).Square())
		x2 = AA.Mul(BB)
		z2 = E.Mul(AA.Add(a.Mul(E)))
	}
	m := ct.FromBit(swap)
	monty.CondSwap(m, x2, x3)
	monty.CondSwap(m, z2, z3)
	return x2.Mul(z2.Inverse())
}
