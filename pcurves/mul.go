package pcurves

import (
	"io"
	"math/big"

	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/monty"
	"gitee.com/jkuang/go-ctreduce/mp"
)

const (
	windowBits  = 4
	mul2Bits    = 2
	mul2Entries = 1 << mul2Bits
)

// windowTable returns [0·P, 1·P, ..., 15·P].
func (c *GenericPrimeOrderCurve) windowTable(pt ProjectivePoint) [1 << windowBits]ProjectivePoint {
	var table [1 << windowBits]ProjectivePoint
	table[0] = c.identity()
	table[1] = pt
	for i := 2; i < len(table); i++ {
		table[i] = c.PointAdd(table[i-1], pt)
	}
	return table
}

// scalarWindow returns the w bits of k starting at bit pos.
func scalarWindow(k []big.Word, pos, w int) big.Word {
	var r big.Word
	for i := 0; i < w; i++ {
		bit := pos + i
		idx := bit / mp.WordBits
		if idx < len(k) {
			r |= ((k[idx] >> uint(bit%mp.WordBits)) & 1) << uint(i)
		}
	}
	return r
}

// lookup reads table[idx] touching every entry.
func (c *GenericPrimeOrderCurve) lookup(table []ProjectivePoint, idx big.Word) ProjectivePoint {
	r := ProjectivePoint{x: monty.Zero(c.fp), y: monty.Zero(c.fp), z: monty.Zero(c.fp)}
	for i := range table {
		m := ct.IsEqual(big.Word(i), idx)
		r.x.CondAssign(m, table[i].x)
		r.y.CondAssign(m, table[i].y)
		r.z.CondAssign(m, table[i].z)
	}
	return r
}

func (c *GenericPrimeOrderCurve) blindTable(table []ProjectivePoint, rng io.Reader) ([]ProjectivePoint, error) {
	lambda, err := c.randomFieldElement(rng)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectivePoint, len(table))
	for i := range table {
		out[i] = c.randomize(table[i], lambda)
	}
	return out, nil
}

func wipeTable(table []ProjectivePoint) {
	for i := range table {
		table[i].x.Wipe()
		table[i].y.Wipe()
		table[i].z.Wipe()
	}
}

// mulWindowed computes s·P from the 16-entry table of P.
func (c *GenericPrimeOrderCurve) mulWindowed(table [1 << windowBits]ProjectivePoint, s Scalar, rng io.Reader) (ProjectivePoint, error) {
	blinded, err := c.blindTable(table[:], rng)
	if err != nil {
		return ProjectivePoint{}, err
	}
	defer wipeTable(blinded)
	k := s.v.Words()
	defer ct.Wipe(k)

	acc := c.identity()
	windows := (c.orderBits + windowBits - 1) / windowBits
	for w := windows - 1; w >= 0; w-- {
		for i := 0; i < windowBits; i++ {
			acc = c.PointDouble(acc)
		}
		acc = c.PointAdd(acc, c.lookup(blinded, scalarWindow(k, w*windowBits, windowBits)))
	}
	return acc, nil
}

// MulByG returns s·G. rng, when not nil, randomizes the projective
// representation of the precomputed table.
func (c *GenericPrimeOrderCurve) MulByG(s Scalar, rng io.Reader) (ProjectivePoint, error) {
	return c.mulWindowed(c.gTable, s, rng)
}

// Mul returns s·pt.
func (c *GenericPrimeOrderCurve) Mul(pt AffinePoint, s Scalar, rng io.Reader) (ProjectivePoint, error) {
	return c.mulWindowed(c.windowTable(c.PointToProjective(pt)), s, rng)
}

// MulXOnly returns the encoded affine x coordinate of s·pt. A result at
// the identity is an error.
func (c *GenericPrimeOrderCurve) MulXOnly(pt AffinePoint, s Scalar, rng io.Reader) ([]byte, error) {
	r, err := c.Mul(pt, s, rng)
	if err != nil {
		return nil, err
	}
	return c.SerializePointX(c.PointToAffine(r))
}

// Mul2Setup precomputes i·x + j·y for i, j in [0, 4).
func (c *GenericPrimeOrderCurve) Mul2Setup(x, y AffinePoint) *Mul2Table {
	var xs, ys [mul2Entries]ProjectivePoint
	xs[0], ys[0] = c.identity(), c.identity()
	px, py := c.PointToProjective(x), c.PointToProjective(y)
	for i := 1; i < mul2Entries; i++ {
		xs[i] = c.PointAdd(xs[i-1], px)
		ys[i] = c.PointAdd(ys[i-1], py)
	}
	t := new(Mul2Table)
	for j := 0; j < mul2Entries; j++ {
		for i := 0; i < mul2Entries; i++ {
			t.table[i+mul2Entries*j] = c.PointAdd(xs[i], ys[j])
		}
	}
	return t
}

// Mul2Vartime returns s1·x + s2·y for the points of table. The scalars are
// public. ok is false when the result is the identity.
func (c *GenericPrimeOrderCurve) Mul2Vartime(table *Mul2Table, s1, s2 Scalar) (ProjectivePoint, bool) {
	k1, k2 := s1.v.Words(), s2.v.Words()
	acc := c.identity()
	windows := (c.orderBits + mul2Bits - 1) / mul2Bits
	for w := windows - 1; w >= 0; w-- {
		acc = c.PointDouble(c.PointDouble(acc))
		idx := scalarWindow(k1, w*mul2Bits, mul2Bits) + mul2Entries*scalarWindow(k2, w*mul2Bits, mul2Bits)
		if idx != 0 {
			acc = c.PointAdd(acc, table.table[idx])
		}
	}
	return acc, !c.IsIdentity(acc)
}

// MulPxQy returns x·p + y·q for secret scalars. ok is false when the result
// is the identity.
func (c *GenericPrimeOrderCurve) MulPxQy(p AffinePoint, x Scalar, q AffinePoint, y Scalar, rng io.Reader) (ProjectivePoint, bool, error) {
	setup := c.Mul2Setup(p, q)
	blinded, err := c.blindTable(setup.table[:], rng)
	if err != nil {
		return ProjectivePoint{}, false, err
	}
	defer wipeTable(blinded)
	k1, k2 := x.v.Words(), y.v.Words()
	defer ct.Wipe(k1)
	defer ct.Wipe(k2)

	acc := c.identity()
	windows := (c.orderBits + mul2Bits - 1) / mul2Bits
	for w := windows - 1; w >= 0; w-- {
		acc = c.PointDouble(c.PointDouble(acc))
		idx := scalarWindow(k1, w*mul2Bits, mul2Bits) + mul2Entries*scalarWindow(k2, w*mul2Bits, mul2Bits)
		acc = c.PointAdd(acc, c.lookup(blinded, idx))
	}
	return acc, !c.IsIdentity(acc), nil
}

// xModOrder maps a field element to its value modulo the group order.
func (c *GenericPrimeOrderCurve) xModOrder(x *monty.Int) (Scalar, error) {
	v, err := monty.FromBigint(c.fn, x.Value())
	if err != nil {
		return Scalar{}, err
	}
	return c.scalar(v), nil
}

// Mul2VartimeXModOrderEq reports whether the affine x coordinate of
// s1·x + s2·y, reduced modulo the order, equals v. This is the final check of
// ECDSA style verification.
func (c *GenericPrimeOrderCurve) Mul2VartimeXModOrderEq(table *Mul2Table, v, s1, s2 Scalar) bool {
	pt, ok := c.Mul2Vartime(table, s1, s2)
	if !ok {
		return false
	}
	x, err := c.xModOrder(c.pointToAffineX(pt))
	if err != nil {
		return false
	}
	return c.ScalarEqual(x, v)
}

// BasePointMulXModOrder returns the x coordinate of s·G reduced modulo the
// order, or zero when s·G is the identity.
func (c *GenericPrimeOrderCurve) BasePointMulXModOrder(s Scalar, rng io.Reader) (Scalar, error) {
	pt, err := c.MulByG(s, rng)
	if err != nil {
		return Scalar{}, err
	}
	return c.xModOrder(c.pointToAffineX(pt))
}
