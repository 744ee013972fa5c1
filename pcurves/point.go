package pcurves

import (
	"io"
	"math/big"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/monty"
	"github.com/pkg/errors"
)

func (c *GenericPrimeOrderCurve) identity() ProjectivePoint {
	return ProjectivePoint{x: monty.Zero(c.fp), y: monty.One(c.fp), z: monty.Zero(c.fp)}
}

// onCurve returns a set mask iff y² = x³ + ax + b.
func (c *GenericPrimeOrderCurve) onCurve(pt AffinePoint) ct.Mask {
	rhs := pt.x.Square().Mul(pt.x).Add(c.aM.Mul(pt.x)).Add(c.bM)
	return pt.y.Square().EqualMask(rhs)
}

func affineIdentity(pt AffinePoint) ct.Mask {
	return pt.x.IsZeroMask().And(pt.y.IsZeroMask())
}

func selectPoint(m ct.Mask, a, b ProjectivePoint) ProjectivePoint {
	return ProjectivePoint{
		x: monty.Select(m, a.x, b.x),
		y: monty.Select(m, a.y, b.y),
		z: monty.Select(m, a.z, b.z),
	}
}

// AffinePointIsIdentity reports whether pt is the point at infinity.
func (c *GenericPrimeOrderCurve) AffinePointIsIdentity(pt AffinePoint) bool {
	return affineIdentity(pt).IsSet()
}

// IsIdentity reports whether pt is the point at infinity.
func (c *GenericPrimeOrderCurve) IsIdentity(pt ProjectivePoint) bool {
	return pt.z.IsZero()
}

// PointToProjective lifts pt to Jacobian coordinates with Z = 1.
func (c *GenericPrimeOrderCurve) PointToProjective(pt AffinePoint) ProjectivePoint {
	id := affineIdentity(pt)
	one := monty.One(c.fp)
	return ProjectivePoint{
		x: pt.x.Clone(),
		y: monty.Select(id, one, pt.y),
		z: monty.Select(id, monty.Zero(c.fp), one),
	}
}

// PointToAffine converts pt to affine coordinates. The identity maps to
// (0, 0).
func (c *GenericPrimeOrderCurve) PointToAffine(pt ProjectivePoint) AffinePoint {
	zInv := pt.z.Inverse()
	zInv2 := zInv.Square()
	zInv3 := zInv2.Mul(zInv)
	return AffinePoint{x: pt.x.Mul(zInv2), y: pt.y.Mul(zInv3)}
}

// pointToAffineX returns only the affine x coordinate.
func (c *GenericPrimeOrderCurve) pointToAffineX(pt ProjectivePoint) *monty.Int {
	return pt.x.Mul(pt.z.Inverse().Square())
}

// PointDouble returns 2·pt.
func (c *GenericPrimeOrderCurve) PointDouble(pt ProjectivePoint) ProjectivePoint {
	// https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian.html#doubling-dbl-1998-cmo-2
	var m *monty.Int
	switch {
	case c.aIsMinus3:
		// 3x² + az⁴ = 3(x - z²)(x + z²)
		z2 := pt.z.Square()
		m = mul3(pt.x.Sub(z2)).Mul(pt.x.Add(z2))
	case c.aIsZero:
		m = mul3(pt.x.Square())
	default:
		z2 := pt.z.Square()
		m = mul3(pt.x.Square()).Add(c.aM.Mul(z2.Square()))
	}
	y2 := pt.y.Square()
	s := pt.x.Double().Double().Mul(y2)
	nx := m.Square().Sub(s.Double())
	ny := m.Mul(s.Sub(nx)).Sub(y2.Square().Double().Double().Double())
	nz := pt.y.Double().Mul(pt.z)
	return ProjectivePoint{x: nx, y: ny, z: nz}
}

func mul3(x *monty.Int) *monty.Int { return x.Double().Add(x) }

// PointAdd returns a + b. Doubling and identity inputs are handled without
// branching on the coordinates.
func (c *GenericPrimeOrderCurve) PointAdd(a, b ProjectivePoint) ProjectivePoint {
	// https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian.html#addition-add-1998-cmo-2
	z1z1 := a.z.Square()
	z2z2 := b.z.Square()
	u1 := a.x.Mul(z2z2)
	u2 := b.x.Mul(z1z1)
	s1 := a.y.Mul(b.z).Mul(z2z2)
	s2 := b.y.Mul(a.z).Mul(z1z1)
	h := u2.Sub(u1)
	r := s2.Sub(s1)

	hh := h.Square()
	hhh := h.Mul(hh)
	v := u1.Mul(hh)
	x3 := r.Square().Sub(hhh).Sub(v.Double())
	y3 := r.Mul(v.Sub(x3)).Sub(s1.Mul(hhh))
	z3 := a.z.Mul(b.z).Mul(h)
	sum := ProjectivePoint{x: x3, y: y3, z: z3}

	isDouble := h.IsZeroMask().And(r.IsZeroMask())
	sum = selectPoint(isDouble, c.PointDouble(a), sum)
	sum = selectPoint(a.z.IsZeroMask(), b, sum)
	sum = selectPoint(b.z.IsZeroMask(), a, sum)
	return sum
}

// PointAddMixed returns a + b for an affine b.
func (c *GenericPrimeOrderCurve) PointAddMixed(a ProjectivePoint, b AffinePoint) ProjectivePoint {
	return c.PointAdd(a, c.PointToProjective(b))
}

// PointNegate returns -pt.
func (c *GenericPrimeOrderCurve) PointNegate(pt AffinePoint) AffinePoint {
	return AffinePoint{x: pt.x.Clone(), y: pt.y.Negate()}
}

// ProjectiveNegate returns -pt.
func (c *GenericPrimeOrderCurve) ProjectiveNegate(pt ProjectivePoint) ProjectivePoint {
	return ProjectivePoint{x: pt.x.Clone(), y: pt.y.Negate(), z: pt.z.Clone()}
}

// AffineFromBig builds a point from public coordinates. (0, 0) is the
// identity; any other pair must lie on the curve.
func (c *GenericPrimeOrderCurve) AffineFromBig(x, y *big.Int) (AffinePoint, error) {
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(c.p) >= 0 || y.Cmp(c.p) >= 0 {
		return AffinePoint{}, errs.InvalidArgument("pcurves: coordinate out of range")
	}
	pt := AffinePoint{x: c.fe(x), y: c.fe(y)}
	if !affineIdentity(pt).IsSet() && !c.onCurve(pt).IsSet() {
		return AffinePoint{}, errs.InvalidArgument("pcurves: point is not on the curve")
	}
	return pt, nil
}

// AffineToBig returns the coordinates of pt; the identity is (0, 0).
func (c *GenericPrimeOrderCurve) AffineToBig(pt AffinePoint) (x, y *big.Int) {
	return pt.x.Value().Big(), pt.y.Value().Big()
}

// AffineEqual reports whether a and b are the same point.
func (c *GenericPrimeOrderCurve) AffineEqual(a, b AffinePoint) bool {
	return a.x.EqualMask(b.x).And(a.y.EqualMask(b.y)).IsSet()
}

// randomize rescales pt to (λ²X, λ³Y, λZ) for a random non-zero λ.
func (c *GenericPrimeOrderCurve) randomize(pt ProjectivePoint, lambda *monty.Int) ProjectivePoint {
	l2 := lambda.Square()
	return ProjectivePoint{x: pt.x.Mul(l2), y: pt.y.Mul(l2.Mul(lambda)), z: pt.z.Mul(lambda)}
}

// randomFieldElement draws a non-zero field element from rng, or returns
// one when rng is nil.
func (c *GenericPrimeOrderCurve) randomFieldElement(rng io.Reader) (*monty.Int, error) {
	one := monty.One(c.fp)
	if rng == nil {
		return one, nil
	}
	buf := make([]byte, c.feBytes+16)
	defer ct.WipeBytes(buf)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, errors.Wrap(err, "pcurves: reading blinding factor")
	}
	lambda, err := monty.FromBigint(c.fp, bigint.FromBytes(buf))
	if err != nil {
		return nil, err
	}
	return monty.Select(lambda.IsZeroMask(), one, lambda), nil
}
