// Package pcurves implements prime-order short Weierstrass curves
// y² = x³ + ax + b on top of the Montgomery arithmetic of package monty.
//
// Points are kept in Jacobian coordinates (X, Y, Z) with x = X/Z² and
// y = Y/Z³. The identity has Z = 0 in projective form and is (0, 0) in affine
// form, which is never a point on the curves handled here.
//
// Functions taking secret scalars (Mul, MulByG, MulXOnly, MulPxQy,
// BasePointMulXModOrder) run in time that depends only on the curve size.
// The Vartime functions are for public scalars only.
package pcurves

import (
	"io"

	"gitee.com/jkuang/go-ctreduce/monty"
)

// Curve is the interface every prime-order curve provides.
type Curve interface {
	Name() string
	OrderBits() int
	ScalarBytes() int
	FieldElementBytes() int
	Generator() AffinePoint

	MulByG(s Scalar, rng io.Reader) (ProjectivePoint, error)
	Mul(pt AffinePoint, s Scalar, rng io.Reader) (ProjectivePoint, error)
	MulXOnly(pt AffinePoint, s Scalar, rng io.Reader) ([]byte, error)
	Mul2Setup(x, y AffinePoint) *Mul2Table
	Mul2Vartime(table *Mul2Table, s1, s2 Scalar) (ProjectivePoint, bool)
	MulPxQy(p AffinePoint, x Scalar, q AffinePoint, y Scalar, rng io.Reader) (ProjectivePoint, bool, error)
	Mul2VartimeXModOrderEq(table *Mul2Table, v, s1, s2 Scalar) bool
	BasePointMulXModOrder(s Scalar, rng io.Reader) (Scalar, error)

	PointToAffine(pt ProjectivePoint) AffinePoint
	PointToProjective(pt AffinePoint) ProjectivePoint
	PointDouble(pt ProjectivePoint) ProjectivePoint
	PointAdd(a, b ProjectivePoint) ProjectivePoint
	PointAddMixed(a ProjectivePoint, b AffinePoint) ProjectivePoint
	PointNegate(pt AffinePoint) AffinePoint
	AffinePointIsIdentity(pt AffinePoint) bool

	SerializePoint(pt AffinePoint) ([]byte, error)
	SerializePointCompressed(pt AffinePoint) ([]byte, error)
	SerializePointX(pt AffinePoint) ([]byte, error)
	SerializeScalar(s Scalar) []byte
	DeserializeScalar(b []byte) (Scalar, error)
	ScalarFromWideBytes(b []byte) (Scalar, error)
	DeserializePoint(b []byte) (AffinePoint, error)

	HashToCurveNU(hash string, input, domainSep []byte) (AffinePoint, error)
	HashToCurveRO(hash string, input, domainSep []byte) (ProjectivePoint, error)

	ScalarAdd(a, b Scalar) Scalar
	ScalarSub(a, b Scalar) Scalar
	ScalarMul(a, b Scalar) Scalar
	ScalarSquare(s Scalar) Scalar
	ScalarInvert(s Scalar) Scalar
	ScalarNegate(s Scalar) Scalar
	ScalarIsZero(s Scalar) bool
	ScalarEqual(a, b Scalar) bool
	ScalarZero() Scalar
	ScalarOne() Scalar
	RandomScalar(rng io.Reader) (Scalar, error)
}

// Scalar is an integer modulo the group order.
type Scalar struct {
	v *monty.Int
}

// AffinePoint is a point in affine coordinates.
type AffinePoint struct {
	x, y *monty.Int
}

// ProjectivePoint is a point in Jacobian coordinates.
type ProjectivePoint struct {
	x, y, z *monty.Int
}

// Mul2Table holds the multiples i·X + j·Y for i, j in [0, 4) used by the
// two-scalar multiplications.
type Mul2Table struct {
	table [16]ProjectivePoint
}
