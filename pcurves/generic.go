package pcurves

import (
	"io"
	"math/big"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/monty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GenericPrimeOrderCurve implements Curve for any short Weierstrass curve of
// prime order over a prime field, with the field and the order of equal
// word and byte length.
type GenericPrimeOrderCurve struct {
	name string

	p, a, b, n, gx, gy *big.Int

	fp *monty.Params // field
	fn *monty.Params // scalars

	aM, bM    *monty.Int
	aIsZero   bool
	aIsMinus3 bool

	g      AffinePoint
	gTable [16]ProjectivePoint

	orderBits   int
	scalarBytes int
	feBytes     int
}

var _ Curve = (*GenericPrimeOrderCurve)(nil)

// FromParams builds a curve from its domain parameters. The parameters are
// public; they are checked for consistency and the generator must lie on the
// curve.
func FromParams(name string, p, a, b, gx, gy, n *big.Int) (*GenericPrimeOrderCurve, error) {
	three := big.NewInt(3)
	for _, v := range []*big.Int{p, n} {
		if v == nil || v.Cmp(three) <= 0 || v.Bit(0) == 0 {
			return nil, errs.InvalidArgument("pcurves: %s: modulus and order must be odd and greater than 3", name)
		}
		if !v.ProbablyPrime(20) {
			return nil, errs.InvalidArgument("pcurves: %s: %s is not prime", name, v.Text(16))
		}
	}
	if len(p.Bits()) != len(n.Bits()) || (p.BitLen()+7)/8 != (n.BitLen()+7)/8 {
		return nil, errs.InvalidArgument("pcurves: %s: field and order sizes differ", name)
	}
	for _, v := range []*big.Int{a, b, gx, gy} {
		if v == nil || v.Sign() < 0 || v.Cmp(p) >= 0 {
			return nil, errs.InvalidArgument("pcurves: %s: parameter out of range", name)
		}
	}

	fp, err := monty.NewParams(bigint.FromBig(p))
	if err != nil {
		return nil, errors.Wrapf(err, "pcurves: %s: field", name)
	}
	fn, err := monty.NewParams(bigint.FromBig(n))
	if err != nil {
		return nil, errors.Wrapf(err, "pcurves: %s: order", name)
	}

	c := &GenericPrimeOrderCurve{
		name:        name,
		p:           new(big.Int).Set(p),
		a:           new(big.Int).Set(a),
		b:           new(big.Int).Set(b),
		n:           new(big.Int).Set(n),
		gx:          new(big.Int).Set(gx),
		gy:          new(big.Int).Set(gy),
		fp:          fp,
		fn:          fn,
		orderBits:   n.BitLen(),
		scalarBytes: (n.BitLen() + 7) / 8,
		feBytes:     (p.BitLen() + 7) / 8,
	}
	c.aM = c.fe(a)
	c.bM = c.fe(b)
	c.aIsZero = a.Sign() == 0
	c.aIsMinus3 = new(big.Int).Sub(p, a).Cmp(three) == 0

	// 4a³ + 27b² != 0
	disc := c.aM.Square().Mul(c.aM).Mul(c.feInt(4)).Add(c.bM.Square().Mul(c.feInt(27)))
	if disc.IsZero() {
		return nil, errs.InvalidArgument("pcurves: %s: singular curve", name)
	}

	c.g = AffinePoint{x: c.fe(gx), y: c.fe(gy)}
	if !c.onCurve(c.g).IsSet() {
		return nil, errs.InvalidArgument("pcurves: %s: generator is not on the curve", name)
	}
	c.gTable = c.windowTable(c.PointToProjective(c.g))

	logging.For("pcurves", "FromParams").WithFields(logrus.Fields{
		"curve": name,
		"bits":  c.orderBits,
	}).Debug("curve ready")
	return c, nil
}

// fe converts a public value in [0, p) to a field element.
func (c *GenericPrimeOrderCurve) fe(v *big.Int) *monty.Int {
	x, err := monty.FromBigint(c.fp, bigint.FromBig(v))
	if err != nil {
		panic(err)
	}
	return x
}

func (c *GenericPrimeOrderCurve) feInt(v uint64) *monty.Int {
	return monty.FromUint64(c.fp, v)
}

// Name returns the curve name.
func (c *GenericPrimeOrderCurve) Name() string { return c.name }

// Params returns copies of p, a, b, Gx, Gy and n.
func (c *GenericPrimeOrderCurve) Params() (p, a, b, gx, gy, n *big.Int) {
	return new(big.Int).Set(c.p), new(big.Int).Set(c.a), new(big.Int).Set(c.b),
		new(big.Int).Set(c.gx), new(big.Int).Set(c.gy), new(big.Int).Set(c.n)
}

// Order returns a copy of the group order.
func (c *GenericPrimeOrderCurve) Order() *big.Int { return new(big.Int).Set(c.n) }

// OrderBits returns the bit length of the group order.
func (c *GenericPrimeOrderCurve) OrderBits() int { return c.orderBits }

// ScalarBytes returns the encoded size of a scalar.
func (c *GenericPrimeOrderCurve) ScalarBytes() int { return c.scalarBytes }

// FieldElementBytes returns the encoded size of a field element.
func (c *GenericPrimeOrderCurve) FieldElementBytes() int { return c.feBytes }

// Generator returns the base point.
func (c *GenericPrimeOrderCurve) Generator() AffinePoint { return c.g }

func (c *GenericPrimeOrderCurve) scalar(v *monty.Int) Scalar { return Scalar{v: v} }

// ScalarAdd returns a + b mod n.
func (c *GenericPrimeOrderCurve) ScalarAdd(a, b Scalar) Scalar { return c.scalar(a.v.Add(b.v)) }

// ScalarSub returns a - b mod n.
func (c *GenericPrimeOrderCurve) ScalarSub(a, b Scalar) Scalar { return c.scalar(a.v.Sub(b.v)) }

// ScalarMul returns a·b mod n.
func (c *GenericPrimeOrderCurve) ScalarMul(a, b Scalar) Scalar { return c.scalar(a.v.Mul(b.v)) }

// ScalarSquare returns s² mod n.
func (c *GenericPrimeOrderCurve) ScalarSquare(s Scalar) Scalar { return c.scalar(s.v.Square()) }

// ScalarInvert returns s⁻¹ mod n, or zero for zero.
func (c *GenericPrimeOrderCurve) ScalarInvert(s Scalar) Scalar { return c.scalar(s.v.Inverse()) }

// ScalarNegate returns -s mod n.
func (c *GenericPrimeOrderCurve) ScalarNegate(s Scalar) Scalar { return c.scalar(s.v.Negate()) }

// ScalarIsZero reports whether s == 0.
func (c *GenericPrimeOrderCurve) ScalarIsZero(s Scalar) bool { return s.v.IsZero() }

// ScalarEqual reports whether a == b.
func (c *GenericPrimeOrderCurve) ScalarEqual(a, b Scalar) bool {
	if !a.v.Params().SameModulus(b.v.Params()) {
		return false
	}
	return a.v.Equal(b.v)
}

// ScalarZero returns 0.
func (c *GenericPrimeOrderCurve) ScalarZero() Scalar { return c.scalar(monty.Zero(c.fn)) }

// ScalarOne returns 1.
func (c *GenericPrimeOrderCurve) ScalarOne() Scalar { return c.scalar(monty.One(c.fn)) }

// ScalarFromBig converts v, which must lie in [0, n).
func (c *GenericPrimeOrderCurve) ScalarFromBig(v *big.Int) (Scalar, error) {
	if v.Sign() < 0 || v.Cmp(c.n) >= 0 {
		return Scalar{}, errs.InvalidArgument("pcurves: scalar out of range")
	}
	s, err := monty.FromBigint(c.fn, bigint.FromBig(v))
	if err != nil {
		return Scalar{}, err
	}
	return c.scalar(s), nil
}

// ScalarToBig returns the value of s.
func (c *GenericPrimeOrderCurve) ScalarToBig(s Scalar) *big.Int { return s.v.Value().Big() }

// RandomScalar returns a uniformly random non-zero scalar read from rng.
func (c *GenericPrimeOrderCurve) RandomScalar(rng io.Reader) (Scalar, error) {
	const maxAttempts = 1000
	buf := make([]byte, c.scalarBytes)
	defer ct.WipeBytes(buf)
	excess := uint(8*c.scalarBytes - c.orderBits)
	for i := 0; i < maxAttempts; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return Scalar{}, errors.Wrap(err, "pcurves: reading random scalar")
		}
		buf[0] &= 0xff >> excess
		s, err := c.DeserializeScalar(buf)
		if err == nil && !c.ScalarIsZero(s) {
			return s, nil
		}
	}
	return Scalar{}, errors.New("pcurves: failed to generate a random scalar")
}

// HashToCurveNU is not provided for generic curves.
func (c *GenericPrimeOrderCurve) HashToCurveNU(hash string, input, domainSep []byte) (AffinePoint, error) {
	return AffinePoint{}, errs.NotImplemented("HashToCurveNU")
}

// HashToCurveRO is not provided for generic curves.
func (c *GenericPrimeOrderCurve) HashToCurveRO(hash string, input, domainSep []byte) (ProjectivePoint, error) {
	return ProjectivePoint{}, errs.NotImplemented("HashToCurveRO")
}
