package pcurves

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/monty"
)

// SEC1 point encoding tags
const (
	tagCompressedEven = 0x02
	tagCompressedOdd  = 0x03
	tagUncompressed   = 0x04
)

func (c *GenericPrimeOrderCurve) encodeFE(dst []byte, x *monty.Int) {
	if err := x.FillBytes(dst); err != nil {
		panic(err)
	}
}

// SerializePoint returns the uncompressed SEC1 encoding 04 || x || y.
func (c *GenericPrimeOrderCurve) SerializePoint(pt AffinePoint) ([]byte, error) {
	if c.AffinePointIsIdentity(pt) {
		return nil, errs.InvalidArgument("pcurves: cannot encode the identity")
	}
	out := make([]byte, 1+2*c.feBytes)
	out[0] = tagUncompressed
	c.encodeFE(out[1:1+c.feBytes], pt.x)
	c.encodeFE(out[1+c.feBytes:], pt.y)
	return out, nil
}

// SerializePointCompressed returns the compressed SEC1 encoding.
func (c *GenericPrimeOrderCurve) SerializePointCompressed(pt AffinePoint) ([]byte, error) {
	if c.AffinePointIsIdentity(pt) {
		return nil, errs.InvalidArgument("pcurves: cannot encode the identity")
	}
	out := make([]byte, 1+c.feBytes)
	out[0] = tagCompressedEven | byte(pt.y.IsOdd().Bit())
	c.encodeFE(out[1:], pt.x)
	return out, nil
}

// SerializePointX returns the encoded affine x coordinate.
func (c *GenericPrimeOrderCurve) SerializePointX(pt AffinePoint) ([]byte, error) {
	if c.AffinePointIsIdentity(pt) {
		return nil, errs.InvalidArgument("pcurves: cannot encode the identity")
	}
	out := make([]byte, c.feBytes)
	c.encodeFE(out, pt.x)
	return out, nil
}

// SerializeScalar returns s as ScalarBytes big-endian bytes.
func (c *GenericPrimeOrderCurve) SerializeScalar(s Scalar) []byte {
	out := make([]byte, c.scalarBytes)
	if err := s.v.FillBytes(out); err != nil {
		panic(err)
	}
	return out
}

// DeserializeScalar decodes exactly ScalarBytes bytes holding a value below
// the order.
func (c *GenericPrimeOrderCurve) DeserializeScalar(b []byte) (Scalar, error) {
	if len(b) != c.scalarBytes {
		return Scalar{}, errs.Decoding("pcurves: scalar must be %d bytes", c.scalarBytes)
	}
	w, err := bigint.FromBytes(b).Padded(c.fn.Words())
	if err != nil {
		return Scalar{}, errs.Decoding("pcurves: scalar out of range")
	}
	defer ct.Wipe(w)
	v, err := monty.FromWords(c.fn, w)
	if err != nil {
		return Scalar{}, errs.Decoding("pcurves: scalar out of range")
	}
	return c.scalar(v), nil
}

// ScalarFromWideBytes reduces up to 2·ScalarBytes bytes modulo the order.
func (c *GenericPrimeOrderCurve) ScalarFromWideBytes(b []byte) (Scalar, error) {
	if len(b) > 2*c.scalarBytes {
		return Scalar{}, errs.Decoding("pcurves: at most %d bytes can be reduced", 2*c.scalarBytes)
	}
	x := bigint.FromBytes(b)
	defer x.Wipe()
	v, err := monty.FromBigint(c.fn, x)
	if err != nil {
		return Scalar{}, err
	}
	return c.scalar(v), nil
}

func (c *GenericPrimeOrderCurve) decodeFE(b []byte) (*monty.Int, error) {
	w, err := bigint.FromBytes(b).Padded(c.fp.Words())
	if err != nil {
		return nil, errs.Decoding("pcurves: coordinate out of range")
	}
	x, err := monty.FromWords(c.fp, w)
	if err != nil {
		return nil, errs.Decoding("pcurves: coordinate out of range")
	}
	return x, nil
}

// DeserializePoint decodes a compressed or uncompressed SEC1 point. The
// identity and points off the curve are rejected.
func (c *GenericPrimeOrderCurve) DeserializePoint(b []byte) (AffinePoint, error) {
	switch {
	case len(b) == 1+2*c.feBytes && b[0] == tagUncompressed:
		x, err := c.decodeFE(b[1 : 1+c.feBytes])
		if err != nil {
			return AffinePoint{}, err
		}
		y, err := c.decodeFE(b[1+c.feBytes:])
		if err != nil {
			return AffinePoint{}, err
		}
		pt := AffinePoint{x: x, y: y}
		if !c.onCurve(pt).IsSet() {
			return AffinePoint{}, errs.Decoding("pcurves: point is not on the curve")
		}
		return pt, nil

	case len(b) == 1+c.feBytes && (b[0] == tagCompressedEven || b[0] == tagCompressedOdd):
		x, err := c.decodeFE(b[1:])
		if err != nil {
			return AffinePoint{}, err
		}
		rhs := x.Square().Mul(x).Add(c.aM.Mul(x)).Add(c.bM)
		y, ok, err := rhs.Sqrt()
		if err != nil {
			return AffinePoint{}, err
		}
		if !ok.IsSet() {
			return AffinePoint{}, errs.Decoding("pcurves: x is not on the curve")
		}
		flip := ct.IsEqual(y.IsOdd().Bit(), big.Word(b[0]&1)).Not()
		y = monty.Select(flip, y.Negate(), y)
		return AffinePoint{x: x, y: y}, nil
	}
	return AffinePoint{}, errs.Decoding("pcurves: unrecognized point encoding")
}
