// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctreduce

import (
	"crypto/aes"
	"crypto/cipher"
	"io"
	"math/big"

	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/hashsel"
	"gitee.com/jkuang/go-ctreduce/pcurves"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

const (
	aesIV = "IV for ECDSA CTR"

	maxSignAttempts = 100
)

// PublicKey represents an ECDSA public key.
type PublicKey struct {
	Curve pcurves.Curve
	X, Y  *big.Int
}

// PrivateKey represents an ECDSA private key.
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// point decodes the public key, rejecting coordinates off the curve.
func (pub *PublicKey) point() (pcurves.AffinePoint, error) {
	if pub.X == nil || pub.Y == nil || pub.X.Sign() < 0 || pub.Y.Sign() < 0 {
		return pcurves.AffinePoint{}, errs.InvalidArgument("ecdsa: invalid public key")
	}
	n := pub.Curve.FieldElementBytes()
	buf := make([]byte, 1, 1+2*n)
	buf[0] = 4
	buf = append(buf, math.PaddedBigBytes(pub.X, n)...)
	buf = append(buf, math.PaddedBigBytes(pub.Y, n)...)
	return pub.Curve.DeserializePoint(buf)
}

func scalarFromBig(c pcurves.Curve, v *big.Int) (pcurves.Scalar, error) {
	if v == nil || v.Sign() < 0 {
		return pcurves.Scalar{}, errs.InvalidArgument("ecdsa: negative scalar")
	}
	return c.DeserializeScalar(math.PaddedBigBytes(v, c.ScalarBytes()))
}

// GenerateKey generates a public and private key pair.
func GenerateKey(c pcurves.Curve, rand io.Reader) (*PrivateKey, error) {
	d, err := c.RandomScalar(rand)
	if err != nil {
		return nil, err
	}
	q, err := c.MulByG(d, rand)
	if err != nil {
		return nil, err
	}
	enc, err := c.SerializePoint(c.PointToAffine(q))
	if err != nil {
		return nil, err
	}
	n := c.FieldElementBytes()
	priv := new(PrivateKey)
	priv.PublicKey.Curve = c
	priv.PublicKey.X = new(big.Int).SetBytes(enc[1 : 1+n])
	priv.PublicKey.Y = new(big.Int).SetBytes(enc[1+n:])
	priv.D = new(big.Int).SetBytes(c.SerializeScalar(d))
	return priv, nil
}

// hashToScalar converts a hash value to a scalar, keeping the leftmost
// OrderBits bits as in FIPS 186-4 section 6.4.
func hashToScalar(hash []byte, c pcurves.Curve) (pcurves.Scalar, error) {
	orderBits := c.OrderBits()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}
	ret := new(big.Int).SetBytes(hash)
	if excess := len(hash)*8 - orderBits; excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return c.ScalarFromWideBytes(ret.Bytes())
}

// nonceReader returns a CSPRNG keyed by SHA-512(D || entropy || hash), so a
// broken rand does not repeat nonces across messages.
func nonceReader(rand io.Reader, priv *PrivateKey, hash []byte) (io.Reader, error) {
	entropy := make([]byte, 32)
	if _, err := io.ReadFull(rand, entropy); err != nil {
		return nil, errors.Wrap(err, "ecdsa: reading entropy")
	}
	b, err := hashsel.Select("SHA-512")
	if err != nil {
		return nil, err
	}
	md := b.New()
	md.Write(math.PaddedBigBytes(priv.D, priv.Curve.ScalarBytes()))
	md.Write(entropy)
	md.Write(hash)
	key := md.Sum(nil)[:32]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &cipher.StreamReader{
		R: zeroReader,
		S: cipher.NewCTR(block, []byte(aesIV)),
	}, nil
}

// Sign signs a hash using the private key. If the hash is longer than the
// bit length of the order, it is truncated.
func Sign(rand io.Reader, priv *PrivateKey, hash []byte) (r, s *big.Int, err error) {
	c := priv.Curve
	d, err := scalarFromBig(c, priv.D)
	if err != nil || c.ScalarIsZero(d) {
		return nil, nil, errs.InvalidArgument("ecdsa: invalid private key")
	}
	e, err := hashToScalar(hash, c)
	if err != nil {
		return nil, nil, err
	}
	csprng, err := nonceReader(rand, priv, hash)
	if err != nil {
		return nil, nil, err
	}

	for i := 0; i < maxSignAttempts; i++ {
		k, err := c.RandomScalar(csprng)
		if err != nil {
			return nil, nil, err
		}
		rs, err := c.BasePointMulXModOrder(k, csprng)
		if err != nil {
			return nil, nil, err
		}
		if c.ScalarIsZero(rs) {
			continue
		}
		// s = k⁻¹(e + r·d)
		ss := c.ScalarMul(c.ScalarInvert(k), c.ScalarAdd(e, c.ScalarMul(rs, d)))
		if c.ScalarIsZero(ss) {
			continue
		}
		return new(big.Int).SetBytes(c.SerializeScalar(rs)), new(big.Int).SetBytes(c.SerializeScalar(ss)), nil
	}
	return nil, nil, errors.New("ecdsa: failed to produce a signature")
}

// Verify verifies the signature in r, s of hash using the public key, pub.
// Its return value records whether the signature is valid.
func Verify(pub *PublicKey, hash []byte, r, s *big.Int) bool {
	c := pub.Curve
	if r == nil || s == nil || r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	rs, err := scalarFromBig(c, r)
	if err != nil {
		return false
	}
	ss, err := scalarFromBig(c, s)
	if err != nil {
		return false
	}
	q, err := pub.point()
	if err != nil {
		return false
	}
	e, err := hashToScalar(hash, c)
	if err != nil {
		return false
	}

	w := c.ScalarInvert(ss)
	u1 := c.ScalarMul(e, w)
	u2 := c.ScalarMul(rs, w)
	if bShamirs {
		return c.Mul2VartimeXModOrderEq(c.Mul2Setup(c.Generator(), q), rs, u1, u2)
	}
	return verifySeparate(c, q, rs, u1, u2)
}

// verifySeparate computes u1·G + u2·Q with two multiplications.
func verifySeparate(c pcurves.Curve, q pcurves.AffinePoint, rs, u1, u2 pcurves.Scalar) bool {
	p1, err := c.MulByG(u1, nil)
	if err != nil {
		return false
	}
	p2, err := c.Mul(q, u2, nil)
	if err != nil {
		return false
	}
	x, err := c.SerializePointX(c.PointToAffine(c.PointAdd(p1, p2)))
	if err != nil {
		// the sum is the identity
		return false
	}
	v, err := c.ScalarFromWideBytes(x)
	if err != nil {
		return false
	}
	return c.ScalarEqual(v, rs)
}

type zr struct {
	io.Reader
}

// Read replaces the contents of dst with zeros.
func (z *zr) Read(dst []byte) (n int, err error) {
	for i := range dst {
		dst[i] = 0
	}
	return len(dst), nil
}

var zeroReader = &zr{}
