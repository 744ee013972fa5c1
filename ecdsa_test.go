// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctreduce

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"

	"gitee.com/jkuang/go-ctreduce/pcurves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedCurve struct {
	tag string
	c   pcurves.Curve
}

func testCurves() []namedCurve {
	return []namedCurve{
		{"p256", pcurves.P256()},
		{"sm2", pcurves.SM2()},
		{"secp256k1", pcurves.Secp256k1()},
	}
}

func testKeyGeneration(t *testing.T, c *pcurves.GenericPrimeOrderCurve, tag string) {
	priv, err := GenerateKey(c, rand.Reader)
	if err != nil {
		t.Errorf("%s: error: %s", tag, err)
		return
	}
	if _, err := c.AffineFromBig(priv.PublicKey.X, priv.PublicKey.Y); err != nil {
		t.Errorf("%s: public key invalid: %v", tag, err)
	}
	s, err := c.ScalarFromBig(priv.D)
	require.NoError(t, err)
	q, err := c.MulByG(s, nil)
	require.NoError(t, err)
	x, y := c.AffineToBig(c.PointToAffine(q))
	assert.Equal(t, 0, x.Cmp(priv.PublicKey.X), tag)
	assert.Equal(t, 0, y.Cmp(priv.PublicKey.Y), tag)
}

func TestKeyGeneration(t *testing.T) {
	testKeyGeneration(t, pcurves.P256(), "p256")
	if testing.Short() {
		return
	}
	testKeyGeneration(t, pcurves.SM2(), "sm2")
	testKeyGeneration(t, pcurves.Secp256k1(), "secp256k1")
}

func benchmarkSign(b *testing.B, c pcurves.Curve) {
	hashed := []byte("testing")
	priv, _ := GenerateKey(c, rand.Reader)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = Sign(rand.Reader, priv, hashed)
		}
	})
}

func benchmarkVerify(b *testing.B, c pcurves.Curve) {
	hashed := []byte("testing")
	priv, _ := GenerateKey(c, rand.Reader)
	r, s, _ := Sign(rand.Reader, priv, hashed)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			Verify(&priv.PublicKey, hashed, r, s)
		}
	})
}

func BenchmarkSignP256(b *testing.B) { benchmarkSign(b, pcurves.P256()) }
func BenchmarkSignSM2(b *testing.B) { benchmarkSign(b, pcurves.SM2()) }
func BenchmarkSignSecp256k1(b *testing.B) { benchmarkSign(b, pcurves.Secp256k1()) }

func BenchmarkVerifyP256(b *testing.B) { benchmarkVerify(b, pcurves.P256()) }
func BenchmarkVerifySM2(b *testing.B) { benchmarkVerify(b, pcurves.SM2()) }
func BenchmarkVerifySecp256k1(b *testing.B) { benchmarkVerify(b, pcurves.Secp256k1()) }

func BenchmarkKeyGeneration(b *testing.B) {
	p256 := pcurves.P256()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = GenerateKey(p256, rand.Reader)
		}
	})
}

func testSignAndVerify(t *testing.T, c pcurves.Curve, tag string) {
	priv, _ := GenerateKey(c, rand.Reader)

	hashed := []byte("testing")
	r, s, err := Sign(rand.Reader, priv, hashed)
	if err != nil {
		t.Errorf("%s: error signing: %s", tag, err)
		return
	}

	if !Verify(&priv.PublicKey, hashed, r, s) {
		t.Errorf("%s: Verify failed", tag)
		t.Logf("Pubkey X: %s\nY: %s\nr: %s", priv.PublicKey.X.Text(16),
			priv.PublicKey.Y.Text(16), r.Text(16))
	}
	if !verifyOtherPath(t, priv, hashed, r, s) {
		t.Errorf("%s: two-multiplication verify failed", tag)
	}

	hashed[0] ^= 0xff
	if Verify(&priv.PublicKey, hashed, r, s) {
		t.Errorf("%s: Verify always works!", tag)
	}
}

// verifyOtherPath runs the path not selected by the shamirs build tag.
func verifyOtherPath(t *testing.T, priv *PrivateKey, hashed []byte, r, s *big.Int) bool {
	c := priv.Curve
	rs, err := scalarFromBig(c, r)
	require.NoError(t, err)
	ss, err := scalarFromBig(c, s)
	require.NoError(t, err)
	q, err := priv.PublicKey.point()
	require.NoError(t, err)
	e, err := hashToScalar(hashed, c)
	require.NoError(t, err)
	w := c.ScalarInvert(ss)
	u1, u2 := c.ScalarMul(e, w), c.ScalarMul(rs, w)
	if bShamirs {
		return verifySeparate(c, q, rs, u1, u2)
	}
	return c.Mul2VartimeXModOrderEq(c.Mul2Setup(c.Generator(), q), rs, u1, u2)
}

func TestSignAndVerify(t *testing.T) {
	for _, nc := range testCurves() {
		testSignAndVerify(t, nc.c, nc.tag)
		if testing.Short() {
			return
		}
	}
}

func TestStdlibInterop(t *testing.T) {
	hashed := sha256.Sum256([]byte("interop"))

	// ours -> crypto/ecdsa
	priv, err := GenerateKey(pcurves.P256(), rand.Reader)
	require.NoError(t, err)
	r, s, err := Sign(rand.Reader, priv, hashed[:])
	require.NoError(t, err)
	stdPub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: priv.X, Y: priv.Y}
	assert.True(t, ecdsa.Verify(stdPub, hashed[:], r, s))

	// crypto/ecdsa -> ours
	stdPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	r, s, err = ecdsa.Sign(rand.Reader, stdPriv, hashed[:])
	require.NoError(t, err)
	pub := &PublicKey{Curve: pcurves.P256(), X: stdPriv.X, Y: stdPriv.Y}
	assert.True(t, Verify(pub, hashed[:], r, s))
}

func fromHex(s string) *big.Int {
	r, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex")
	}
	return r
}

func TestVectors(t *testing.T) {
	// RFC 6979 A.2.5, P-256 with SHA-256
	pub := &PublicKey{
		Curve: pcurves.P256(),
		X:     fromHex("60FED4BA255A9D31C961EB74C6356D68C049B8923B61FA6CE669622E60F29FB6"),
		Y:     fromHex("7903FE1008B8BC99A41AE9E95628BC64F2F1B20C2D7E9F5177A3C294D4462299"),
	}
	vectors := []struct {
		msg  string
		r, s string
	}{
		{
			"sample",
			"EFD48B2AACB6A8FD1140DD9CD45E81D69D2C877B56AAF991C34D0EA84EAF3716",
			"F7CB1C942D657C41D436C7A1B6E29F65F3E900DBB9AFF4064DC4AB2F843ACDA8",
		},
		{
			"test",
			"F1ABB023518351CD71D881567B1EA663ED3EFCF6C5132B354F28D3B0B7D38367",
			"019F4113742A2B14BD25926B49C649155F267E60D3814B4C0CC84250E46F0083",
		},
	}
	for _, v := range vectors {
		hashed := sha256.Sum256([]byte(v.msg))
		r, s := fromHex(v.r), fromHex(v.s)
		if !Verify(pub, hashed[:], r, s) {
			t.Logf("%s: valid signature rejected", v.msg)
			t.Fail()
		}
		if Verify(pub, hashed[:], s, r) {
			t.Logf("%s: swapped signature accepted", v.msg)
			t.Fail()
		}
	}

	d := fromHex("C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")
	priv := &PrivateKey{PublicKey: *pub, D: d}
	hashed := sha256.Sum256([]byte("sample"))
	r, s, err := Sign(rand.Reader, priv, hashed[:])
	require.NoError(t, err)
	assert.True(t, Verify(pub, hashed[:], r, s))
}

func testNonceSafety(t *testing.T, c pcurves.Curve, tag string) {
	priv, _ := GenerateKey(c, rand.Reader)

	hashed := []byte("testing")
	r0, s0, err := Sign(zeroReader, priv, hashed)
	if err != nil {
		t.Errorf("%s: error signing: %s", tag, err)
		return
	}

	hashed = []byte("testing...")
	r1, s1, err := Sign(zeroReader, priv, hashed)
	if err != nil {
		t.Errorf("%s: error signing: %s", tag, err)
		return
	}

	if s0.Cmp(s1) == 0 {
		// This should never happen.
		t.Errorf("%s: the signatures on two different messages were the same", tag)
	}

	if r0.Cmp(r1) == 0 {
		t.Errorf("%s: the nonce used for two different messages was the same", tag)
	}
}

func TestNonceSafety(t *testing.T) {
	for _, nc := range testCurves() {
		testNonceSafety(t, nc.c, nc.tag)
	}
}

func testINDCCA(t *testing.T, c pcurves.Curve, tag string) {
	priv, _ := GenerateKey(c, rand.Reader)

	hashed := []byte("testing")
	r0, s0, err := Sign(rand.Reader, priv, hashed)
	if err != nil {
		t.Errorf("%s: error signing: %s", tag, err)
		return
	}

	r1, s1, err := Sign(rand.Reader, priv, hashed)
	if err != nil {
		t.Errorf("%s: error signing: %s", tag, err)
		return
	}

	if s0.Cmp(s1) == 0 {
		t.Errorf("%s: two signatures of the same message produced the same result", tag)
	}

	if r0.Cmp(r1) == 0 {
		t.Errorf("%s: two signatures of the same message produced the same nonce", tag)
	}
}

func TestINDCCA(t *testing.T) {
	for _, nc := range testCurves() {
		testINDCCA(t, nc.c, nc.tag)
	}
}

func testNegativeInputs(t *testing.T, c pcurves.Curve, tag string) {
	key, err := GenerateKey(c, rand.Reader)
	if err != nil {
		t.Errorf("failed to generate key for %q", tag)
		return
	}

	var hash [32]byte
	r := new(big.Int).SetInt64(1)
	r.Lsh(r, 550 /* larger than any supported curve */)
	r.Neg(r)

	if Verify(&key.PublicKey, hash[:], r, r) {
		t.Errorf("bogus signature accepted for %q", tag)
	}
	if Verify(&key.PublicKey, hash[:], new(big.Int).Neg(r), big.NewInt(1)) {
		t.Errorf("oversized r accepted for %q", tag)
	}

	bad := key.PublicKey
	bad.Y = new(big.Int).Add(bad.Y, big.NewInt(1))
	if Verify(&bad, hash[:], big.NewInt(1), big.NewInt(1)) {
		t.Errorf("off-curve key accepted for %q", tag)
	}
}

func TestNegativeInputs(t *testing.T) {
	for _, nc := range testCurves() {
		testNegativeInputs(t, nc.c, nc.tag)
	}
}

func TestInvalidPrivateKey(t *testing.T) {
	c := pcurves.P256()
	priv, err := GenerateKey(c, rand.Reader)
	require.NoError(t, err)

	priv.D = new(big.Int)
	_, _, err = Sign(rand.Reader, priv, []byte("testing"))
	assert.Error(t, err)

	priv.D = c.Order()
	_, _, err = Sign(rand.Reader, priv, []byte("testing"))
	assert.Error(t, err)
}

func TestZeroHashSignature(t *testing.T) {
	zeroHash := make([]byte, 64)

	for _, nc := range testCurves() {
		privKey, err := GenerateKey(nc.c, rand.Reader)
		if err != nil {
			panic(err)
		}

		// Sign a hash consisting of all zeros.
		r, s, err := Sign(rand.Reader, privKey, zeroHash)
		if err != nil {
			panic(err)
		}

		// Confirm that it can be verified.
		if !Verify(&privKey.PublicKey, zeroHash, r, s) {
			t.Errorf("zero hash signature verify failed for %s", nc.tag)
		}
	}
}
