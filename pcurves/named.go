package pcurves

import (
	"strings"
	"sync"

	"gitee.com/jkuang/go-ctreduce/errs"
	"github.com/ethereum/go-ethereum/common/math"
)

type namedParams struct {
	name                string
	p, a, b, gx, gy, n string
}

var (
	secp256r1Params = namedParams{
		name: "secp256r1",
		p:    "0xffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		a:    "0xffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
		b:    "0x5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
		gx:   "0x6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		gy:   "0x4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		n:    "0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
	}
	sm2p256v1Params = namedParams{
		name: "sm2p256v1",
		p:    "0xFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF00000000FFFFFFFFFFFFFFFF",
		a:    "0xFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF00000000FFFFFFFFFFFFFFFC",
		b:    "0x28E9FA9E9D9F5E344D5A9E4BCF6509A7F39789F515AB8F92DDBCBD414D940E93",
		gx:   "0x32C4AE2C1F1981195F9904466A39C9948FE30BBFF2660BE1715A4589334C74C7",
		gy:   "0xBC3736A2F4F6779C59BDCEE36B692153D0A9877CC62A474002DF32E52139F0A0",
		n:    "0xFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFF7203DF6B21C6052B53BBF40939D54123",
	}
	secp256k1Params = namedParams{
		name: "secp256k1",
		p:    "0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F",
		a:    "0x0",
		b:    "0x7",
		gx:   "0x79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798",
		gy:   "0x483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8",
		n:    "0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141",
	}
)

func (np namedParams) build() *GenericPrimeOrderCurve {
	c, err := FromParams(np.name,
		math.MustParseBig256(np.p), math.MustParseBig256(np.a), math.MustParseBig256(np.b),
		math.MustParseBig256(np.gx), math.MustParseBig256(np.gy), math.MustParseBig256(np.n))
	if err != nil {
		panic(err)
	}
	return c
}

var (
	p256Once, sm2Once, k256Once sync.Once
	p256, sm2, k256             *GenericPrimeOrderCurve
)

// P256 returns NIST P-256 (secp256r1).
func P256() *GenericPrimeOrderCurve {
	p256Once.Do(func() { p256 = secp256r1Params.build() })
	return p256
}

// SM2 returns the curve of GB/T 32918 (sm2p256v1).
func SM2() *GenericPrimeOrderCurve {
	sm2Once.Do(func() { sm2 = sm2p256v1Params.build() })
	return sm2
}

// Secp256k1 returns the SEC 2 Koblitz curve secp256k1.
func Secp256k1() *GenericPrimeOrderCurve {
	k256Once.Do(func() { k256 = secp256k1Params.build() })
	return k256
}

var byName = map[string]func() *GenericPrimeOrderCurve{
	"secp256r1":  P256,
	"p-256":      P256,
	"p256":       P256,
	"prime256v1": P256,
	"sm2p256v1":  SM2,
	"sm2":        SM2,
	"secp256k1":  Secp256k1,
}

// ByName looks up a named curve, ignoring case.
func ByName(name string) (*GenericPrimeOrderCurve, error) {
	f, ok := byName[strings.ToLower(name)]
	if !ok {
		return nil, errs.InvalidArgument("pcurves: unknown curve %q", name)
	}
	return f(), nil
}

// Names returns the canonical names of the built-in curves.
func Names() []string {
	return []string{secp256r1Params.name, sm2p256v1Params.name, secp256k1Params.name}
}
