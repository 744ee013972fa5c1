package x25519

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"gitee.com/jkuang/go-ctreduce/errs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func unhex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestVectors(t *testing.T) {
	// RFC 7748 section 5.2
	vectors := []struct{ scalar, point, want string }{
		{
			"a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4",
			"e6db6867583030db3594c1a424b15f7c726624ec26b3353b10a903a6d0ab1c4c",
			"c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552",
		},
		{
			"4b66e9d4d1b4673c5ad22691957d6af5c11b6421e0ea01d42ca4169e7918ba0d",
			"e5210f12786811d3f4b7959d0538ae2c31dbe7106fc03c3efc4cd549c715a493",
			"95cbde9476e8907d7aade45cb4b873f88b595a68799fa152e6f8f7647aac7957",
		},
	}
	for i, v := range vectors {
		got, err := X25519(unhex(t, v.scalar), unhex(t, v.point))
		require.NoError(t, err)
		if hex.EncodeToString(got) != v.want {
			t.Logf("vector %d: want %s got %x", i, v.want, got)
			t.Fail()
		}
	}
}

func TestIterated(t *testing.T) {
	k := append([]byte(nil), Basepoint...)
	u := append([]byte(nil), Basepoint...)
	iterations := 1000
	if testing.Short() {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		r, err := X25519(k, u)
		require.NoError(t, err)
		k, u = r, k
		if i == 0 {
			assert.Equal(t, "422c8e7a6227d7bca1350b3e2bb7279f7897b87bb6854b783c60e80311ae3079", hex.EncodeToString(k))
		}
	}
	if iterations == 1000 {
		assert.Equal(t, "684cf59ba83309552800ef566f2f4d3c1c3887c49360e3875f2eb94d99532c51", hex.EncodeToString(k))
	}
}

func TestDiffieHellman(t *testing.T) {
	// RFC 7748 section 6.1
	alice := unhex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	bob := unhex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")
	alicePub, err := X25519(alice, Basepoint)
	require.NoError(t, err)
	assert.Equal(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a", hex.EncodeToString(alicePub))
	bobPub, err := X25519(bob, Basepoint)
	require.NoError(t, err)
	assert.Equal(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f", hex.EncodeToString(bobPub))

	s1, err := X25519(alice, bobPub)
	require.NoError(t, err)
	s2, err := X25519(bob, alicePub)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742", hex.EncodeToString(s1))
}

func TestMatchesXCrypto(t *testing.T) {
	for i := 0; i < 16; i++ {
		scalar := make([]byte, ScalarSize)
		point := make([]byte, PointSize)
		_, _ = rand.Read(scalar)
		_, _ = rand.Read(point)

		want, wantErr := curve25519.X25519(scalar, point)
		got, err := X25519(scalar, point)
		if wantErr != nil {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		if string(got) != string(want) {
			t.Logf("scalar %x point %x\nwant %x\ngot  %x", scalar, point, want, got)
			t.Fail()
		}
	}
}

func TestLowOrderAndLengths(t *testing.T) {
	scalar := make([]byte, ScalarSize)
	_, _ = rand.Read(scalar)

	// u = 0 and u = 1 have low order
	_, err := X25519(scalar, make([]byte, PointSize))
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	one := make([]byte, PointSize)
	one[0] = 1
	_, err = X25519(scalar, one)
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))

	_, err = X25519(scalar[:31], Basepoint)
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	_, err = X25519(scalar, Basepoint[:31])
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func BenchmarkX25519(b *testing.B) {
	scalar := make([]byte, ScalarSize)
	_, _ = rand.Read(scalar)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = X25519(scalar, Basepoint)
	}
}
