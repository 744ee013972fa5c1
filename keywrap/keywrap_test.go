package keywrap

import (
	"crypto/aes"
	"encoding/hex"
	"strings"
	"testing"

	"gitee.com/jkuang/go-ctreduce/errs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unhex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

const (
	kek128 = "000102030405060708090A0B0C0D0E0F"
	kek192 = "000102030405060708090A0B0C0D0E0F1011121314151617"
	kek256 = "000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E1F"
	key128 = "00112233445566778899AABBCCDDEEFF"
	key192 = "00112233445566778899AABBCCDDEEFF0001020304050607"
	key256 = "00112233445566778899AABBCCDDEEFF000102030405060708090A0B0C0D0E0F"
)

// RFC 3394 section 4
var kwVectors = []struct {
	name, kek, key, wrapped string
}{
	{"4.1", kek128, key128, "1FA68B0A8112B447 AEF34BD8FB5A7B82 9D3E862371D2CFE5"},
	{"4.2", kek192, key128, "96778B25AE6CA435 F92B5B97C050AED2 468AB8A17AD84E5D"},
	{"4.3", kek256, key128, "64E8C3F9CE0F5BA2 63E9777905818A2A 93C8191E7D6E8AE7"},
	{"4.4", kek192, key192, "031D33264E15D332 68F24EC260743EDC E1C6C7DDEE725A93 6BA814915C6762D2"},
	{"4.5", kek256, key192, "A8F9BC1612C68B3F F6E6F4FBE30E71E4 769C8B80A32CB895 8CD5D17D6B254DA1"},
	{"4.6", kek256, key256, "28C9F404C4B810F4 CBCCB35CFB87F826 3F5786E2D80ED326 CBC7F0E71A99F43B FB988B9B7A02DD21"},
}

func TestRFC3394(t *testing.T) {
	for _, v := range kwVectors {
		kek, key, want := unhex(v.kek), unhex(v.key), unhex(v.wrapped)
		got, err := KeyWrap3394(key, kek)
		require.NoError(t, err, v.name)
		if !assert.Equal(t, want, got, v.name) {
			t.Logf("%s: want %x got %x", v.name, want, got)
		}
		back, err := KeyUnwrap3394(got, kek)
		require.NoError(t, err, v.name)
		assert.Equal(t, key, back, v.name)
	}
}

// RFC 5649 section 6
func TestRFC5649(t *testing.T) {
	kek := unhex("5840df6e29b02af1 ab493b705bf16ea1 ae8338f4dcc176a8")
	vectors := []struct{ key, wrapped string }{
		{"c37b7e6492584340 bed1220780894115 5068f738", "138bdeaa9b8fa7fc 61f97742e72248ee 5ae6ae5360d1ae6a 5f54f373fa543b6a"},
		{"466f7250617369", "afbeb0f07dfbf541 9200f2ccb50bb24f"},
	}
	for _, v := range vectors {
		key, want := unhex(v.key), unhex(v.wrapped)
		got, err := EncryptKWP("AES-192", key, kek)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		back, err := DecryptKWP("AES-192", got, kek)
		require.NoError(t, err)
		assert.Equal(t, key, back)
	}
}

func TestTamperDetected(t *testing.T) {
	kek := unhex(kek128)
	wrapped, err := EncryptKW("AES-128", unhex(key128), kek)
	require.NoError(t, err)
	for i := range wrapped {
		bad := append([]byte(nil), wrapped...)
		bad[i] ^= 0x80
		out, err := DecryptKW("AES-128", bad, kek)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, errs.ErrDecoding), "byte %d", i)
	}

	for _, n := range []int{1, 7, 8, 9, 20, 33} {
		key := make([]byte, n)
		for i := range key {
			key[i] = byte(i + 1)
		}
		wrapped, err := EncryptKWP("SM4", key, unhex(kek128))
		require.NoError(t, err)
		back, err := DecryptKWP("SM4", wrapped, unhex(kek128))
		require.NoError(t, err)
		assert.Equal(t, key, back)

		wrapped[len(wrapped)-1] ^= 1
		_, err = DecryptKWP("SM4", wrapped, unhex(kek128))
		assert.True(t, errors.Is(err, errs.ErrDecoding), "length %d", n)
	}

	// a KW ciphertext is not a valid KWP ciphertext
	_, err = DecryptKWP("AES-128", wrapped, kek)
	assert.True(t, errors.Is(err, errs.ErrDecoding))
}

func TestLengths(t *testing.T) {
	b, err := aes.NewCipher(unhex(kek128))
	require.NoError(t, err)
	for _, n := range []int{0, 8, 15, 17} {
		_, err := Wrap(b, make([]byte, n))
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument), "wrap %d", n)
	}
	for _, n := range []int{0, 16, 23, 25} {
		_, err := Unwrap(b, make([]byte, n))
		assert.True(t, errors.Is(err, errs.ErrDecoding), "unwrap %d", n)
	}
	_, err = WrapPadded(b, nil)
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	for _, n := range []int{0, 8, 17} {
		_, err := UnwrapPadded(b, make([]byte, n))
		assert.True(t, errors.Is(err, errs.ErrDecoding), "unwrap padded %d", n)
	}
	_, err = Wrap(nil, make([]byte, 16))
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestNewBlockCipher(t *testing.T) {
	for _, c := range []struct {
		algo string
		kek  string
		ok   bool
	}{
		{"AES-128", kek128, true},
		{"aes-192", kek192, true},
		{"AES-256", kek256, true},
		{"SM4", kek128, true},
		{"AES-256", kek128, false},
		{"SM4", kek256, false},
		{"DES", kek128, false},
		{"AES-x", kek128, false},
	} {
		b, err := NewBlockCipher(c.algo, unhex(c.kek))
		if c.ok {
			require.NoError(t, err, c.algo)
			assert.Equal(t, 16, b.BlockSize())
		} else {
			assert.True(t, errors.Is(err, errs.ErrInvalidArgument), c.algo)
		}
	}
}

func BenchmarkKeyWrap3394(b *testing.B) {
	kek, key := unhex(kek256), unhex(key256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = KeyWrap3394(key, kek)
	}
}
