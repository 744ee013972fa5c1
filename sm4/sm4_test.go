package sm4

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey, _    = hex.DecodeString("0123456789abcdeffedcba9876543210")
	testCipher, _ = hex.DecodeString("681edf34d206965e86b3e94f536e4246")
)

func TestStandardVector(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, c.BlockSize())

	out := make([]byte, BlockSize)
	c.Encrypt(out, testKey)
	if !bytes.Equal(out, testCipher) {
		t.Logf("encrypt: want %x got %x", testCipher, out)
		t.Fail()
	}
	c.Decrypt(out, out)
	assert.Equal(t, testKey, out)
}

func TestMillionIterations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1,000,000 iterations in short mode")
	}
	c, err := NewCipher(testKey)
	require.NoError(t, err)
	buf := append([]byte(nil), testKey...)
	for i := 0; i < 1000000; i++ {
		c.Encrypt(buf, buf)
	}
	assert.Equal(t, "595298c7c6fd271f0402f804c33d3f66", hex.EncodeToString(buf))
}

func TestKeySize(t *testing.T) {
	for _, n := range []int{0, 15, 17, 32} {
		_, err := NewCipher(make([]byte, n))
		assert.Equal(t, KeySizeError(n), err)
	}
	assert.Equal(t, "sm4: invalid key size 15", KeySizeError(15).Error())
}

func TestCBCRoundTrip(t *testing.T) {
	key := make([]byte, KeySize)
	iv := make([]byte, BlockSize)
	plain := make([]byte, 5*BlockSize)
	for _, b := range [][]byte{key, iv, plain} {
		_, err := io.ReadFull(rand.Reader, b)
		require.NoError(t, err)
	}
	c, err := NewCipher(key)
	require.NoError(t, err)

	ct := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(ct, plain)
	assert.NotEqual(t, plain, ct)
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(pt, ct)
	assert.Equal(t, plain, pt)
}

func TestShortBlockPanics(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)
	assert.Panics(t, func() { c.Encrypt(make([]byte, BlockSize), make([]byte, 8)) })
	assert.Panics(t, func() { c.Decrypt(make([]byte, 8), make([]byte, BlockSize)) })
}

func BenchmarkEncrypt(b *testing.B) {
	c, _ := NewCipher(testKey)
	buf := make([]byte, BlockSize)
	b.SetBytes(BlockSize)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Encrypt(buf, buf)
	}
}
