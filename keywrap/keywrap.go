// Package keywrap implements the NIST SP 800-38F key wrap modes KW
// (RFC 3394) and KWP (RFC 5649) over any 128-bit block cipher.
package keywrap

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"strconv"
	"strings"

	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/sm4"
	"github.com/pkg/errors"
)

const (
	semiblock = 8
	blockSize = 16
)

var (
	defaultIV = []byte{0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6}
	paddedICV = []byte{0xa6, 0x59, 0x59, 0xa6}
)

func checkBlock(b cipher.Block) error {
	if b == nil || b.BlockSize() != blockSize {
		return errs.InvalidArgument("keywrap: a 128-bit block cipher is required")
	}
	return nil
}

// w is the wrapping function W of SP 800-38F on the semiblocks following
// the initial value a.
func w(b cipher.Block, a []byte, r []byte) []byte {
	n := len(r) / semiblock
	out := make([]byte, semiblock+len(r))
	copy(out[semiblock:], r)
	var buf [blockSize]byte
	copy(buf[:semiblock], a)
	for j := 0; j < 6; j++ {
		for i := 1; i <= n; i++ {
			ri := out[semiblock*i : semiblock*(i+1)]
			copy(buf[semiblock:], ri)
			b.Encrypt(buf[:], buf[:])
			t := uint64(n*j + i)
			binary.BigEndian.PutUint64(buf[:semiblock], binary.BigEndian.Uint64(buf[:semiblock])^t)
			copy(ri, buf[semiblock:])
		}
	}
	copy(out, buf[:semiblock])
	return out
}

// wInv is the unwrapping function W⁻¹. It returns the recovered initial
// value and the plaintext semiblocks.
func wInv(b cipher.Block, c []byte) (a, r []byte) {
	n := len(c)/semiblock - 1
	r = make([]byte, n*semiblock)
	copy(r, c[semiblock:])
	var buf [blockSize]byte
	copy(buf[:semiblock], c[:semiblock])
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			ri := r[semiblock*(i-1) : semiblock*i]
			t := uint64(n*j + i)
			binary.BigEndian.PutUint64(buf[:semiblock], binary.BigEndian.Uint64(buf[:semiblock])^t)
			copy(buf[semiblock:], ri)
			b.Decrypt(buf[:], buf[:])
			copy(ri, buf[semiblock:])
		}
	}
	return append([]byte(nil), buf[:semiblock]...), r
}

func integrityFailure(mode string) error {
	logging.For("keywrap", "Unwrap").WithField("mode", mode).Warn("integrity check failed")
	return errs.Decoding("keywrap: %s integrity check failed", mode)
}

// Wrap wraps key, a multiple of 8 bytes and at least 16 bytes long, under
// kek with KW.
func Wrap(kek cipher.Block, key []byte) ([]byte, error) {
	if err := checkBlock(kek); err != nil {
		return nil, err
	}
	if len(key) < 2*semiblock || len(key)%semiblock != 0 {
		return nil, errs.InvalidArgument("keywrap: KW input must be a multiple of 8 bytes and at least 16 bytes")
	}
	return w(kek, defaultIV, key), nil
}

// Unwrap reverses Wrap. A failed integrity check returns ErrDecoding and no
// key material.
func Unwrap(kek cipher.Block, wrapped []byte) ([]byte, error) {
	if err := checkBlock(kek); err != nil {
		return nil, err
	}
	if len(wrapped) < 3*semiblock || len(wrapped)%semiblock != 0 {
		return nil, errs.Decoding("keywrap: bad KW ciphertext length %d", len(wrapped))
	}
	a, r := wInv(kek, wrapped)
	if subtle.ConstantTimeCompare(a, defaultIV) != 1 {
		ct.WipeBytes(r)
		return nil, integrityFailure("KW")
	}
	return r, nil
}

// WrapPadded wraps a key of any non-zero length under kek with KWP.
func WrapPadded(kek cipher.Block, key []byte) ([]byte, error) {
	if err := checkBlock(kek); err != nil {
		return nil, err
	}
	if len(key) == 0 || uint64(len(key)) > 0xffffffff {
		return nil, errs.InvalidArgument("keywrap: KWP input must be 1 to 2^32-1 bytes")
	}
	aiv := make([]byte, semiblock)
	copy(aiv, paddedICV)
	binary.BigEndian.PutUint32(aiv[4:], uint32(len(key)))

	padded := make([]byte, (len(key)+semiblock-1)/semiblock*semiblock)
	copy(padded, key)
	defer ct.WipeBytes(padded)
	if len(padded) == semiblock {
		out := make([]byte, blockSize)
		copy(out, aiv)
		copy(out[semiblock:], padded)
		kek.Encrypt(out, out)
		return out, nil
	}
	return w(kek, aiv, padded), nil
}

// UnwrapPadded reverses WrapPadded.
func UnwrapPadded(kek cipher.Block, wrapped []byte) ([]byte, error) {
	if err := checkBlock(kek); err != nil {
		return nil, err
	}
	if len(wrapped) < 2*semiblock || len(wrapped)%semiblock != 0 {
		return nil, errs.Decoding("keywrap: bad KWP ciphertext length %d", len(wrapped))
	}
	var a, r []byte
	if len(wrapped) == blockSize {
		buf := make([]byte, blockSize)
		kek.Decrypt(buf, wrapped)
		a, r = buf[:semiblock], buf[semiblock:]
	} else {
		a, r = wInv(kek, wrapped)
	}

	mli := uint64(binary.BigEndian.Uint32(a[4:]))
	n := uint64(len(r))
	icvOK := subtle.ConstantTimeCompare(a[:4], paddedICV) == 1
	// 8(n-1) < mli <= 8n
	if !icvOK || mli > n || mli+semiblock <= n {
		ct.WipeBytes(r)
		return nil, integrityFailure("KWP")
	}
	var pad byte
	for _, v := range r[mli:] {
		pad |= v
	}
	if subtle.ConstantTimeByteEq(pad, 0) != 1 {
		ct.WipeBytes(r)
		return nil, integrityFailure("KWP")
	}
	return r[:mli], nil
}

// NewBlockCipher keys one of AES-128, AES-192, AES-256 or SM4.
func NewBlockCipher(algo string, kek []byte) (cipher.Block, error) {
	name := strings.ToUpper(algo)
	switch {
	case name == "SM4":
		b, err := sm4.NewCipher(kek)
		if err != nil {
			return nil, errs.InvalidArgument("keywrap: %v", err)
		}
		return b, nil
	case strings.HasPrefix(name, "AES-"):
		bits, err := strconv.Atoi(name[len("AES-"):])
		if err != nil || bits != 8*len(kek) {
			return nil, errs.InvalidArgument("keywrap: %s does not take a %d byte key", algo, len(kek))
		}
		b, err := aes.NewCipher(kek)
		if err != nil {
			return nil, errs.InvalidArgument("keywrap: %v", err)
		}
		return b, nil
	}
	return nil, errs.InvalidArgument("keywrap: unsupported cipher %q", algo)
}

func withCipher(algo string, kek []byte, f func(cipher.Block) ([]byte, error)) ([]byte, error) {
	b, err := NewBlockCipher(algo, kek)
	if err != nil {
		return nil, err
	}
	out, err := f(b)
	if err != nil {
		return nil, errors.WithMessage(err, algo)
	}
	return out, nil
}

// EncryptKW wraps key with KW under the named cipher.
func EncryptKW(algo string, key, kek []byte) ([]byte, error) {
	return withCipher(algo, kek, func(b cipher.Block) ([]byte, error) { return Wrap(b, key) })
}

// DecryptKW unwraps a KW ciphertext under the named cipher.
func DecryptKW(algo string, wrapped, kek []byte) ([]byte, error) {
	return withCipher(algo, kek, func(b cipher.Block) ([]byte, error) { return Unwrap(b, wrapped) })
}

// EncryptKWP wraps key with KWP under the named cipher.
func EncryptKWP(algo string, key, kek []byte) ([]byte, error) {
	return withCipher(algo, kek, func(b cipher.Block) ([]byte, error) { return WrapPadded(b, key) })
}

// DecryptKWP unwraps a KWP ciphertext under the named cipher.
func DecryptKWP(algo string, wrapped, kek []byte) ([]byte, error) {
	return withCipher(algo, kek, func(b cipher.Block) ([]byte, error) { return UnwrapPadded(b, wrapped) })
}

func aesName(kek []byte) string { return "AES-" + strconv.Itoa(8*len(kek)) }

// KeyWrap3394 wraps key with AES key wrap, picking AES-128, AES-192 or
// AES-256 from the length of kek.
func KeyWrap3394(key, kek []byte) ([]byte, error) {
	return EncryptKW(aesName(kek), key, kek)
}

// KeyUnwrap3394 reverses KeyWrap3394.
func KeyUnwrap3394(wrapped, kek []byte) ([]byte, error) {
	return DecryptKW(aesName(kek), wrapped, kek)
}
