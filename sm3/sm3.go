// Package sm3 implements the SM3 hash function of GB/T 32905-2016.
package sm3

import (
	"encoding/binary"
	"hash"
	"math/bits"

	"gitee.com/jkuang/go-ctreduce/errs"
)

const (
	// Size is the size of an SM3 checksum in bytes.
	Size = 32
	// BlockSize is the block size of SM3 in bytes.
	BlockSize = 64

	init0 = 0x7380166f
	init1 = 0x4914b2b9
	init2 = 0x172442d7
	init3 = 0xda8a0600
	init4 = 0xa96f30bc
	init5 = 0x163138aa
	init6 = 0xe38dee4d
	init7 = 0xb0fb0e4e
)

// k[j] = T_j <<< j
var k [64]uint32

func init() {
	for j := range k {
		tj := uint32(0x79cc4519)
		if j >= 16 {
			tj = 0x7a879d8a
		}
		k[j] = bits.RotateLeft32(tj, j%32)
	}
}

type digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

const (
	magic         = "sm3\x03"
	marshaledSize = len(magic) + 8*4 + BlockSize + 8
)

// New returns a new hash.Hash computing the SM3 checksum. The Hash also
// implements encoding.BinaryMarshaler and encoding.BinaryUnmarshaler.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

// Sum returns the SM3 checksum of data.
func Sum(data []byte) [Size]byte {
	var d digest
	d.Reset()
	_, _ = d.Write(data)
	return d.checkSum()
}

func (d *digest) Reset() {
	d.h = [8]uint32{init0, init1, init2, init3, init4, init5, init6, init7}
	d.nx = 0
	d.len = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (nn int, err error) {
	nn = len(p)
	d.len += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(d, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return
}

func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	n := d.len
	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	var t uint64
	if n%BlockSize < 56 {
		t = 56 - n%BlockSize
	} else {
		t = BlockSize + 56 - n%BlockSize
	}
	binary.BigEndian.PutUint64(tmp[t:], n<<3)
	_, _ = d.Write(tmp[:t+8])
	if d.nx != 0 {
		panic("sm3: d.nx != 0")
	}

	var out [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func (d *digest) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledSize)
	b = append(b, magic...)
	for _, v := range d.h {
		b = appendUint32(b, v)
	}
	b = append(b, d.x[:d.nx]...)
	b = b[:len(b)+len(d.x)-d.nx]
	b = appendUint64(b, d.len)
	return b, nil
}

func (d *digest) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic) || string(b[:len(magic)]) != magic {
		return errs.Decoding("sm3: invalid hash state identifier")
	}
	if len(b) != marshaledSize {
		return errs.Decoding("sm3: invalid hash state size")
	}
	b = b[len(magic):]
	for i := range d.h {
		d.h[i] = binary.BigEndian.Uint32(b)
		b = b[4:]
	}
	b = b[copy(d.x[:], b):]
	d.len = binary.BigEndian.Uint64(b)
	d.nx = int(d.len % BlockSize)
	return nil
}

func appendUint32(b []byte, x uint32) []byte {
	var a [4]byte
	binary.BigEndian.PutUint32(a[:], x)
	return append(b, a[:]...)
}

func appendUint64(b []byte, x uint64) []byte {
	var a [8]byte
	binary.BigEndian.PutUint64(a[:], x)
	return append(b, a[:]...)
}

// Kdf derives keyLen bytes from z as in GB/T 32918.4-2016 section 5.4.3.
func Kdf(z []byte, keyLen int) []byte {
	limit := (keyLen + Size - 1) / Size
	base := new(digest)
	base.Reset()
	_, _ = base.Write(z)

	out := make([]byte, 0, limit*Size)
	var counter [4]byte
	for i := 1; i <= limit; i++ {
		binary.BigEndian.PutUint32(counter[:], uint32(i))
		md := *base
		_, _ = md.Write(counter[:])
		sum := md.checkSum()
		out = append(out, sum[:]...)
	}
	return out[:keyLen]
}

func p0(x uint32) uint32 { return x ^ bits.RotateLeft32(x, 9) ^ bits.RotateLeft32(x, 17) }

func p1(x uint32) uint32 { return x ^ bits.RotateLeft32(x, 15) ^ bits.RotateLeft32(x, 23) }

// block is the portable compression function.
func block(dig *digest, p []byte) {
	var w [68]uint32
	var w1 [64]uint32
	h := dig.h
	for len(p) >= BlockSize {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[4*i:])
		}
		for i := 16; i < 68; i++ {
			w[i] = p1(w[i-16]^w[i-9]^bits.RotateLeft32(w[i-3], 15)) ^ bits.RotateLeft32(w[i-13], 7) ^ w[i-6]
		}
		for i := range w1 {
			w1[i] = w[i] ^ w[i+4]
		}

		a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
		for j := 0; j < 64; j++ {
			a12 := bits.RotateLeft32(a, 12)
			ss1 := bits.RotateLeft32(a12+e+k[j], 7)
			ss2 := ss1 ^ a12
			var ff, gg uint32
			if j < 16 {
				ff = a ^ b ^ c
				gg = e ^ f ^ g
			} else {
				ff = a&b | a&c | b&c
				gg = e&f | ^e&g
			}
			tt1 := ff + d + ss2 + w1[j]
			tt2 := gg + hh + ss1 + w[j]
			d, c, b, a = c, bits.RotateLeft32(b, 9), a, tt1
			hh, g, f, e = g, bits.RotateLeft32(f, 19), e, p0(tt2)
		}
		h[0] ^= a
		h[1] ^= b
		h[2] ^= c
		h[3] ^= d
		h[4] ^= e
		h[5] ^= f
		h[6] ^= g
		h[7] ^= hh
		p = p[BlockSize:]
	}
	dig.h = h
}
