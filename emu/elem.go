package emu

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// signedElem constrains the signed lane types.
type signedElem interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// unsignedElem constrains the unsigned lane types.
type unsignedElem interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// elem constrains all integer lane types the engines operate on.
type elem interface {
	signedElem | unsignedElem
}

// elemSize returns the width in bytes of lane type E.
func elemSize[E elem]() int {
	var zero E
	return int(unsafe.Sizeof(zero))
}

// loadElem reads the size-byte little-endian lane at byte offset off.
func loadElem[E elem](buf []byte, off, size int) E {
	var v uint64
	switch size {
	case 1:
		v = uint64(buf[off])
	case 2:
		v = uint64(binary.LittleEndian.Uint16(buf[off:]))
	case 4:
		v = uint64(binary.LittleEndian.Uint32(buf[off:]))
	default:
		v = binary.LittleEndian.Uint64(buf[off:])
	}
	return E(v)
}

// storeElem writes the size-byte little-endian lane at byte offset off.
func storeElem[E elem](buf []byte, off, size int, v E) {
	u := uint64(v)
	switch size {
	case 1:
		buf[off] = byte(u)
	case 2:
		binary.LittleEndian.PutUint16(buf[off:], uint16(u))
	case 4:
		binary.LittleEndian.PutUint32(buf[off:], uint32(u))
	default:
		binary.LittleEndian.PutUint64(buf[off:], u)
	}
}

// Scalar operations applied per active element. Arithmetic wraps; the
// narrow types truncate exactly like the hardware lanes.

func opAnd[E elem](n, m E) E { return n & m }

func opOrr[E elem](n, m E) E { return n | m }

func opEor[E elem](n, m E) E { return n ^ m }

func opBic[E elem](n, m E) E { return n &^ m }

func opAdd[E elem](n, m E) E { return n + m }

func opSub[E elem](n, m E) E { return n - m }

func opMax[E elem](n, m E) E {
	if n >= m {
		return n
	}
	return m
}

func opMin[E elem](n, m E) E {
	if n >= m {
		return m
	}
	return n
}

func opAbd[E elem](n, m E) E {
	if n >= m {
		return n - m
	}
	return m - n
}

func opMul[E elem](n, m E) E { return n * m }

// opDiv implements the architectural division rule: division by zero
// yields zero, and the most negative value divided by -1 wraps.
func opDiv[E elem](n, m E) E {
	if m == 0 {
		return 0
	}
	return n / m
}

// Multiply-high. The computation width is at least twice the element
// width, so one helper per width serves both signednesses below 64
// bits; the 64-bit forms split into a full 128-bit product.

func mulh8[E elem](n, m E) E  { return E(uint64(int32(int8(n))*int32(int8(m))) >> 8) }
func umulh8[E elem](n, m E) E { return E(uint64(uint32(uint8(n))*uint32(uint8(m))) >> 8) }

func mulh16[E elem](n, m E) E  { return E(uint64(int32(int16(n))*int32(int16(m))) >> 16) }
func umulh16[E elem](n, m E) E { return E(uint64(uint32(uint16(n))*uint32(uint16(m))) >> 16) }

func mulh32[E elem](n, m E) E  { return E(uint64(int64(int32(n))*int64(int32(m))) >> 32) }
func umulh32[E elem](n, m E) E { return E(uint64(uint64(uint32(n))*uint64(uint32(m))) >> 32) }

func smulh64(n, m int64) int64 {
	hi, _ := bits.Mul64(uint64(n), uint64(m))
	if n < 0 {
		hi -= uint64(m)
	}
	if m < 0 {
		hi -= uint64(n)
	}
	return int64(hi)
}

func umulh64(n, m uint64) uint64 {
	hi, _ := bits.Mul64(n, m)
	return hi
}

// Shifts by vector. All bits of the shift element are significant,
// not modulo the element width: an arithmetic shift saturates at
// width-1, logical shifts of width or more produce zero. The shift
// operand is read as an unsigned element; sign extension through
// uint64 keeps any negative pattern above the clamp threshold.

func opAsr[E signedElem](n, m E) E {
	width := uint64(elemSize[E]()) * 8
	sh := uint64(m)
	if sh > width-1 {
		sh = width - 1
	}
	return n >> sh
}

func opLsr[E unsignedElem](n, m E) E {
	width := uint64(elemSize[E]()) * 8
	sh := uint64(m)
	if sh >= width {
		return 0
	}
	return n >> sh
}

func opLsl[E elem](n, m E) E {
	width := uint64(elemSize[E]()) * 8
	sh := uint64(m)
	if sh >= width {
		return 0
	}
	return n << sh
}
