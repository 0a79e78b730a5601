package emu

import (
	"encoding/binary"
	"fmt"
)

// Vector length limits in bytes.
const (
	MinVL = 16
	MaxVL = 256
)

// Register file dimensions.
const (
	NumZRegs = 32
	// NumPRegs counts P0-P15 plus the first-fault register.
	NumPRegs = 17
	// FFR is the register index of the first-fault register.
	FFR = 16
)

// predWordsMax is the number of 64-bit words backing one predicate
// register at MaxVL (one predicate bit per vector byte).
const predWordsMax = MaxVL / 64

// checkVL panics unless vl is a supported vector length. A bad vector
// length is a broken host invariant, not a recoverable condition.
func checkVL(vl int) {
	if vl < MinVL || vl > MaxVL || vl%MinVL != 0 {
		panic(fmt.Sprintf("emu: invalid vector length %d", vl))
	}
}

// ZRegFile holds the 32 SVE vector registers. Each register is VL
// bytes long. Lanes are addressed architecturally little-endian
// regardless of the host, so sub-64-bit accessors go through explicit
// little-endian byte order.
type ZRegFile struct {
	vl   int
	regs [NumZRegs][MaxVL]byte
}

// NewZRegFile creates a vector register file with the given vector
// length in bytes.
func NewZRegFile(vl int) *ZRegFile {
	checkVL(vl)
	return &ZRegFile{vl: vl}
}

// VL returns the vector length in bytes.
func (z *ZRegFile) VL() int {
	return z.vl
}

// Bytes returns the live VL-byte view of a vector register.
func (z *ZRegFile) Bytes(reg uint8) []byte {
	return z.regs[reg][:z.vl]
}

// ReadLane8 reads byte lane i of a vector register.
func (z *ZRegFile) ReadLane8(reg uint8, i int) uint8 {
	return z.regs[reg][i]
}

// WriteLane8 writes byte lane i of a vector register.
func (z *ZRegFile) WriteLane8(reg uint8, i int, v uint8) {
	z.regs[reg][i] = v
}

// ReadLane16 reads halfword lane i of a vector register.
func (z *ZRegFile) ReadLane16(reg uint8, i int) uint16 {
	return binary.LittleEndian.Uint16(z.regs[reg][i*2:])
}

// WriteLane16 writes halfword lane i of a vector register.
func (z *ZRegFile) WriteLane16(reg uint8, i int, v uint16) {
	binary.LittleEndian.PutUint16(z.regs[reg][i*2:], v)
}

// ReadLane32 reads word lane i of a vector register.
func (z *ZRegFile) ReadLane32(reg uint8, i int) uint32 {
	return binary.LittleEndian.Uint32(z.regs[reg][i*4:])
}

// WriteLane32 writes word lane i of a vector register.
func (z *ZRegFile) WriteLane32(reg uint8, i int, v uint32) {
	binary.LittleEndian.PutUint32(z.regs[reg][i*4:], v)
}

// ReadLane64 reads doubleword lane i of a vector register.
func (z *ZRegFile) ReadLane64(reg uint8, i int) uint64 {
	return binary.LittleEndian.Uint64(z.regs[reg][i*8:])
}

// WriteLane64 writes doubleword lane i of a vector register.
func (z *ZRegFile) WriteLane64(reg uint8, i int, v uint64) {
	binary.LittleEndian.PutUint64(z.regs[reg][i*8:], v)
}

// PRegFile holds the 16 SVE predicate registers plus the first-fault
// register. Each register carries one governing bit per vector byte
// (VL bits), backed by 64-bit words. Bits above the logical boundary
// are kept zero by every operation.
type PRegFile struct {
	vl   int
	regs [NumPRegs][predWordsMax]uint64
}

// NewPRegFile creates a predicate register file matching a vector
// length of vl bytes.
func NewPRegFile(vl int) *PRegFile {
	checkVL(vl)
	return &PRegFile{vl: vl}
}

// VL returns the vector length in bytes the file was sized for.
func (p *PRegFile) VL() int {
	return p.vl
}

// WordCount returns the number of 64-bit words covering the VL
// predicate bits of one register.
func (p *PRegFile) WordCount() int {
	return (p.vl + 63) / 64
}

// Words returns the live word view of a predicate register.
func (p *PRegFile) Words(reg uint8) []uint64 {
	return p.regs[reg][:p.WordCount()]
}

// TailMask returns the mask of valid bits in the final word of a
// predicate register.
func (p *PRegFile) TailMask() uint64 {
	if n := p.vl % 64; n != 0 {
		return 1<<n - 1
	}
	return ^uint64(0)
}

// Bit reports whether predicate bit i of a register is set.
func (p *PRegFile) Bit(reg uint8, i int) bool {
	if i >= p.vl {
		return false
	}
	return p.regs[reg][i/64]>>(i%64)&1 == 1
}

// SetBit sets or clears predicate bit i of a register. Setting a bit
// at or beyond VL panics: the caller contract keeps the tail zero.
func (p *PRegFile) SetBit(reg uint8, i int, v bool) {
	if i >= p.vl {
		panic(fmt.Sprintf("emu: predicate bit %d beyond vector length %d", i, p.vl))
	}
	if v {
		p.regs[reg][i/64] |= 1 << (i % 64)
	} else {
		p.regs[reg][i/64] &^= 1 << (i % 64)
	}
}

// Clear zeroes a predicate register.
func (p *PRegFile) Clear(reg uint8) {
	p.regs[reg] = [predWordsMax]uint64{}
}

// PSTATE represents the processor condition flags.
type PSTATE struct {
	// N is the negative flag.
	N bool
	// Z is the zero flag.
	Z bool
	// C is the carry flag.
	C bool
	// V is the overflow flag.
	V bool
}

// SetFromPredTest converts a packed predicate-test result (bit 31 = N,
// bit 1 set when Z clear, bit 0 = C) into flag state. V is always
// cleared by predicate-setting instructions.
func (ps *PSTATE) SetFromPredTest(flags uint32) {
	ps.N = flags>>31&1 == 1
	ps.Z = flags&2 == 0
	ps.C = flags&1 == 1
	ps.V = false
}
