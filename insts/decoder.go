package insts

import "math/bits"

// Decoder decodes 32-bit SVE instruction words.
type Decoder struct{}

// NewDecoder creates a new SVE instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit SVE instruction word. Encodings outside the
// supported groups decode to OpUnknown; the execution layer reports
// those as unallocated before touching any register.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	switch {
	case d.isIntPredicated(word):
		d.decodeIntPredicated(word, inst)
	case d.isPredLogical(word):
		d.decodePredLogical(word, inst)
	case d.isPredTest(word):
		d.decodePredTest(word, inst)
	case d.isPredNav(word):
		d.decodePredNav(word, inst)
	}

	return inst
}

// isIntPredicated checks for the SVE integer predicated group.
// All of its encodings have bits [31:24] == 0b00000100 and bit 21 == 0.
func (d *Decoder) isIntPredicated(word uint32) bool {
	return (word>>24) == 0b00000100 && (word>>21)&0x1 == 0
}

// decodeIntPredicated decodes the integer predicated group.
// Layout: 00000100 size:2 0 opc:5 kind:3 Pg:3 Zm/Zn:5 Zdn/Vd:5
// kind 000 = binary arithmetic/logical, 001 = reduction,
// 100 = bitwise shift (by vector or by immediate).
func (d *Decoder) decodeIntPredicated(word uint32, inst *Instruction) {
	size := ESize((word >> 22) & 0x3)
	opc := (word >> 16) & 0x1F
	kind := (word >> 13) & 0x7
	pg := uint8((word >> 10) & 0x7)
	rm := uint8((word >> 5) & 0x1F)
	rdn := uint8(word & 0x1F)

	inst.ESize = size
	inst.Pg = pg

	switch kind {
	case 0b000:
		inst.Format = FormatIntBinary
		inst.Op = intBinaryOps[opc]
		inst.Zd = rdn
		inst.Zn = rdn
		inst.Zm = rm
		if inst.Op == OpUnknown {
			inst.Format = FormatUnknown
		}
	case 0b001:
		inst.Format = FormatIntReduce
		inst.Op = intReduceOps[opc]
		inst.Zn = rm
		inst.Zd = rdn
		if inst.Op == OpUnknown {
			inst.Format = FormatUnknown
		}
	case 0b100:
		d.decodeShift(word, inst)
	}
}

// intBinaryOps maps the 5-bit opc field of the binary predicated
// encodings. Zero entries are unallocated.
var intBinaryOps = [32]Op{
	0b00000: OpADD,
	0b00001: OpSUB,
	0b01000: OpSMAX,
	0b01001: OpUMAX,
	0b01010: OpSMIN,
	0b01011: OpUMIN,
	0b01100: OpSABD,
	0b01101: OpUABD,
	0b10000: OpMUL,
	0b10010: OpSMULH,
	0b10011: OpUMULH,
	0b10100: OpSDIV,
	0b10101: OpUDIV,
	0b11000: OpORR,
	0b11001: OpEOR,
	0b11010: OpAND,
	0b11011: OpBIC,
}

// intReduceOps maps the 5-bit opc field of the reduction encodings.
var intReduceOps = [32]Op{
	0b00000: OpSADDV,
	0b00001: OpUADDV,
	0b01000: OpSMAXV,
	0b01001: OpUMAXV,
	0b01010: OpSMINV,
	0b01011: OpUMINV,
	0b11000: OpORV,
	0b11001: OpEORV,
	0b11010: OpANDV,
}

// decodeShift decodes the predicated shift encodings (kind == 100).
// opc bits [20:19] distinguish shift by immediate (00) from shift by
// vector (10).
func (d *Decoder) decodeShift(word uint32, inst *Instruction) {
	group := (word >> 19) & 0x3
	opc := (word >> 16) & 0x7
	rdn := uint8(word & 0x1F)

	switch group {
	case 0b10:
		inst.Format = FormatIntBinary
		inst.Zd = rdn
		inst.Zn = rdn
		inst.Zm = uint8((word >> 5) & 0x1F)
		switch opc {
		case 0b000:
			inst.Op = OpASR
		case 0b001:
			inst.Op = OpLSR
		case 0b011:
			inst.Op = OpLSL
		default:
			inst.Format = FormatUnknown
		}
	case 0b00:
		d.decodeShiftImm(word, inst)
	}
}

// decodeShiftImm decodes shift-by-immediate forms. The element size
// and shift amount are packed together: the position of the top set
// bit of tszh:tszl selects the width, the remaining low bits hold the
// immediate. Right shifts count down from 2*esize, left shifts count
// up from esize.
func (d *Decoder) decodeShiftImm(word uint32, inst *Instruction) {
	opc := (word >> 16) & 0x7
	tszh := (word >> 22) & 0x3
	x := tszh<<5 | (word>>5)&0x1F
	tsz := x >> 3
	if tsz == 0 {
		// Unallocated: no element size encodable.
		return
	}
	esz := uint32(bits.Len32(tsz) - 1)

	inst.Format = FormatShiftImm
	inst.ESize = ESize(esz)
	inst.Pg = uint8((word >> 10) & 0x7)
	inst.Zd = uint8(word & 0x1F)
	inst.Zn = inst.Zd

	switch opc {
	case 0b000:
		inst.Op = OpASRImm
		inst.Imm = uint8(16<<esz - x)
	case 0b001:
		inst.Op = OpLSRImm
		inst.Imm = uint8(16<<esz - x)
	case 0b011:
		inst.Op = OpLSLImm
		inst.Imm = uint8(x - 8<<esz)
	case 0b100:
		inst.Op = OpASRD
		inst.Imm = uint8(16<<esz - x)
	default:
		inst.Format = FormatUnknown
		inst.Op = OpUnknown
	}
}

// isPredLogical checks for the predicate logical group.
// Layout: 00100101 op:1 S:1 00 Pm:4 01 Pg:4 o2:1 Pn:4 o3:1 Pd:4
func (d *Decoder) isPredLogical(word uint32) bool {
	return (word>>24) == 0b00100101 &&
		(word>>20)&0x3 == 0b00 &&
		(word>>14)&0x3 == 0b01
}

// predLogicalOps is indexed by op:o2:o3.
var predLogicalOps = [8]Op{
	0b000: OpPAND,
	0b001: OpPBIC,
	0b010: OpPEOR,
	0b011: OpPSEL,
	0b100: OpPORR,
	0b101: OpPORN,
	0b110: OpPNOR,
	0b111: OpPNAND,
}

func (d *Decoder) decodePredLogical(word uint32, inst *Instruction) {
	op := (word >> 23) & 0x1
	s := (word >> 22) & 0x1
	o2 := (word >> 9) & 0x1
	o3 := (word >> 4) & 0x1

	inst.Format = FormatPredLogical
	inst.Op = predLogicalOps[op<<2|o2<<1|o3]
	inst.SetFlags = s == 1
	inst.Pm = uint8((word >> 16) & 0xF)
	inst.Pg = uint8((word >> 10) & 0xF)
	inst.Pn = uint8((word >> 5) & 0xF)
	inst.Pd = uint8(word & 0xF)
	inst.ESize = ESizeB

	// SELS does not exist.
	if inst.Op == OpPSEL && inst.SetFlags {
		inst.Op = OpUnknown
		inst.Format = FormatUnknown
	}
}

// isPredTest checks for PTEST.
// Layout: 00100101 01 010000 11 Pg:4 0 Pn:4 00000
func (d *Decoder) isPredTest(word uint32) bool {
	return (word>>24) == 0b00100101 &&
		(word>>16)&0xFF == 0b01010000 &&
		(word>>14)&0x3 == 0b11 &&
		(word>>9)&0x1 == 0 &&
		word&0x1F == 0
}

func (d *Decoder) decodePredTest(word uint32, inst *Instruction) {
	inst.Format = FormatPredTest
	inst.Op = OpPTEST
	inst.Pg = uint8((word >> 10) & 0xF)
	inst.Pn = uint8((word >> 5) & 0xF)
	inst.ESize = ESizeB
}

// isPredNav checks for PFIRST and PNEXT.
// PFIRST: 00100101 01 011000 11000 00 Pg:4 0 Pdn:4
// PNEXT:  00100101 sz 011001 11000 10 Pg:4 0 Pdn:4
func (d *Decoder) isPredNav(word uint32) bool {
	if (word>>24) != 0b00100101 || (word>>11)&0x1F != 0b11000 ||
		(word>>4)&0x1 != 0 {
		return false
	}
	op := (word >> 16) & 0x3F
	mid := (word >> 9) & 0x3
	if op == 0b011000 && mid == 0b00 && (word>>22)&0x3 == 0b01 {
		return true // PFIRST
	}
	return op == 0b011001 && mid == 0b10 // PNEXT
}

func (d *Decoder) decodePredNav(word uint32, inst *Instruction) {
	inst.Format = FormatPredNav
	inst.Pg = uint8((word >> 5) & 0xF)
	inst.Pd = uint8(word & 0xF)

	if (word>>16)&0x3F == 0b011000 {
		inst.Op = OpPFIRST
		inst.ESize = ESizeB
	} else {
		inst.Op = OpPNEXT
		inst.ESize = ESize((word >> 22) & 0x3)
	}
}
