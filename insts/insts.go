// Package insts provides SVE instruction definitions and decoding.
package insts

// Op represents an SVE opcode.
type Op uint16

// SVE opcodes.
const (
	OpUnknown Op = iota

	// Integer binary, predicated (Zdn = Zdn op Zm, merging).
	OpADD
	OpSUB
	OpSMAX
	OpUMAX
	OpSMIN
	OpUMIN
	OpSABD
	OpUABD
	OpMUL
	OpSMULH
	OpUMULH
	OpSDIV
	OpUDIV
	OpORR
	OpEOR
	OpAND
	OpBIC

	// Bitwise shift by vector, predicated.
	OpASR
	OpLSR
	OpLSL

	// Bitwise shift by immediate, predicated.
	OpASRImm
	OpLSRImm
	OpLSLImm
	OpASRD

	// Integer reductions, predicated (Vd = fold of active elements of Zn).
	OpSADDV
	OpUADDV
	OpSMAXV
	OpUMAXV
	OpSMINV
	OpUMINV
	OpORV
	OpEORV
	OpANDV

	// Predicate logical (Pd = Pn op Pm, gated by Pg).
	OpPAND
	OpPBIC
	OpPEOR
	OpPSEL
	OpPORR
	OpPORN
	OpPNOR
	OpPNAND

	// Predicate test and navigation.
	OpPTEST
	OpPFIRST
	OpPNEXT
)

var opNames = map[Op]string{
	OpUnknown: "UNKNOWN",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpSMAX:    "SMAX",
	OpUMAX:    "UMAX",
	OpSMIN:    "SMIN",
	OpUMIN:    "UMIN",
	OpSABD:    "SABD",
	OpUABD:    "UABD",
	OpMUL:     "MUL",
	OpSMULH:   "SMULH",
	OpUMULH:   "UMULH",
	OpSDIV:    "SDIV",
	OpUDIV:    "UDIV",
	OpORR:     "ORR",
	OpEOR:     "EOR",
	OpAND:     "AND",
	OpBIC:     "BIC",
	OpASR:     "ASR",
	OpLSR:     "LSR",
	OpLSL:     "LSL",
	OpASRImm:  "ASR(imm)",
	OpLSRImm:  "LSR(imm)",
	OpLSLImm:  "LSL(imm)",
	OpASRD:    "ASRD",
	OpSADDV:   "SADDV",
	OpUADDV:   "UADDV",
	OpSMAXV:   "SMAXV",
	OpUMAXV:   "UMAXV",
	OpSMINV:   "SMINV",
	OpUMINV:   "UMINV",
	OpORV:     "ORV",
	OpEORV:    "EORV",
	OpANDV:    "ANDV",
	OpPAND:    "AND(pred)",
	OpPBIC:    "BIC(pred)",
	OpPEOR:    "EOR(pred)",
	OpPSEL:    "SEL",
	OpPORR:    "ORR(pred)",
	OpPORN:    "ORN",
	OpPNOR:    "NOR",
	OpPNAND:   "NAND",
	OpPTEST:   "PTEST",
	OpPFIRST:  "PFIRST",
	OpPNEXT:   "PNEXT",
}

// String returns the assembler mnemonic for the opcode.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// ESize selects the vector element width. Its numeric value is the
// 2-bit size field of the encodings (log2 of the width in bytes).
type ESize uint8

// Element sizes.
const (
	ESizeB ESize = 0 // 8-bit elements
	ESizeH ESize = 1 // 16-bit elements
	ESizeS ESize = 2 // 32-bit elements
	ESizeD ESize = 3 // 64-bit elements
)

// Bytes returns the element width in bytes.
func (e ESize) Bytes() int {
	return 1 << e
}

// Bits returns the element width in bits.
func (e ESize) Bits() int {
	return 8 << e
}

func (e ESize) String() string {
	switch e {
	case ESizeB:
		return "B"
	case ESizeH:
		return "H"
	case ESizeS:
		return "S"
	default:
		return "D"
	}
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown     Format = iota
	FormatIntBinary          // Integer binary op, predicated (Zdn, Pg, Zm)
	FormatIntReduce          // Integer reduction, predicated (Vd, Pg, Zn)
	FormatShiftImm           // Bitwise shift by immediate, predicated (Zdn, Pg, #imm)
	FormatPredLogical        // Predicate logical (Pd, Pg, Pn, Pm)
	FormatPredTest           // PTEST (Pg, Pn)
	FormatPredNav            // PFIRST / PNEXT (Pdn, Pg)
)

// Instruction represents a decoded SVE instruction.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Encoding format
	ESize  ESize  // Element width

	// Vector register operands. Zd doubles as Zdn for destructive forms.
	Zd uint8
	Zn uint8
	Zm uint8

	// Predicate register operands. Pd doubles as Pdn for PFIRST/PNEXT.
	Pd uint8
	Pn uint8
	Pm uint8

	// Pg is the governing predicate.
	Pg uint8

	// SetFlags is true for flag-setting predicate logical ops (S suffix).
	SetFlags bool

	// Imm is the shift amount for by-immediate forms.
	Imm uint8
}
