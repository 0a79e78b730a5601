package emu

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/svesim/insts"
)

// ErrUnallocated reports an instruction whose operation/element-width
// combination has no encoding. It is returned before any register or
// flag mutation.
var ErrUnallocated = errors.New("unallocated SVE encoding")

// Execution function shapes, selected from per-element-size tables.
type (
	zpzzFn func(dst, n, m []byte, g []uint64)
	zpziFn func(dst, n []byte, g []uint64, imm uint8)
	vpzFn  func(n []byte, g []uint64) uint64
)

func makeZpzz[E elem](op func(E, E) E) zpzzFn {
	return func(dst, n, m []byte, g []uint64) { zpzz(dst, n, m, g, op) }
}

func makeZpzi[E elem](op func(E, uint8) E) zpziFn {
	return func(dst, n []byte, g []uint64, imm uint8) { zpzi(dst, n, g, imm, op) }
}

// zpzzTables maps each binary predicated op to its four width
// specializations. A nil entry is an unallocated combination.
var zpzzTables = map[insts.Op][4]zpzzFn{
	insts.OpADD: {makeZpzz(opAdd[uint8]), makeZpzz(opAdd[uint16]), makeZpzz(opAdd[uint32]), makeZpzz(opAdd[uint64])},
	insts.OpSUB: {makeZpzz(opSub[uint8]), makeZpzz(opSub[uint16]), makeZpzz(opSub[uint32]), makeZpzz(opSub[uint64])},
	insts.OpAND: {makeZpzz(opAnd[uint8]), makeZpzz(opAnd[uint16]), makeZpzz(opAnd[uint32]), makeZpzz(opAnd[uint64])},
	insts.OpORR: {makeZpzz(opOrr[uint8]), makeZpzz(opOrr[uint16]), makeZpzz(opOrr[uint32]), makeZpzz(opOrr[uint64])},
	insts.OpEOR: {makeZpzz(opEor[uint8]), makeZpzz(opEor[uint16]), makeZpzz(opEor[uint32]), makeZpzz(opEor[uint64])},
	insts.OpBIC: {makeZpzz(opBic[uint8]), makeZpzz(opBic[uint16]), makeZpzz(opBic[uint32]), makeZpzz(opBic[uint64])},

	insts.OpSMAX: {makeZpzz(opMax[int8]), makeZpzz(opMax[int16]), makeZpzz(opMax[int32]), makeZpzz(opMax[int64])},
	insts.OpUMAX: {makeZpzz(opMax[uint8]), makeZpzz(opMax[uint16]), makeZpzz(opMax[uint32]), makeZpzz(opMax[uint64])},
	insts.OpSMIN: {makeZpzz(opMin[int8]), makeZpzz(opMin[int16]), makeZpzz(opMin[int32]), makeZpzz(opMin[int64])},
	insts.OpUMIN: {makeZpzz(opMin[uint8]), makeZpzz(opMin[uint16]), makeZpzz(opMin[uint32]), makeZpzz(opMin[uint64])},
	insts.OpSABD: {makeZpzz(opAbd[int8]), makeZpzz(opAbd[int16]), makeZpzz(opAbd[int32]), makeZpzz(opAbd[int64])},
	insts.OpUABD: {makeZpzz(opAbd[uint8]), makeZpzz(opAbd[uint16]), makeZpzz(opAbd[uint32]), makeZpzz(opAbd[uint64])},

	insts.OpMUL:   {makeZpzz(opMul[uint8]), makeZpzz(opMul[uint16]), makeZpzz(opMul[uint32]), makeZpzz(opMul[uint64])},
	insts.OpSMULH: {makeZpzz(mulh8[int8]), makeZpzz(mulh16[int16]), makeZpzz(mulh32[int32]), makeZpzz(smulh64)},
	insts.OpUMULH: {makeZpzz(umulh8[uint8]), makeZpzz(umulh16[uint16]), makeZpzz(umulh32[uint32]), makeZpzz(umulh64)},

	// Division exists only for 32- and 64-bit elements.
	insts.OpSDIV: {nil, nil, makeZpzz(opDiv[int32]), makeZpzz(opDiv[int64])},
	insts.OpUDIV: {nil, nil, makeZpzz(opDiv[uint32]), makeZpzz(opDiv[uint64])},

	insts.OpASR: {makeZpzz(opAsr[int8]), makeZpzz(opAsr[int16]), makeZpzz(opAsr[int32]), makeZpzz(opAsr[int64])},
	insts.OpLSR: {makeZpzz(opLsr[uint8]), makeZpzz(opLsr[uint16]), makeZpzz(opLsr[uint32]), makeZpzz(opLsr[uint64])},
	insts.OpLSL: {makeZpzz(opLsl[uint8]), makeZpzz(opLsl[uint16]), makeZpzz(opLsl[uint32]), makeZpzz(opLsl[uint64])},
}

// zpziTables maps the shift-by-immediate ops.
var zpziTables = map[insts.Op][4]zpziFn{
	insts.OpASRImm: {makeZpzi(opAsrImm[int8]), makeZpzi(opAsrImm[int16]), makeZpzi(opAsrImm[int32]), makeZpzi(opAsrImm[int64])},
	insts.OpLSRImm: {makeZpzi(opLsrImm[uint8]), makeZpzi(opLsrImm[uint16]), makeZpzi(opLsrImm[uint32]), makeZpzi(opLsrImm[uint64])},
	insts.OpLSLImm: {makeZpzi(opLslImm[uint8]), makeZpzi(opLslImm[uint16]), makeZpzi(opLslImm[uint32]), makeZpzi(opLslImm[uint64])},
	insts.OpASRD:   {makeZpzi(opAsrd[int8]), makeZpzi(opAsrd[int16]), makeZpzi(opAsrd[int32]), makeZpzi(opAsrd[int64])},
}

// vpzTables maps the reductions. The accumulator type is at least as
// wide as the element so conversion extends correctly; the mask
// truncates to the architectural return width.
var vpzTables = map[insts.Op][4]vpzFn{
	insts.OpORV: {
		makeReduce[uint8, uint8](0, opOrr[uint8], math.MaxUint8),
		makeReduce[uint16, uint16](0, opOrr[uint16], math.MaxUint16),
		makeReduce[uint32, uint32](0, opOrr[uint32], math.MaxUint32),
		makeReduce[uint64, uint64](0, opOrr[uint64], math.MaxUint64),
	},
	insts.OpEORV: {
		makeReduce[uint8, uint8](0, opEor[uint8], math.MaxUint8),
		makeReduce[uint16, uint16](0, opEor[uint16], math.MaxUint16),
		makeReduce[uint32, uint32](0, opEor[uint32], math.MaxUint32),
		makeReduce[uint64, uint64](0, opEor[uint64], math.MaxUint64),
	},
	insts.OpANDV: {
		makeReduce[uint8, uint8](math.MaxUint8, opAnd[uint8], math.MaxUint8),
		makeReduce[uint16, uint16](math.MaxUint16, opAnd[uint16], math.MaxUint16),
		makeReduce[uint32, uint32](math.MaxUint32, opAnd[uint32], math.MaxUint32),
		makeReduce[uint64, uint64](math.MaxUint64, opAnd[uint64], math.MaxUint64),
	},

	// Sums promote every element to a 64-bit accumulator. The signed
	// 64-bit form does not exist; UADDV covers doublewords.
	insts.OpSADDV: {
		makeReduce[int8, uint64](0, opAdd[uint64], math.MaxUint64),
		makeReduce[int16, uint64](0, opAdd[uint64], math.MaxUint64),
		makeReduce[int32, uint64](0, opAdd[uint64], math.MaxUint64),
		nil,
	},
	insts.OpUADDV: {
		makeReduce[uint8, uint64](0, opAdd[uint64], math.MaxUint64),
		makeReduce[uint16, uint64](0, opAdd[uint64], math.MaxUint64),
		makeReduce[uint32, uint64](0, opAdd[uint64], math.MaxUint64),
		makeReduce[uint64, uint64](0, opAdd[uint64], math.MaxUint64),
	},

	insts.OpSMAXV: {
		makeReduce[int8, int8](math.MinInt8, opMax[int8], math.MaxUint8),
		makeReduce[int16, int16](math.MinInt16, opMax[int16], math.MaxUint16),
		makeReduce[int32, int32](math.MinInt32, opMax[int32], math.MaxUint32),
		makeReduce[int64, int64](math.MinInt64, opMax[int64], math.MaxUint64),
	},
	insts.OpUMAXV: {
		makeReduce[uint8, uint8](0, opMax[uint8], math.MaxUint8),
		makeReduce[uint16, uint16](0, opMax[uint16], math.MaxUint16),
		makeReduce[uint32, uint32](0, opMax[uint32], math.MaxUint32),
		makeReduce[uint64, uint64](0, opMax[uint64], math.MaxUint64),
	},
	insts.OpSMINV: {
		makeReduce[int8, int8](math.MaxInt8, opMin[int8], math.MaxUint8),
		makeReduce[int16, int16](math.MaxInt16, opMin[int16], math.MaxUint16),
		makeReduce[int32, int32](math.MaxInt32, opMin[int32], math.MaxUint32),
		makeReduce[int64, int64](math.MaxInt64, opMin[int64], math.MaxUint64),
	},
	insts.OpUMINV: {
		makeReduce[uint8, uint8](math.MaxUint8, opMin[uint8], math.MaxUint8),
		makeReduce[uint16, uint16](math.MaxUint16, opMin[uint16], math.MaxUint16),
		makeReduce[uint32, uint32](math.MaxUint32, opMin[uint32], math.MaxUint32),
		makeReduce[uint64, uint64](math.MaxUint64, opMin[uint64], math.MaxUint64),
	},
}

// ppppTables maps the predicate logical ops.
var ppppTables = map[insts.Op]ppppOp{
	insts.OpPAND:  ppAnd,
	insts.OpPBIC:  ppBic,
	insts.OpPEOR:  ppEor,
	insts.OpPSEL:  ppSel,
	insts.OpPORR:  ppOrr,
	insts.OpPORN:  ppOrn,
	insts.OpPNOR:  ppNor,
	insts.OpPNAND: ppNand,
}

// VectorUnit executes decoded SVE instructions against a vector and a
// predicate register file. It holds no state of its own: every call
// is a single-shot transformation of the register files and flags.
type VectorUnit struct {
	z      *ZRegFile
	p      *PRegFile
	pstate *PSTATE
}

// NewVectorUnit creates a vector execution unit.
func NewVectorUnit(z *ZRegFile, p *PRegFile, pstate *PSTATE) *VectorUnit {
	if z.VL() != p.VL() {
		panic(fmt.Sprintf("emu: register files disagree on vector length: %d vs %d",
			z.VL(), p.VL()))
	}
	return &VectorUnit{z: z, p: p, pstate: pstate}
}

// Execute runs one instruction. Elementwise forms merge: inactive
// destination elements are left unchanged. An unallocated
// operation/width combination returns ErrUnallocated with no register
// or flag mutation.
func (u *VectorUnit) Execute(inst *insts.Instruction) error {
	return u.execute(inst, false)
}

// ExecuteZeroing runs the zeroing form of an elementwise instruction:
// inactive destination elements are cleared instead of preserved.
// Only the elementwise formats have a zeroing form.
func (u *VectorUnit) ExecuteZeroing(inst *insts.Instruction) error {
	switch inst.Format {
	case insts.FormatIntBinary, insts.FormatShiftImm:
		return u.execute(inst, true)
	default:
		return fmt.Errorf("emu: no zeroing form for %s", inst.Op)
	}
}

func (u *VectorUnit) execute(inst *insts.Instruction, zeroing bool) error {
	switch inst.Format {
	case insts.FormatIntBinary:
		return u.executeZpzz(inst, zeroing)
	case insts.FormatShiftImm:
		return u.executeZpzi(inst, zeroing)
	case insts.FormatIntReduce:
		return u.executeReduce(inst)
	case insts.FormatPredLogical:
		return u.executePredLogical(inst)
	case insts.FormatPredTest:
		return u.executePredTest(inst)
	case insts.FormatPredNav:
		return u.executePredNav(inst)
	default:
		return ErrUnallocated
	}
}

func (u *VectorUnit) executeZpzz(inst *insts.Instruction, zeroing bool) error {
	fns, ok := zpzzTables[inst.Op]
	if !ok {
		return ErrUnallocated
	}
	fn := fns[inst.ESize]
	if fn == nil {
		return ErrUnallocated
	}

	g := u.p.Words(inst.Pg)
	dst := u.z.Bytes(inst.Zd)
	fn(dst, u.z.Bytes(inst.Zn), u.z.Bytes(inst.Zm), g)
	if zeroing {
		zeroInactive(dst, g, inst.ESize.Bytes())
	}
	return nil
}

func (u *VectorUnit) executeZpzi(inst *insts.Instruction, zeroing bool) error {
	fns, ok := zpziTables[inst.Op]
	if !ok {
		return ErrUnallocated
	}
	fn := fns[inst.ESize]
	if fn == nil {
		return ErrUnallocated
	}

	g := u.p.Words(inst.Pg)
	dst := u.z.Bytes(inst.Zd)
	fn(dst, u.z.Bytes(inst.Zn), g, inst.Imm)
	if zeroing {
		zeroInactive(dst, g, inst.ESize.Bytes())
	}
	return nil
}

// executeReduce folds the active elements of Zn and writes the scalar
// result into the low lane of Zd, clearing the rest of the register
// the way a scalar destination write does.
func (u *VectorUnit) executeReduce(inst *insts.Instruction) error {
	fns, ok := vpzTables[inst.Op]
	if !ok {
		return ErrUnallocated
	}
	fn := fns[inst.ESize]
	if fn == nil {
		return ErrUnallocated
	}

	result := fn(u.z.Bytes(inst.Zn), u.p.Words(inst.Pg))

	dst := u.z.Bytes(inst.Zd)
	for i := range dst {
		dst[i] = 0
	}
	u.z.WriteLane64(inst.Zd, 0, result)
	return nil
}

func (u *VectorUnit) executePredLogical(inst *insts.Instruction) error {
	op, ok := ppppTables[inst.Op]
	if !ok {
		return ErrUnallocated
	}
	if inst.Op == insts.OpPSEL && inst.SetFlags {
		return ErrUnallocated
	}

	d := u.p.Words(inst.Pd)
	g := u.p.Words(inst.Pg)

	// Flags must reflect the governing predicate as it was before the
	// write; Pd and Pg may be the same register.
	var gSnap []uint64
	if inst.SetFlags {
		gSnap = append([]uint64(nil), g...)
	}

	pppp(d, u.p.Words(inst.Pn), u.p.Words(inst.Pm), g, op)
	d[len(d)-1] &= u.p.TailMask()

	if inst.SetFlags {
		u.pstate.SetFromPredTest(u.predTest(d, gSnap))
	}
	return nil
}

func (u *VectorUnit) executePredTest(inst *insts.Instruction) error {
	flags := u.predTest(u.p.Words(inst.Pn), u.p.Words(inst.Pg))
	u.pstate.SetFromPredTest(flags)
	return nil
}

func (u *VectorUnit) executePredNav(inst *insts.Instruction) error {
	d := u.p.Words(inst.Pd)
	g := u.p.Words(inst.Pg)

	var flags uint32
	switch inst.Op {
	case insts.OpPFIRST:
		flags = pfirst(d, g)
	case insts.OpPNEXT:
		flags = pnext(d, g, int(inst.ESize))
	default:
		return ErrUnallocated
	}

	d[len(d)-1] &= u.p.TailMask()
	u.pstate.SetFromPredTest(flags)
	return nil
}

// predTest picks the single-word fast path when the predicate fits in
// one 64-bit word.
func (u *VectorUnit) predTest(d, g []uint64) uint32 {
	if len(d) == 1 {
		return PredTest1(d[0], g[0])
	}
	return PredTest(d, g)
}
