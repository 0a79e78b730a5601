// Package emu provides functional emulation of the SVE predicated
// vector instructions.
package emu

import (
	"fmt"

	"github.com/sarchlab/svesim/insts"
)

// Emulator decodes and executes SVE instruction words against a
// vector register file, a predicate register file, and the NZCV
// condition flags.
type Emulator struct {
	zregs  *ZRegFile
	pregs  *PRegFile
	pstate *PSTATE

	decoder    *insts.Decoder
	vectorUnit *VectorUnit

	vl      int
	zeroing bool

	// Execution statistics
	instructionCount uint64
	opCounts         map[insts.Op]uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithVectorLength sets the vector length in bytes. It must be a
// multiple of 16 between 16 and 256; the default is 16.
func WithVectorLength(vl int) EmulatorOption {
	return func(e *Emulator) {
		e.vl = vl
	}
}

// WithZeroing makes elementwise instructions clear inactive
// destination elements instead of preserving them.
func WithZeroing() EmulatorOption {
	return func(e *Emulator) {
		e.zeroing = true
	}
}

// NewEmulator creates a new SVE emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		decoder:  insts.NewDecoder(),
		vl:       MinVL,
		opCounts: make(map[insts.Op]uint64),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.zregs = NewZRegFile(e.vl)
	e.pregs = NewPRegFile(e.vl)
	e.pstate = &PSTATE{}
	e.vectorUnit = NewVectorUnit(e.zregs, e.pregs, e.pstate)

	return e
}

// ZRegFile returns the emulator's vector register file.
func (e *Emulator) ZRegFile() *ZRegFile {
	return e.zregs
}

// PRegFile returns the emulator's predicate register file.
func (e *Emulator) PRegFile() *PRegFile {
	return e.pregs
}

// PSTATE returns the emulator's condition flags.
func (e *Emulator) PSTATE() *PSTATE {
	return e.pstate
}

// VL returns the vector length in bytes.
func (e *Emulator) VL() int {
	return e.vl
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// OpCounts returns the per-operation execution counts. The returned
// map is live; callers must not modify it.
func (e *Emulator) OpCounts() map[insts.Op]uint64 {
	return e.opCounts
}

// Reset clears all registers, flags, and statistics. The vector
// length is preserved.
func (e *Emulator) Reset() {
	e.zregs = NewZRegFile(e.vl)
	e.pregs = NewPRegFile(e.vl)
	e.pstate = &PSTATE{}
	e.vectorUnit = NewVectorUnit(e.zregs, e.pregs, e.pstate)
	e.instructionCount = 0
	e.opCounts = make(map[insts.Op]uint64)
}

// Step decodes and executes a single instruction word.
func (e *Emulator) Step(word uint32) error {
	inst := e.decoder.Decode(word)
	if inst == nil || inst.Op == insts.OpUnknown {
		return fmt.Errorf("%w: 0x%08X", ErrUnallocated, word)
	}

	var err error
	if e.zeroing && (inst.Format == insts.FormatIntBinary ||
		inst.Format == insts.FormatShiftImm) {
		err = e.vectorUnit.ExecuteZeroing(inst)
	} else {
		err = e.vectorUnit.Execute(inst)
	}
	if err != nil {
		return fmt.Errorf("executing 0x%08X (%s): %w", word, inst.Op, err)
	}

	e.instructionCount++
	e.opCounts[inst.Op]++
	return nil
}

// Run executes a sequence of instruction words in order, stopping at
// the first error.
func (e *Emulator) Run(words []uint32) error {
	for i, word := range words {
		if err := e.Step(word); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}
