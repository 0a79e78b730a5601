package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/svesim/emu"
	"github.com/sarchlab/svesim/insts"
)

var _ = Describe("Emulator", func() {
	It("should default to the minimum vector length", func() {
		e := emu.NewEmulator()

		Expect(e.VL()).To(Equal(16))
		Expect(e.ZRegFile().VL()).To(Equal(16))
		Expect(e.PRegFile().VL()).To(Equal(16))
	})

	It("should honor the vector length option", func() {
		e := emu.NewEmulator(emu.WithVectorLength(256))

		Expect(e.VL()).To(Equal(256))
		Expect(len(e.ZRegFile().Bytes(0))).To(Equal(256))
		Expect(len(e.PRegFile().Words(0))).To(Equal(4))
	})

	Describe("Step", func() {
		var e *emu.Emulator

		BeforeEach(func() {
			e = emu.NewEmulator()
		})

		// ADD Z3.S, P1/M, Z3.S, Z2.S
		It("should decode and execute an instruction word", func() {
			e.ZRegFile().WriteLane32(3, 0, 40)
			e.ZRegFile().WriteLane32(2, 0, 2)
			e.PRegFile().SetBit(1, 0, true)

			err := e.Step(0x04800443)
			Expect(err).ToNot(HaveOccurred())

			Expect(e.ZRegFile().ReadLane32(3, 0)).To(Equal(uint32(42)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
			Expect(e.OpCounts()[insts.OpADD]).To(Equal(uint64(1)))
		})

		It("should report undecodable words as unallocated", func() {
			err := e.Step(0xFFFFFFFF)

			Expect(err).To(MatchError(emu.ErrUnallocated))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})

		// SDIV Z0.B does not exist; the decode succeeds but execution
		// must reject it without side effects.
		It("should report unallocated width combinations", func() {
			e.ZRegFile().WriteLane8(0, 0, 9)
			e.PRegFile().SetBit(0, 0, true)

			err := e.Step(0x04140020)

			Expect(err).To(MatchError(emu.ErrUnallocated))
			Expect(e.ZRegFile().ReadLane8(0, 0)).To(Equal(uint8(9)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})
	})

	Describe("Run", func() {
		It("should execute a program in order", func() {
			e := emu.NewEmulator()
			for i := 0; i < 16; i++ {
				e.ZRegFile().WriteLane8(2, i, 1)
				e.PRegFile().SetBit(1, i, true)
			}
			e.PRegFile().SetBit(0, 0, true)
			e.ZRegFile().WriteLane8(3, 0, 1)

			program := []uint32{
				0x04800443, // ADD Z3.S, P1/M, Z3.S, Z2.S
				0x04012440, // UADDV D0, P1, Z2.B
			}
			Expect(e.Run(program)).To(Succeed())

			Expect(e.InstructionCount()).To(Equal(uint64(2)))
			Expect(e.ZRegFile().ReadLane64(0, 0)).To(Equal(uint64(16)))
		})

		It("should stop at the first failing instruction", func() {
			e := emu.NewEmulator()

			program := []uint32{0xFFFFFFFF, 0x04800443}
			err := e.Run(program)

			Expect(err).To(HaveOccurred())
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})
	})

	Describe("Zeroing mode", func() {
		It("should clear inactive lanes of elementwise results", func() {
			e := emu.NewEmulator(emu.WithZeroing())
			for i := 0; i < 16; i++ {
				e.ZRegFile().WriteLane8(3, i, 0x77)
			}
			e.ZRegFile().WriteLane32(2, 0, 1)
			e.PRegFile().SetBit(1, 0, true)

			Expect(e.Step(0x04800443)).To(Succeed()) // ADD Z3.S, P1/M

			Expect(e.ZRegFile().ReadLane32(3, 0)).To(Equal(uint32(0x77777778)))
			Expect(e.ZRegFile().ReadLane32(3, 1)).To(Equal(uint32(0)))
			Expect(e.ZRegFile().ReadLane32(3, 3)).To(Equal(uint32(0)))
		})
	})

	Describe("Large vector lengths", func() {
		It("should reduce across multiple predicate words", func() {
			e := emu.NewEmulator(emu.WithVectorLength(256))
			for i := 0; i < 256; i++ {
				e.ZRegFile().WriteLane8(2, i, 1)
				e.PRegFile().SetBit(1, i, true)
			}

			Expect(e.Step(0x04012440)).To(Succeed()) // UADDV D0, P1, Z2.B

			Expect(e.ZRegFile().ReadLane64(0, 0)).To(Equal(uint64(256)))
		})
	})

	Describe("Reset", func() {
		It("should clear registers and statistics but keep the vector length", func() {
			e := emu.NewEmulator(emu.WithVectorLength(64))
			e.ZRegFile().WriteLane8(0, 0, 1)
			e.PRegFile().SetBit(0, 0, true)
			Expect(e.Step(0x2550C440)).To(Succeed()) // PTEST P1, P2

			e.Reset()

			Expect(e.VL()).To(Equal(64))
			Expect(e.ZRegFile().ReadLane8(0, 0)).To(Equal(uint8(0)))
			Expect(e.PRegFile().Bit(0, 0)).To(BeFalse())
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
			Expect(e.OpCounts()).To(BeEmpty())
		})
	})
})
