package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/svesim/emu"
	"github.com/sarchlab/svesim/insts"
)

var _ = Describe("VectorUnit reductions", func() {
	var (
		zregs  *emu.ZRegFile
		pregs  *emu.PRegFile
		pstate *emu.PSTATE
		unit   *emu.VectorUnit
	)

	BeforeEach(func() {
		zregs = emu.NewZRegFile(16)
		pregs = emu.NewPRegFile(16)
		pstate = &emu.PSTATE{}
		unit = emu.NewVectorUnit(zregs, pregs, pstate)
	})

	reduce := func(op insts.Op, esize insts.ESize, vd, zn, pg uint8) *insts.Instruction {
		return &insts.Instruction{
			Op:     op,
			Format: insts.FormatIntReduce,
			ESize:  esize,
			Zd:     vd,
			Zn:     zn,
			Pg:     pg,
		}
	}

	Describe("Sums", func() {
		It("should promote UADDV bytes to a 64-bit total", func() {
			for i := 0; i < 16; i++ {
				zregs.WriteLane8(1, i, 0xFF)
			}
			for i := 0; i < 4; i++ {
				pregs.SetBit(0, i, true)
			}

			err := unit.Execute(reduce(insts.OpUADDV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(1020)))
		})

		It("should sign-extend SADDV elements into the accumulator", func() {
			zregs.WriteLane8(1, 0, 0xFF) // -1
			zregs.WriteLane8(1, 1, 0xFF) // -1
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 1, true)

			err := unit.Execute(reduce(insts.OpSADDV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0xFFFFFFFFFFFFFFFE)))
		})

		It("should wrap UADDV at 64 bits", func() {
			zregs.WriteLane64(1, 0, 0x8000000000000000)
			zregs.WriteLane64(1, 1, 0x8000000000000000)
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 8, true)

			err := unit.Execute(reduce(insts.OpUADDV, insts.ESizeD, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0)))
		})

		It("should return zero for a sum with no active elements", func() {
			for i := 0; i < 16; i++ {
				zregs.WriteLane8(1, i, 0xFF)
			}

			err := unit.Execute(reduce(insts.OpUADDV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0)))
		})

		It("should reject SADDV on doublewords as unallocated", func() {
			zregs.WriteLane64(0, 0, 0x1111111111111111)

			err := unit.Execute(reduce(insts.OpSADDV, insts.ESizeD, 0, 1, 0))
			Expect(err).To(MatchError(emu.ErrUnallocated))
			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x1111111111111111)))
		})
	})

	Describe("Bitwise folds", func() {
		It("should AND only the active elements", func() {
			zregs.WriteLane8(1, 0, 0x0F)
			zregs.WriteLane8(1, 1, 0x0A)
			zregs.WriteLane8(1, 2, 0x00) // inactive, must not clear the result
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 1, true)

			err := unit.Execute(reduce(insts.OpANDV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x0A)))
		})

		It("should AND word elements 0 and 2 of a four-word vector", func() {
			zregs.WriteLane32(1, 0, 0x0F)
			zregs.WriteLane32(1, 1, 0xF0)
			zregs.WriteLane32(1, 2, 0xAA)
			zregs.WriteLane32(1, 3, 0x55)
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 8, true)

			err := unit.Execute(reduce(insts.OpANDV, insts.ESizeS, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x0A)))
		})

		It("should return all ones for ANDV with no active elements", func() {
			err := unit.Execute(reduce(insts.OpANDV, insts.ESizeH, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0xFFFF)))
		})

		It("should OR the active elements", func() {
			zregs.WriteLane32(1, 0, 0x00010000)
			zregs.WriteLane32(1, 1, 0x00000200)
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 4, true)

			err := unit.Execute(reduce(insts.OpORV, insts.ESizeS, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x00010200)))
		})

		It("should XOR pairs away for EORV", func() {
			zregs.WriteLane8(1, 0, 0x55)
			zregs.WriteLane8(1, 1, 0x55)
			zregs.WriteLane8(1, 2, 0x0F)
			for i := 0; i < 3; i++ {
				pregs.SetBit(0, i, true)
			}

			err := unit.Execute(reduce(insts.OpEORV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x0F)))
		})
	})

	Describe("Max/min folds", func() {
		It("should pick the signed maximum", func() {
			zregs.WriteLane8(1, 0, 0x80) // -128
			zregs.WriteLane8(1, 1, 0xFF) // -1
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 1, true)

			err := unit.Execute(reduce(insts.OpSMAXV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0xFF)))
		})

		It("should seed SMAXV with the most negative value when empty", func() {
			err := unit.Execute(reduce(insts.OpSMAXV, insts.ESizeB, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x80)))
		})

		It("should seed UMINV with all ones when empty", func() {
			err := unit.Execute(reduce(insts.OpUMINV, insts.ESizeS, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0xFFFFFFFF)))
		})

		It("should pick the unsigned maximum", func() {
			zregs.WriteLane16(1, 0, 0x8000)
			zregs.WriteLane16(1, 1, 0x7FFF)
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 2, true)

			err := unit.Execute(reduce(insts.OpUMAXV, insts.ESizeH, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0x8000)))
		})

		It("should pick the signed minimum", func() {
			zregs.WriteLane32(1, 0, 5)
			zregs.WriteLane32(1, 1, 0xFFFFFFFE) // -2
			pregs.SetBit(0, 0, true)
			pregs.SetBit(0, 4, true)

			err := unit.Execute(reduce(insts.OpSMINV, insts.ESizeS, 0, 1, 0))
			Expect(err).ToNot(HaveOccurred())

			Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(0xFFFFFFFE)))
		})
	})

	It("should clear the rest of the destination register", func() {
		for i := 0; i < 16; i++ {
			zregs.WriteLane8(0, i, 0xAA)
		}
		zregs.WriteLane8(1, 0, 3)
		pregs.SetBit(0, 0, true)

		err := unit.Execute(reduce(insts.OpUADDV, insts.ESizeB, 0, 1, 0))
		Expect(err).ToNot(HaveOccurred())

		Expect(zregs.ReadLane64(0, 0)).To(Equal(uint64(3)))
		Expect(zregs.ReadLane64(0, 1)).To(Equal(uint64(0)))
	})
})
