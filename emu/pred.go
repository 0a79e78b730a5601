package emu

import "math/bits"

// PredElemMasks gives, per element size, the predicate bits that can
// govern an element: every bit for bytes, every second bit for
// halfwords, every fourth for words, every eighth for doublewords.
var PredElemMasks = [4]uint64{
	0xffffffffffffffff,
	0x5555555555555555,
	0x1111111111111111,
	0x0101010101010101,
}

// Expansion tables mapping one predicate byte to the byte mask of the
// 64-bit vector chunk it governs. Only one bit in every element-size
// group is architecturally meaningful; the halfword and word tables
// drop the bits that must be zero.
var (
	expandPredB = buildExpandTable(1)
	expandPredH = buildExpandTable(2)
	expandPredS = buildExpandTable(4)
)

func buildExpandTable(esize int) [256]uint64 {
	var t [256]uint64
	for i := range t {
		for j := 0; j < 8; j += esize {
			if i>>j&1 == 1 {
				t[i] |= (uint64(1)<<(8*esize) - 1) << (8 * j)
			}
		}
	}
	return t
}

// predBit reports whether predicate bit i is set. Element index e of
// width w bytes is governed by bit e*w.
func predBit(g []uint64, i int) bool {
	return g[i/64]>>(i%64)&1 == 1
}

// Packed NZCV value produced by the PredTest pseudofunction: bit 31
// set if N is set, bit 1 set if Z is clear, bit 0 set if C is set.
// For no governing bits set anywhere, NZCV = C.
const predTestInit = 1

// iterPredTestFwd advances the PredTest recurrence by one 64-bit word,
// moving from the lowest-indexed word forward:
//   - N is latched from the first word with a governing bit, taking
//     the result bit at the lowest governing bit (bit 2 of flags
//     records that the first governing bit has been seen).
//   - Z accumulates from every word's d&g.
//   - C is recomputed at every word from the highest governing bit;
//     the last word wins.
func iterPredTestFwd(d, g uint64, flags uint32) uint32 {
	if g != 0 {
		if flags&4 == 0 {
			if d&(g&-g) != 0 {
				flags |= 1 << 31
			}
			flags |= 4
		}

		if d&g != 0 {
			flags |= 2
		}

		flags &^= 1
		if d&pow2floor(g) == 0 {
			flags |= 1
		}
	}
	return flags
}

// pow2floor returns the highest set bit of x. x must be nonzero.
func pow2floor(x uint64) uint64 {
	return 1 << (63 - bits.LeadingZeros64(x))
}

// PredTest computes the packed NZCV summary of a result predicate d
// against a governing predicate g, word by word from index 0 upward.
func PredTest(d, g []uint64) uint32 {
	flags := uint32(predTestInit)
	for i := range d {
		flags = iterPredTestFwd(d[i], g[i], flags)
	}
	return flags
}

// PredTest1 is the single-word form of PredTest, used when the
// predicate fits in 64 bits.
func PredTest1(d, g uint64) uint32 {
	return iterPredTestFwd(d, g, predTestInit)
}
