package emu

// Shift-by-immediate operations. Go defines shifts of any count, so
// right shifts of a full element width fall out naturally: zero for
// logical shifts, sign fill for arithmetic ones.

func opAsrImm[E signedElem](n E, sh uint8) E { return n >> sh }

func opLsrImm[E unsignedElem](n E, sh uint8) E { return n >> sh }

func opLslImm[E elem](n E, sh uint8) E { return n << sh }

// opAsrd is arithmetic shift right with rounding toward zero, the
// shift form of signed division by a power of two. A negative value
// with any shifted-out bit set is corrected upward by one. The mask
// expression also covers sh == element width, where the quotient is
// always zero.
func opAsrd[E signedElem](n E, sh uint8) E {
	q := n >> sh
	if n < 0 && n&(E(1)<<sh-1) != 0 {
		q++
	}
	return q
}
