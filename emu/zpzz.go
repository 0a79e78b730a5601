package emu

// zpzz applies op to every element of n and m whose governing bit is
// set, writing the result into dst. Elements are visited in
// increasing index order, and both source lanes are read before the
// destination lane is written, so dst may alias either source.
// Inactive destination elements are left untouched (merging form).
func zpzz[E elem](dst, n, m []byte, g []uint64, op func(E, E) E) {
	size := elemSize[E]()
	for off := 0; off < len(dst); off += size {
		if !predBit(g, off) {
			continue
		}
		nn := loadElem[E](n, off, size)
		mm := loadElem[E](m, off, size)
		storeElem(dst, off, size, op(nn, mm))
	}
}

// zpzi applies op with a fixed immediate to every active element of n,
// writing dst. Same ordering and aliasing rules as zpzz.
func zpzi[E elem](dst, n []byte, g []uint64, imm uint8, op func(E, uint8) E) {
	size := elemSize[E]()
	for off := 0; off < len(dst); off += size {
		if !predBit(g, off) {
			continue
		}
		storeElem(dst, off, size, op(loadElem[E](n, off, size), imm))
	}
}

// zeroInactive clears every element of dst whose governing bit is
// clear, turning a merged result into the zeroing form. Sub-64-bit
// widths expand each predicate byte to a byte mask; doublewords test
// the governing bit directly.
func zeroInactive(dst []byte, g []uint64, esize int) {
	if esize == 8 {
		for i := 0; i*8 < len(dst); i++ {
			if !predBit(g, i*8) {
				for j := 0; j < 8; j++ {
					dst[i*8+j] = 0
				}
			}
		}
		return
	}

	var table *[256]uint64
	switch esize {
	case 1:
		table = &expandPredB
	case 2:
		table = &expandPredH
	default:
		table = &expandPredS
	}

	for i := 0; i*8 < len(dst); i++ {
		pg := byte(g[i/8] >> (8 * (i % 8)))
		mask := table[pg]
		if mask == ^uint64(0) {
			continue
		}
		chunk := dst[i*8 : i*8+8]
		for j := 0; j < 8; j++ {
			chunk[j] &= byte(mask >> (8 * j))
		}
	}
}
