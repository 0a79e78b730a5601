package emu

// reduce folds every active element of n into an accumulator seeded
// with init, in strictly increasing index order. E is the type the
// element is read as; A is the accumulation type, at least as wide as
// E so that conversion sign- or zero-extends as the operation
// requires. The caller converts the accumulator back to the
// architectural return width.
func reduce[E elem, A elem](n []byte, g []uint64, init A, op func(A, A) A) A {
	size := elemSize[E]()
	acc := init
	for off := 0; off < len(n); off += size {
		if !predBit(g, off) {
			continue
		}
		acc = op(acc, A(loadElem[E](n, off, size)))
	}
	return acc
}

// makeReduce adapts a typed reduction into the common table shape.
// The return value is the raw unsigned representation of the
// accumulator at the reduced width: retMask truncates without sign
// extension, so an all-inactive reduction returns the identity bit
// pattern unchanged.
func makeReduce[E elem, A elem](init A, op func(A, A) A, retMask uint64) vpzFn {
	return func(n []byte, g []uint64) uint64 {
		return uint64(reduce[E](n, g, init, op)) & retMask
	}
}
