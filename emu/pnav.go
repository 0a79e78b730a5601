package emu

import "math/bits"

// lastActiveElement returns the position of the highest set predicate
// bit of d that is valid for element size esz, scaled so that the
// result is the element's predicate bit index. Not found is a
// negative sentinel, -1 scaled by the element size, so that adding
// one element width lands on bit zero.
func lastActiveElement(d []uint64, esz int) int {
	mask := PredElemMasks[esz]
	for i := len(d) - 1; i >= 0; i-- {
		if w := d[i] & mask; w != 0 {
			return i*64 + 63 - bits.LeadingZeros64(w)
		}
	}
	return -1 << esz
}

// pfirst sets the lowest active governing bit in d if no governing
// word below it has been seen, leaving already-set bits alone, and
// returns the packed flags of the updated d against g.
func pfirst(d, g []uint64) uint32 {
	flags := uint32(predTestInit)
	for i := range d {
		thisD := d[i]
		thisG := g[i]

		if thisG != 0 {
			if flags&4 == 0 {
				thisD |= thisG & -thisG
				d[i] = thisD
			}
			flags = iterPredTestFwd(thisD, thisG, flags)
		}
	}
	return flags
}

// pnext advances d to the next governing-active bit position that is
// a multiple of the element size above d's current last active bit.
// On return d holds exactly one set bit, or none when the scan is
// exhausted, and the packed flags describe the new d against g.
func pnext(d, g []uint64, esz int) uint32 {
	words := len(d)
	eszMask := PredElemMasks[esz]
	flags := uint32(predTestInit)

	next := lastActiveElement(d, esz) + 1<<esz

	if next < words*64 {
		mask := ^uint64(0)
		if next&63 != 0 {
			mask = ^(uint64(1)<<(next&63) - 1)
			next &= -64
		}
		for next < words*64 {
			if thisG := g[next/64] & eszMask & mask; thisG != 0 {
				next = next&-64 + bits.TrailingZeros64(thisG)
				break
			}
			next += 64
			mask = ^uint64(0)
		}
	}

	for i := 0; i < words; i++ {
		var thisD uint64
		if i == next/64 {
			thisD = 1 << (next & 63)
		}
		d[i] = thisD
		flags = iterPredTestFwd(thisD, g[i]&eszMask, flags)
	}

	return flags
}
