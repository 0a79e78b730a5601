package emu

// Predicate logical operations combine whole predicate registers word
// by word. Every operation folds its result into the governing
// predicate, except SEL, which picks n where the governing bit is set
// and m where it is clear.

type ppppOp func(n, m, g uint64) uint64

func ppAnd(n, m, g uint64) uint64  { return n & m & g }
func ppBic(n, m, g uint64) uint64  { return n &^ m & g }
func ppEor(n, m, g uint64) uint64  { return (n ^ m) & g }
func ppOrr(n, m, g uint64) uint64  { return (n | m) & g }
func ppOrn(n, m, g uint64) uint64  { return (n | ^m) & g }
func ppNor(n, m, g uint64) uint64  { return ^(n | m) & g }
func ppNand(n, m, g uint64) uint64 { return ^(n & m) & g }
func ppSel(n, m, g uint64) uint64  { return n&g | m&^g }

// pppp applies op across full predicate registers. d may alias any
// source; each word is fully read before it is written.
func pppp(d, n, m, g []uint64, op ppppOp) {
	for i := range d {
		d[i] = op(n[i], m[i], g[i])
	}
}
