// Command benchmark measures svesim emulation throughput.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv    Output results in CSV format (default: human-readable)
//	-n      Instructions per workload run
//	-vl     Vector length in bytes
//
// Each workload repeats a fixed instruction mix and reports executed
// instructions per second, which is useful for spotting regressions in
// the element loops.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sarchlab/svesim/emu"
)

var (
	csvOut = flag.Bool("csv", false, "Output results in CSV format")
	count  = flag.Int("n", 1_000_000, "Instructions per workload run")
	vl     = flag.Int("vl", emu.MaxVL, "Vector length in bytes")
)

type workload struct {
	name  string
	words []uint32
}

// The mixes reuse fixed encodings: predicated adds and multiplies, a
// reduction, and predicate bookkeeping.
var workloads = []workload{
	{"add-bytes", []uint32{0x04000443}},
	{"mul-words", []uint32{0x04900443}},
	{"mixed", []uint32{
		0x04000443, // ADD Z3.B, P1/M, Z3.B, Z2.B
		0x04012440, // UADDV D0, P1, Z2.B
		0x25034440, // AND P0, P1/Z, P2, P3
	}},
	{"reduce", []uint32{0x04012440}},
	{"pred-logical", []uint32{0x25034440}},
}

func main() {
	flag.Parse()

	if *csvOut {
		fmt.Println("workload,instructions,seconds,mips")
	}

	for _, w := range workloads {
		instructions, elapsed, err := run(w)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", w.name, err)
			os.Exit(1)
		}

		mips := float64(instructions) / elapsed.Seconds() / 1e6
		if *csvOut {
			fmt.Printf("%s,%d,%.4f,%.2f\n", w.name, instructions, elapsed.Seconds(), mips)
		} else {
			fmt.Printf("%-14s %10d insts in %8.3fs  %8.2f MIPS\n",
				w.name, instructions, elapsed.Seconds(), mips)
		}
	}
}

func run(w workload) (uint64, time.Duration, error) {
	e := emu.NewEmulator(emu.WithVectorLength(*vl))
	for i := 0; i < e.VL(); i++ {
		e.ZRegFile().WriteLane8(2, i, uint8(i))
		e.ZRegFile().WriteLane8(3, i, uint8(255-i))
		e.PRegFile().SetBit(1, i, true)
		if i%2 == 0 {
			e.PRegFile().SetBit(2, i, true)
			e.PRegFile().SetBit(3, i, true)
		}
	}

	start := time.Now()
	for int(e.InstructionCount()) < *count {
		if err := e.Run(w.words); err != nil {
			return 0, 0, err
		}
	}
	return e.InstructionCount(), time.Since(start), nil
}
