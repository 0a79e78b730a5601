// Package main provides the entry point for svesim.
// Svesim is a functional emulator for SVE predicated vector
// instructions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
	"golang.org/x/sys/cpu"

	"github.com/sarchlab/svesim/emu"
	"github.com/sarchlab/svesim/stats"
)

var (
	vl        = flag.Int("vl", env.Int("SVESIM_VL", emu.MinVL), "Vector length in bytes (multiple of 16, 16-256)")
	zeroing   = flag.Bool("zero", false, "Use zeroing predication for elementwise instructions")
	showStats = flag.Bool("stats", false, "Print per-operation execution counts")
	dump      = flag.Bool("dump", false, "Dump nonzero registers and flags after execution")
	verbose   = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: svesim [options] <program.hex>\n")
		fmt.Fprintf(os.Stderr, "\nThe program file holds one 32-bit instruction word per line,\n")
		fmt.Fprintf(os.Stderr, "hexadecimal, with # starting a comment.\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	words, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Instruction words: %d\n", len(words))
		fmt.Printf("Vector length: %d bytes\n", *vl)
		if cpu.ARM64.HasSVE {
			fmt.Println("Host: arm64 with SVE")
		} else if cpu.ARM64.HasASIMD {
			fmt.Println("Host: arm64 with Advanced SIMD")
		}
	}

	opts := []emu.EmulatorOption{emu.WithVectorLength(*vl)}
	if *zeroing {
		opts = append(opts, emu.WithZeroing())
	}
	emulator := emu.NewEmulator(opts...)

	if err := emulator.Run(words); err != nil {
		fmt.Fprintf(os.Stderr, "Emulation error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("\nInstructions executed: %d\n", emulator.InstructionCount())
	}

	if *dump {
		dumpState(emulator)
	}

	if *showStats {
		frame := stats.OpCountFrame(emulator.OpCounts())
		fmt.Println(frame.Table())
		fmt.Printf("Total: %d\n", stats.Total(emulator.OpCounts()))
	}
}

// loadProgram reads a hex program file: one 32-bit instruction word
// per line, blank lines and #-comments skipped.
func loadProgram(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []uint32
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "0x")
		w, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		words = append(words, uint32(w))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// dumpState prints every nonzero register and the condition flags.
func dumpState(e *emu.Emulator) {
	fmt.Println()
	for r := uint8(0); r < emu.NumZRegs; r++ {
		b := e.ZRegFile().Bytes(r)
		if allZero(b) {
			continue
		}
		fmt.Printf("Z%-2d:", r)
		for i := len(b) - 8; i >= 0; i -= 8 {
			fmt.Printf(" %016x", e.ZRegFile().ReadLane64(r, i/8))
		}
		fmt.Println()
	}

	for r := uint8(0); r < emu.NumPRegs; r++ {
		words := e.PRegFile().Words(r)
		nonzero := false
		for _, w := range words {
			if w != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			continue
		}
		name := fmt.Sprintf("P%-2d", r)
		if r == emu.FFR {
			name = "FFR"
		}
		fmt.Printf("%s:", name)
		for i := len(words) - 1; i >= 0; i-- {
			fmt.Printf(" %016x", words[i])
		}
		fmt.Println()
	}

	ps := e.PSTATE()
	fmt.Printf("NZCV: N=%v Z=%v C=%v V=%v\n", ps.N, ps.Z, ps.C, ps.V)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
