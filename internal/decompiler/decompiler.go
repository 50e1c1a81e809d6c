// Package decompiler runs the decode, block, lift and emit stages over a
// loaded program.
package decompiler

import (
	"log/slog"

	"sbpf/internal/cfg"
	"sbpf/internal/decoder"
	"sbpf/internal/disasm"
	"sbpf/internal/lifter"
	"sbpf/internal/program"
	"sbpf/internal/pseudocode"
)

// Result holds every intermediate stage of one decompilation.
type Result struct {
	Insts      []decoder.Instruction
	Blocks     []cfg.Block
	Program    *lifter.Program
	Assembly   disasm.Stream
	Pseudocode string
}

// Run decompiles bin and keeps the intermediate stages.
func Run(bin *program.Binary) *Result {
	insts := decoder.DecodeAll(bin.Bytecode)
	blocks := cfg.Build(insts)
	prog := lifter.LiftProgram(insts, blocks, bin.FunctionNames())
	asm := disasm.Disassemble(insts)

	slog.Debug("decompiled",
		"instructions", len(insts),
		"blocks", len(blocks),
		"functions", len(prog.Functions))

	return &Result{
		Insts:      insts,
		Blocks:     blocks,
		Program:    prog,
		Assembly:   asm,
		Pseudocode: pseudocode.Generate(prog, asm),
	}
}

// Decompile returns the pseudocode document for bin.
func Decompile(bin *program.Binary) string {
	return Run(bin).Pseudocode
}

// DecompileCode decompiles a bare code region with no container metadata.
func DecompileCode(code []byte) string {
	return Decompile(&program.Binary{Bytecode: code})
}
