package lifter

import (
	"fmt"
	"sort"

	"sbpf/internal/cfg"
	"sbpf/internal/decoder"
)

// Block is a basic block in lifted form.
type Block struct {
	Address    uint64
	Insts      []Inst
	Successors []uint64
}

// Function is a single-entry region of the program.
type Function struct {
	Address uint64
	Name    string
	Blocks  []uint64
}

// Program is the lifted form of a whole code region.
type Program struct {
	Blocks    []Block
	Functions []Function
}

// LiftProgram lifts every block and records the functions reachable by
// entry, pc-relative calls, and known symbols. names maps code offsets to
// symbol names and may be nil.
func LiftProgram(insts []decoder.Instruction, blocks []cfg.Block, names map[uint64]string) *Program {
	prog := &Program{Blocks: make([]Block, 0, len(blocks))}
	for _, b := range blocks {
		prog.Blocks = append(prog.Blocks, Block{
			Address:    b.Start,
			Insts:      LiftAll(b.Insts),
			Successors: b.Successors,
		})
	}
	if len(insts) == 0 {
		return prog
	}

	entry := insts[0].Address
	seen := map[uint64]bool{entry: true}
	prog.Functions = append(prog.Functions, Function{
		Address: entry,
		Name:    "entry",
		Blocks:  ownedBlocks(blocks, entry),
	})

	add := func(addr uint64) {
		if seen[addr] || !cfg.IsStart(blocks, addr) {
			return
		}
		seen[addr] = true
		name, ok := names[addr]
		if !ok || name == "" {
			name = fmt.Sprintf("sub_%x", addr)
		}
		prog.Functions = append(prog.Functions, Function{
			Address: addr,
			Name:    name,
			Blocks:  ownedBlocks(blocks, addr),
		})
	}

	for _, inst := range insts {
		if target, ok := CallTarget(inst); ok {
			add(target)
		}
	}
	for addr := range names {
		add(addr)
	}

	sort.Slice(prog.Functions, func(i, j int) bool {
		return prog.Functions[i].Address < prog.Functions[j].Address
	})
	return prog
}

// CallTarget returns the code address of a pc-relative internal call
// (src register 1), using the same displacement formula as jumps.
func CallTarget(inst decoder.Instruction) (uint64, bool) {
	if inst.Opcode != decoder.Call || inst.Src != 1 {
		return 0, false
	}
	return inst.JumpTarget(), true
}

// ownedBlocks lists the blocks from start up to the next block that ends
// in Exit, which is as far as a function is followed.
func ownedBlocks(blocks []cfg.Block, start uint64) []uint64 {
	i, ok := cfg.Find(blocks, start)
	if !ok {
		if !cfg.IsStart(blocks, start) {
			return nil
		}
		return []uint64{start}
	}
	var out []uint64
	for ; i < len(blocks); i++ {
		out = append(out, blocks[i].Start)
		if last, ok := blocks[i].Last(); ok && last.Opcode == decoder.Exit {
			break
		}
	}
	return out
}
