// Package cfg partitions decoded instructions into basic blocks.
package cfg

import (
	"sort"

	"sbpf/internal/decoder"
)

// Block is a run of instructions with a single entry at Start.
// It covers the half-open byte range [Start, End).
type Block struct {
	Start      uint64
	End        uint64
	Insts      []decoder.Instruction // sub-slice of the decoded sequence
	Successors []uint64              // branch targets inside the block, in address order
}

// Len returns the number of instructions in the block.
func (b Block) Len() int {
	return len(b.Insts)
}

// Contains reports whether addr lies in the block's range.
func (b Block) Contains(addr uint64) bool {
	return addr >= b.Start && addr < b.End
}

// Last returns the final instruction of the block.
func (b Block) Last() (decoder.Instruction, bool) {
	if len(b.Insts) == 0 {
		return decoder.Instruction{}, false
	}
	return b.Insts[len(b.Insts)-1], true
}

// FallThrough returns the implicit edge into the next contiguous block.
// It is not part of Successors: blocks record only explicit branch targets.
// Blocks ending in Ja or Exit, and the last block, have none.
func (b Block) FallThrough(blocks []Block) (uint64, bool) {
	if last, ok := b.Last(); ok {
		if last.Opcode == decoder.Ja || last.Opcode == decoder.Exit {
			return 0, false
		}
	}
	for _, next := range blocks {
		if next.Start == b.End && next.Start > b.Start {
			return next.Start, true
		}
	}
	return 0, false
}

// StreamEnd returns the address one past the last instruction.
func StreamEnd(insts []decoder.Instruction) uint64 {
	if len(insts) == 0 {
		return 0
	}
	return insts[len(insts)-1].End()
}

// BlockStarts returns the sorted, deduplicated block entry addresses.
// Address 0 is always present for non-empty input. Every control-flow
// instruction contributes the address after it; jumps also add their target.
func BlockStarts(insts []decoder.Instruction) []uint64 {
	if len(insts) == 0 {
		return nil
	}
	seen := map[uint64]bool{0: true}
	starts := []uint64{0}
	add := func(addr uint64) {
		if !seen[addr] {
			seen[addr] = true
			starts = append(starts, addr)
		}
	}
	for i, inst := range insts {
		if inst.Category() != decoder.ControlFlow {
			continue
		}
		if target, ok := inst.BranchTarget(); ok {
			add(target)
		}
		if i+1 < len(insts) {
			add(insts[i+1].Address)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	return starts
}

// Build carves insts into basic blocks ordered by start address.
func Build(insts []decoder.Instruction) []Block {
	starts := BlockStarts(insts)
	if len(starts) == 0 {
		return nil
	}
	streamEnd := StreamEnd(insts)

	blocks := make([]Block, 0, len(starts))
	for i, start := range starts {
		end := streamEnd
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end < start {
			end = start
		}

		lo := sort.Search(len(insts), func(k int) bool { return insts[k].Address >= start })
		hi := sort.Search(len(insts), func(k int) bool { return insts[k].Address >= end })

		block := Block{Start: start, End: end, Insts: insts[lo:hi:hi]}
		for _, inst := range block.Insts {
			if target, ok := inst.BranchTarget(); ok {
				block.Successors = append(block.Successors, target)
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// Find returns the index of the block containing addr.
func Find(blocks []Block, addr uint64) (int, bool) {
	i := sort.Search(len(blocks), func(k int) bool { return blocks[k].End > addr })
	if i < len(blocks) && blocks[i].Contains(addr) {
		return i, true
	}
	return 0, false
}

// IsStart reports whether addr is the entry of some block.
func IsStart(blocks []Block, addr uint64) bool {
	i := sort.Search(len(blocks), func(k int) bool { return blocks[k].Start >= addr })
	return i < len(blocks) && blocks[i].Start == addr
}
