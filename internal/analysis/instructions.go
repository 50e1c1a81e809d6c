package analysis

import (
	"sort"

	"golang.org/x/exp/constraints"

	"sbpf/internal/decoder"
)

// InstructionStats counts instructions by category and opcode.
type InstructionStats struct {
	Total       int
	ByCategory  map[decoder.Category]int
	ByOpcode    map[string]int
	ControlFlow ControlFlowInfo
}

// ControlFlowInfo counts control transfers. JumpTargets is sorted and unique.
type ControlFlowInfo struct {
	Jumps       int
	Calls       int
	Exits       int
	JumpTargets []uint64
}

// CountInstructions tallies insts. Every jump contributes a target,
// including the signed compares the lifter cannot follow.
func CountInstructions(insts []decoder.Instruction) InstructionStats {
	stats := InstructionStats{
		Total:      len(insts),
		ByCategory: make(map[decoder.Category]int),
		ByOpcode:   make(map[string]int),
	}
	targets := make(map[uint64]struct{})

	for _, inst := range insts {
		stats.ByCategory[inst.Category()]++
		stats.ByOpcode[inst.Opcode.String()]++

		if inst.Category() != decoder.ControlFlow {
			continue
		}
		switch inst.Opcode {
		case decoder.Call:
			stats.ControlFlow.Calls++
		case decoder.Exit:
			stats.ControlFlow.Exits++
		default:
			stats.ControlFlow.Jumps++
			targets[inst.JumpTarget()] = struct{}{}
		}
	}

	stats.ControlFlow.JumpTargets = SortedKeys(targets)
	return stats
}

// TopOpcodes returns up to n opcode names ordered by descending count,
// ties broken by name.
func (s InstructionStats) TopOpcodes(n int) []string {
	names := SortedKeys(s.ByOpcode)
	sort.SliceStable(names, func(i, j int) bool {
		return s.ByOpcode[names[i]] > s.ByOpcode[names[j]]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
