package cfg

import (
	"fmt"
	"strings"
)

// maxInstrShown caps the instructions listed in a node label.
const maxInstrShown = 20

// ToDot returns a Graphviz DOT representation of the blocks. Branch edges
// are solid; implicit fall-through edges are dashed.
func ToDot(blocks []Block) string {
	var sb strings.Builder
	sb.WriteString("digraph CFG {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, fontname=\"Courier\"];\n")

	for _, block := range blocks {
		label := fmt.Sprintf("0x%x..0x%x\\l", block.Start, block.End)
		for i, inst := range block.Insts {
			if i >= maxInstrShown {
				label += "...\\l"
				break
			}
			label += fmt.Sprintf("0x%x: %s\\l", inst.Address, inst.Opcode)
		}
		label = strings.ReplaceAll(label, "\"", "\\\"")
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", nodeID(block.Start), label))

		for _, succ := range block.Successors {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", nodeID(block.Start), nodeID(succ)))
		}
		if next, ok := block.FallThrough(blocks); ok {
			sb.WriteString(fmt.Sprintf("  %s -> %s [style=dashed];\n", nodeID(block.Start), nodeID(next)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func nodeID(addr uint64) string {
	return fmt.Sprintf("b_%x", addr)
}
