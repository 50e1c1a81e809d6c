package cfg

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Tree renders each block as a branch listing its outgoing edges.
func Tree(name string, blocks []Block) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s (%d blocks)", name, len(blocks)))

	for _, block := range blocks {
		branch := tree.AddMetaBranch(fmt.Sprintf("0x%x", block.Start),
			fmt.Sprintf("%d insts, ends 0x%x", block.Len(), block.End))
		for _, succ := range block.Successors {
			branch.AddNode(fmt.Sprintf("jump 0x%x", succ))
		}
		if next, ok := block.FallThrough(blocks); ok {
			branch.AddNode(fmt.Sprintf("fall 0x%x", next))
		}
	}
	return tree
}
