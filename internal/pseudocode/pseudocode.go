// Package pseudocode renders a lifted program as Rust-like source text.
package pseudocode

import (
	"fmt"
	"strings"

	"sbpf/internal/disasm"
	"sbpf/internal/lifter"
)

// MaxAssemblyLines bounds the assembly reference appended to the output.
const MaxAssemblyLines = 20

const indent = "    "

var operators = map[string]string{
	"add":  "+",
	"sub":  "-",
	"mul":  "*",
	"div":  "/",
	"mod":  "%",
	"or":   "|",
	"and":  "&",
	"xor":  "^",
	"lsh":  "<<",
	"rsh":  ">>",
}

// Generate emits the pseudocode document for prog followed by a listing of
// the first instructions in asm.
func Generate(prog *lifter.Program, asm disasm.Stream) string {
	var sb strings.Builder

	sb.WriteString("// Decompiled SBPF Program\n")
	sb.WriteString("// Generated pseudocode\n\n")
	sb.WriteString("fn entry() -> Result<(), Error> {\n")

	names := make(map[uint64]string)
	if prog != nil {
		for _, fn := range prog.Functions {
			if fn.Name != "entry" {
				names[fn.Address] = fn.Name
			}
		}
		for idx, block := range prog.Blocks {
			if idx > 0 {
				fmt.Fprintf(&sb, "\n%s// Basic block at 0x%x\n", indent, block.Address)
			}
			if name, ok := names[block.Address]; ok {
				fmt.Fprintf(&sb, "%s// fn %s\n", indent, name)
			}
			for _, inst := range block.Insts {
				sb.WriteString(indent)
				sb.WriteString(Line(inst))
				sb.WriteByte('\n')
			}
			switch len(block.Successors) {
			case 0:
			case 1:
				fmt.Fprintf(&sb, "%s// Jump to 0x%x\n", indent, block.Successors[0])
			default:
				fmt.Fprintf(&sb, "%s// Conditional jump\n", indent)
			}
		}
	}

	sb.WriteString("}\n\n")

	sb.WriteString("// Assembly reference:\n")
	for i, in := range asm {
		if i == MaxAssemblyLines {
			break
		}
		fmt.Fprintf(&sb, "// 0x%x: %s %s\n", in.Address, in.Mnemonic, in.Operands)
	}
	if len(asm) > MaxAssemblyLines {
		fmt.Fprintf(&sb, "// ... (%d more instructions)\n", len(asm)-MaxAssemblyLines)
	}
	return sb.String()
}

// Line renders a single IR instruction without indentation.
func Line(inst lifter.Inst) string {
	switch in := inst.(type) {
	case lifter.Load:
		return fmt.Sprintf("let r%d = *((r%d as *const u64).offset(%d));", in.Dst, in.Src, in.Offset/8)
	case lifter.Store:
		return fmt.Sprintf("*((r%d as *mut u64).offset(%d)) = r%d;", in.Dst, in.Offset/8, in.Src)
	case lifter.Arithmetic:
		return assign(in.Op, in.Dst, in.Src, in.Imm, in.HasImm)
	case lifter.Logic:
		return assign(in.Op, in.Dst, in.Src, in.Imm, in.HasImm)
	case lifter.Jump:
		if !in.Conditional() {
			return fmt.Sprintf("goto 0x%x;", in.Target)
		}
		return fmt.Sprintf("if r%d %s %s { goto 0x%x; }", in.Dst, in.Cond, operand(in.Src, in.Imm, in.HasImm), in.Target)
	case lifter.Call:
		if in.IsSyscall {
			return fmt.Sprintf("syscall(%d);", in.Target)
		}
		return fmt.Sprintf("call(0x%x);", uint64(in.Target))
	case lifter.Return:
		return "return;"
	case lifter.Exit:
		return "exit();"
	}
	return fmt.Sprintf("// unhandled %T", inst)
}

func assign(op string, dst, src uint8, imm int64, hasImm bool) string {
	rhs := operand(src, imm, hasImm)
	if op == "mov" {
		return fmt.Sprintf("r%d = %s;", dst, rhs)
	}
	sym, ok := operators[op]
	if !ok {
		sym = op
	}
	return fmt.Sprintf("r%d = r%d %s %s;", dst, dst, sym, rhs)
}

func operand(src uint8, imm int64, hasImm bool) string {
	if hasImm {
		return fmt.Sprintf("%d", imm)
	}
	return fmt.Sprintf("r%d", src)
}
